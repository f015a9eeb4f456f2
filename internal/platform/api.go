// Package platform 封装聊天平台的消息文档结构与 REST/网关接入
// 本文件定义卡片生命周期依赖的平台操作接口
package platform

import "context"

// 交互回执类型
const (
	ResponsePong           = 1
	ResponseMessage        = 4
	ResponseDeferredUpdate = 6
	ResponseUpdateMessage  = 7
)

// SurfaceAPI 平台消息操作接口
// 卡片发布、编辑与交互回执都走此接口，测试时用假实现替换
type SurfaceAPI interface {
	// PostMessage 在频道发布消息，返回平台分配的消息 ID
	PostMessage(ctx context.Context, channelId string, doc *Document) (string, error)
	// EditMessage 原地编辑已发布的消息
	EditMessage(ctx context.Context, channelId, messageId string, doc *Document) error
	// DeleteMessage 删除消息，消息已不存在不视为错误
	DeleteMessage(ctx context.Context, channelId, messageId string) error
	// RespondUpdate 以"更新原消息"方式回执交互
	RespondUpdate(ctx context.Context, interactionId, token string, doc *Document) error
	// RespondEphemeral 以仅触发者可见的私密消息回执交互
	RespondEphemeral(ctx context.Context, interactionId, token, content string) error
	// RespondDeferred 先行确认交互，后续通过消息编辑完成更新
	RespondDeferred(ctx context.Context, interactionId, token string) error
}
