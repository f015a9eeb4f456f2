// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"context"

	"tribe_card_server/internal/dto/request"
	"tribe_card_server/internal/dto/respond"
	"tribe_card_server/internal/service/permission"
)

// TribeService 部落业务接口
// 覆盖部落资料的全部读写操作与卡片发布
type TribeService interface {
	// CreateTribe 创建部落并发布首张卡片
	CreateTribe(ctx context.Context, req request.CreateTribeRequest) (*respond.TribeSummaryRespond, error)
	// GetTribe 获取部落完整信息
	GetTribe(tribeUuid string) (*respond.TribeDetailRespond, error)
	// ListTribes 列出 guild 内全部部落
	ListTribes(guildId string) ([]respond.TribeSummaryRespond, error)
	// ListMyTribes 按用户视角列出其管理与加入的部落
	ListMyTribes(guildId, userId string) (*respond.MyTribesRespond, error)
	// UpdateProfile 更新部落资料
	UpdateProfile(ctx context.Context, actor permission.Actor, tribeUuid string, req request.UpdateTribeRequest) error
	// UpsertMember 添加或更新成员
	UpsertMember(ctx context.Context, actor permission.Actor, tribeUuid string, req request.UpsertMemberRequest) error
	// RemoveMember 移除成员（含自行退出）
	RemoveMember(ctx context.Context, actor permission.Actor, tribeUuid, targetUserId string) error
	// AddOutpost 添加前哨站
	AddOutpost(ctx context.Context, actor permission.Actor, tribeUuid string, req request.AddOutpostRequest) error
	// RemoveOutpost 按地图名移除前哨站
	RemoveOutpost(ctx context.Context, actor permission.Actor, tribeUuid string, req request.RemoveOutpostRequest) error
	// AddPhoto 向相册追加照片
	AddPhoto(ctx context.Context, actor permission.Actor, tribeUuid string, req request.AddPhotoRequest) error
	// RemovePhoto 按序号移除照片并压实顺序
	RemovePhoto(ctx context.Context, actor permission.Actor, tribeUuid string, req request.RemovePhotoRequest) error
	// SetProgression 标记 Boss 或探索笔记进度
	SetProgression(ctx context.Context, actor permission.Actor, tribeUuid string, req request.SetProgressionRequest) error
	// TransferOwnership 转让所有权
	TransferOwnership(ctx context.Context, actor permission.Actor, tribeUuid string, req request.TransferOwnerRequest) error
	// DeleteTribe 删除部落（需输入部落名确认）
	DeleteTribe(ctx context.Context, actor permission.Actor, tribeUuid string, req request.DeleteTribeRequest) error
	// GetHistory 分页获取历史记录
	GetHistory(tribeUuid string, page int) (*respond.HistoryPageRespond, error)
	// PublishCard 发布或重新发布卡片
	PublishCard(ctx context.Context, actor permission.Actor, tribeUuid string, req request.PublishCardRequest) error
	// RefreshCard 原地刷新卡片（事件消费者使用）
	RefreshCard(ctx context.Context, tribeUuid string) error
}

// CatalogService 目录与 guild 配置业务接口
type CatalogService interface {
	// ListNames 列出某类目录的全部名称（全局层与 guild 层合并）
	ListNames(guildId string, kind int8) ([]string, error)
	// Autocomplete 按前缀过滤目录名
	Autocomplete(guildId string, kind int8, prefix string) ([]string, error)
	// AddEntry 添加目录条目
	AddEntry(req request.CatalogEntryRequest) error
	// RemoveEntry 删除目录条目
	RemoveEntry(req request.CatalogEntryRequest) error
	// GetConfig 读取 guild 配置（缺失时回退全局层）
	GetConfig(guildId, key string) (string, error)
	// SetConfig 写入 guild 配置
	SetConfig(req request.SetGuildConfigRequest) error
}

// AuthService 管理后台认证接口
type AuthService interface {
	// Login 管理员密码登录
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	// Refresh 刷新令牌对
	Refresh(req request.RefreshTokenRequest) (*respond.LoginRespond, error)
}
