// Package card 负责部落卡片的渲染与生命周期管理
// 本文件实现交互组件 custom_id 的编解码
// 格式：tribe:<tribeUuid>:<action>[:<extra>]，重启后仍可稳定解析
package card

import "strings"

// subject 本服务拥有的 custom_id 主题前缀
const subject = "tribe"

// 组件动作名
const (
	ActionPhotoPrev = "photo_prev"
	ActionPhotoNext = "photo_next"
	ActionMenu      = "menu"
)

// 菜单选项值
const (
	MenuLeave   = "leave"
	MenuHistory = "history"
	MenuDelete  = "delete"
)

// Ref 从 custom_id 解出的组件引用
type Ref struct {
	TribeUuid string
	Action    string
	Extra     string
}

// Encode 编码不带附加段的 custom_id
func Encode(tribeUuid, action string) string {
	return subject + ":" + tribeUuid + ":" + action
}

// EncodeWithExtra 编码带附加段的 custom_id，轮播按钮用附加段携带当前序号
func EncodeWithExtra(tribeUuid, action, extra string) string {
	return subject + ":" + tribeUuid + ":" + action + ":" + extra
}

// Decode 解析 custom_id
// 主题前缀不匹配或段数不合法返回 false，调用方应忽略该交互
func Decode(customId string) (Ref, bool) {
	parts := strings.Split(customId, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Ref{}, false
	}
	if parts[0] != subject || parts[1] == "" || parts[2] == "" {
		return Ref{}, false
	}

	ref := Ref{TribeUuid: parts[1], Action: parts[2]}
	if len(parts) == 4 {
		ref.Extra = parts[3]
	}
	return ref, true
}
