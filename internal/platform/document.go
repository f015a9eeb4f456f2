// Package platform 封装聊天平台的消息文档结构与 REST/网关接入
// 本文件定义发往平台的消息文档 wire 格式
package platform

import "strconv"

// 组件类型
const (
	ComponentActionRow  = 1
	ComponentButton     = 2
	ComponentSelectMenu = 3
)

// 按钮样式
const (
	ButtonPrimary   = 1
	ButtonSecondary = 2
	ButtonDanger    = 4
)

// Document 发往频道的完整消息文档
type Document struct {
	Content    string      `json:"content,omitempty"`
	Embeds     []Embed     `json:"embeds,omitempty"`
	Components []ActionRow `json:"components,omitempty"`
}

// Embed 富文本卡片
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Thumbnail   *EmbedImage  `json:"thumbnail,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

// EmbedImage 卡片图片引用
type EmbedImage struct {
	Url string `json:"url"`
}

// EmbedField 卡片分区
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// EmbedFooter 卡片脚注
type EmbedFooter struct {
	Text string `json:"text"`
}

// ActionRow 组件行，容纳按钮或选择菜单
type ActionRow struct {
	Type       int         `json:"type"`
	Components []Component `json:"components"`
}

// Component 交互组件，按 Type 区分按钮与选择菜单
type Component struct {
	Type        int            `json:"type"`
	Style       int            `json:"style,omitempty"`
	Label       string         `json:"label,omitempty"`
	Emoji       *Emoji         `json:"emoji,omitempty"`
	CustomId    string         `json:"custom_id,omitempty"`
	Disabled    bool           `json:"disabled,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Options     []SelectOption `json:"options,omitempty"`
}

// Emoji 组件表情
type Emoji struct {
	Name string `json:"name"`
}

// SelectOption 选择菜单的一个选项
type SelectOption struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Emoji       *Emoji `json:"emoji,omitempty"`
}

// NewButtonRow 构造一行按钮
func NewButtonRow(buttons ...Component) ActionRow {
	return ActionRow{Type: ComponentActionRow, Components: buttons}
}

// NewSelectRow 构造一行选择菜单
func NewSelectRow(menu Component) ActionRow {
	return ActionRow{Type: ComponentActionRow, Components: []Component{menu}}
}

// 交互类型
const (
	InteractionPing         = 1
	InteractionCommand      = 2
	InteractionComponent    = 3
	InteractionAutocomplete = 4
	InteractionModalSubmit  = 5
)

// Interaction 平台推送的交互事件（按钮点击、菜单选择、命令）
type Interaction struct {
	Id        string          `json:"id"`
	Type      int             `json:"type"`
	Token     string          `json:"token"`
	GuildId   string          `json:"guild_id"`
	ChannelId string          `json:"channel_id"`
	Member    *Member         `json:"member"`
	Message   *MessageRef     `json:"message"`
	Data      InteractionData `json:"data"`
}

// InteractionData 交互负载
type InteractionData struct {
	Name          string   `json:"name"`
	CustomId      string   `json:"custom_id"`
	ComponentType int      `json:"component_type"`
	Values        []string `json:"values"`
}

// Member 触发交互的成员及其平台权限位
type Member struct {
	User        User   `json:"user"`
	Permissions string `json:"permissions"`
}

// User 平台用户
type User struct {
	Id       string `json:"id"`
	Username string `json:"username"`
}

// MessageRef 交互所在的消息
type MessageRef struct {
	Id        string `json:"id"`
	ChannelId string `json:"channel_id"`
}

// permAdministrator 平台管理员权限位
const permAdministrator = 1 << 3

// IsStaff 判断成员是否持有平台管理员权限
func (m *Member) IsStaff() bool {
	if m == nil {
		return false
	}
	bits, err := strconv.ParseUint(m.Permissions, 10, 64)
	if err != nil {
		return false
	}
	return bits&permAdministrator != 0
}

// ActorId 返回触发交互的用户 ID，成员缺失时返回空串
func (i *Interaction) ActorId() string {
	if i.Member == nil {
		return ""
	}
	return i.Member.User.Id
}
