package respond

// TribeDetailRespond 部落完整信息响应
// 使用位置:
//   - internal/service/tribe/service.go: GetTribe
type TribeDetailRespond struct {
	Uuid          string            `json:"uuid"`
	GuildId       string            `json:"guild_id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Motto         string            `json:"motto"`
	Color         int               `json:"color"`
	LogoUrl       string            `json:"logo_url"`
	Objective     string            `json:"objective"`
	Recruiting    *bool             `json:"recruiting"`
	BaseMap       string            `json:"base_map"`
	BaseCoords    string            `json:"base_coords"`
	OwnerId       string            `json:"owner_id"`
	CardSurfaceId string            `json:"card_surface_id"`
	CardMessageId string            `json:"card_message_id"`
	Members       []MemberRespond   `json:"members"`
	Outposts      []OutpostRespond  `json:"outposts"`
	Photos        []string          `json:"photos"`
	Bosses        []ProgressRespond `json:"bosses"`
	Notes         []ProgressRespond `json:"notes"`
}

// MemberRespond 成员行
type MemberRespond struct {
	UserId     string `json:"user_id"`
	InGameName string `json:"in_game_name"`
	RoleLabel  string `json:"role_label"`
	Manager    bool   `json:"manager"`
	Owner      bool   `json:"owner"`
}

// OutpostRespond 前哨站行
type OutpostRespond struct {
	MapName   string `json:"map_name"`
	Coords    string `json:"coords"`
	CreatorId string `json:"creator_id"`
}

// ProgressRespond 进度标记行
type ProgressRespond struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}
