package respond

// TribeSummaryRespond 部落概要响应
// 使用位置:
//   - internal/service/tribe/service.go: CreateTribe, ListTribes
type TribeSummaryRespond struct {
	Uuid       string `json:"uuid"`
	GuildId    string `json:"guild_id"`
	Name       string `json:"name"`
	OwnerId    string `json:"owner_id"`
	MemberCnt  int    `json:"member_cnt"`
	Recruiting *bool  `json:"recruiting"`
	HasCard    bool   `json:"has_card"`
}
