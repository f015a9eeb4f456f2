package request

// UpsertMemberRequest 添加或更新部落成员请求
// 使用位置:
//   - internal/handler/tribe_handler.go: UpsertMemberHandler
//   - internal/service/tribe/service.go: UpsertMember
type UpsertMemberRequest struct {
	ActorId    string `json:"actor_id" binding:"required"`
	UserId     string `json:"user_id" binding:"required"`
	InGameName string `json:"in_game_name" binding:"max=64"`
	RoleLabel  string `json:"role_label" binding:"max=64"`
	Manager    *bool  `json:"manager"`
}
