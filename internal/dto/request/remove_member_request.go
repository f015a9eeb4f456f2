package request

// RemoveMemberRequest 移除部落成员请求
// 使用位置:
//   - internal/handler/tribe_handler.go: RemoveMemberHandler
//   - internal/service/tribe/service.go: RemoveMember
type RemoveMemberRequest struct {
	ActorId string `json:"actor_id" binding:"required"`
	UserId  string `json:"user_id" binding:"required"`
}
