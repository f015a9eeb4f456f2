package request

// DeleteTribeRequest 删除部落请求
// ConfirmName 必须与部落名完全一致，防止误删
// 使用位置:
//   - internal/handler/tribe_handler.go: DeleteTribeHandler
//   - internal/service/tribe/service.go: DeleteTribe
type DeleteTribeRequest struct {
	ActorId     string `json:"actor_id" binding:"required"`
	ConfirmName string `json:"confirm_name" binding:"required"`
}
