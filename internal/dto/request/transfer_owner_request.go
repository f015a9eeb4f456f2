package request

// TransferOwnerRequest 转让部落所有权请求
// 使用位置:
//   - internal/handler/tribe_handler.go: TransferOwnerHandler
//   - internal/service/tribe/service.go: TransferOwnership
type TransferOwnerRequest struct {
	ActorId    string `json:"actor_id" binding:"required"`
	NewOwnerId string `json:"new_owner_id" binding:"required"`
}
