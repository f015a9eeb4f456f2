package request

// PublishCardRequest 发布部落卡片请求
// SurfaceId 为调用方所在频道，guild 未配置卡片频道时作为兜底
// 使用位置:
//   - internal/handler/tribe_handler.go: PublishCardHandler
//   - internal/service/tribe/service.go: PublishCard
type PublishCardRequest struct {
	ActorId   string `json:"actor_id" binding:"required"`
	SurfaceId string `json:"surface_id"`
}
