package request

// RemoveOutpostRequest 按地图名移除前哨站请求
// 使用位置:
//   - internal/handler/tribe_handler.go: RemoveOutpostHandler
//   - internal/service/tribe/service.go: RemoveOutpost
type RemoveOutpostRequest struct {
	ActorId string `json:"actor_id" binding:"required"`
	MapName string `json:"map_name" binding:"required,max=64"`
}
