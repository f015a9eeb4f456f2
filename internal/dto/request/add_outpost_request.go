package request

// AddOutpostRequest 添加前哨站请求
// 使用位置:
//   - internal/handler/tribe_handler.go: AddOutpostHandler
//   - internal/service/tribe/service.go: AddOutpost
type AddOutpostRequest struct {
	ActorId string `json:"actor_id" binding:"required"`
	MapName string `json:"map_name" binding:"required,max=64"`
	Coords  string `json:"coords" binding:"max=32"`
}
