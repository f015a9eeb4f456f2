package request

// SetProgressionRequest 标记 Boss 或探索笔记进度请求
// Category 取值见 model.ProgressionBoss / model.ProgressionNote
// 使用位置:
//   - internal/handler/tribe_handler.go: SetProgressionHandler
//   - internal/service/tribe/service.go: SetProgression
type SetProgressionRequest struct {
	ActorId  string `json:"actor_id" binding:"required"`
	Category int8   `json:"category" binding:"required,oneof=1 2"`
	Name     string `json:"name" binding:"required,max=64"`
	Done     bool   `json:"done"`
}
