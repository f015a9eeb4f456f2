package request

// RemovePhotoRequest 按序号移除照片请求
// 使用位置:
//   - internal/handler/tribe_handler.go: RemovePhotoHandler
//   - internal/service/tribe/service.go: RemovePhoto
type RemovePhotoRequest struct {
	ActorId string `json:"actor_id" binding:"required"`
	Ord     int    `json:"ord" binding:"min=0"`
}
