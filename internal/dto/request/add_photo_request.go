package request

// AddPhotoRequest 向相册追加照片请求
// 使用位置:
//   - internal/handler/tribe_handler.go: AddPhotoHandler
//   - internal/service/tribe/service.go: AddPhoto
type AddPhotoRequest struct {
	ActorId string `json:"actor_id" binding:"required"`
	Url     string `json:"url" binding:"required,url"`
}
