package request

// CreateTribeRequest 创建部落请求
// 使用位置:
//   - internal/handler/tribe_handler.go: CreateTribeHandler
//   - internal/service/tribe/service.go: CreateTribe
type CreateTribeRequest struct {
	GuildId     string `json:"guild_id" binding:"required"`
	SurfaceId   string `json:"surface_id"`
	OwnerId     string `json:"owner_id" binding:"required"`
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description" binding:"max=1024"`
	Motto       string `json:"motto" binding:"max=256"`
	Color       int    `json:"color"`
	LogoUrl     string `json:"logo_url" binding:"omitempty,url"`
}
