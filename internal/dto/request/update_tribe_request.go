package request

// UpdateTribeRequest 更新部落资料请求
// 指针字段为 nil 表示不修改
// 使用位置:
//   - internal/handler/tribe_handler.go: UpdateTribeHandler
//   - internal/service/tribe/service.go: UpdateProfile
type UpdateTribeRequest struct {
	ActorId     string  `json:"actor_id" binding:"required"`
	Name        *string `json:"name" binding:"omitempty,max=64"`
	Description *string `json:"description" binding:"omitempty,max=1024"`
	Motto       *string `json:"motto" binding:"omitempty,max=256"`
	Color       *int    `json:"color"`
	LogoUrl     *string `json:"logo_url"`
	Objective   *string `json:"objective" binding:"omitempty,max=1024"`
	Recruiting  *bool   `json:"recruiting"`
	BaseMap     *string `json:"base_map"`
	BaseCoords  *string `json:"base_coords" binding:"omitempty,max=32"`
}
