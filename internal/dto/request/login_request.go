package request

// LoginRequest 管理后台登录请求
// 使用位置:
//   - internal/handler/auth_handler.go: LoginHandler
//   - internal/service/auth/service.go: Login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}
