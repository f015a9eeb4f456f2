package request

// RefreshTokenRequest 刷新访问令牌请求
// 使用位置:
//   - internal/handler/auth_handler.go: RefreshTokenHandler
//   - internal/service/auth/service.go: Refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
