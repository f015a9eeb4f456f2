package respond

// LoginRespond 管理后台登录响应
// 使用位置:
//   - internal/service/auth/service.go: Login, Refresh
type LoginRespond struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
