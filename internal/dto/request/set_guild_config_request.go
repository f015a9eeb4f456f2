package request

// SetGuildConfigRequest 写入 guild 配置请求
// 使用位置:
//   - internal/handler/catalog_handler.go: SetGuildConfigHandler
//   - internal/service/catalog/service.go: SetConfig
type SetGuildConfigRequest struct {
	GuildId string `json:"guild_id" binding:"required"`
	Key     string `json:"key" binding:"required,max=64"`
	Value   string `json:"value" binding:"required,max=256"`
}
