package request

// CatalogEntryRequest 添加或删除目录条目请求
// Kind 取值见 model.CatalogMap / model.CatalogBoss / model.CatalogNote
// 使用位置:
//   - internal/handler/catalog_handler.go: AddCatalogEntryHandler, RemoveCatalogEntryHandler
//   - internal/service/catalog/service.go: AddEntry, RemoveEntry
type CatalogEntryRequest struct {
	GuildId string `json:"guild_id" binding:"required"`
	Kind    int8   `json:"kind" binding:"required,oneof=1 2 3"`
	Name    string `json:"name" binding:"required,max=64"`
}
