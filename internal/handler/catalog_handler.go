// Package handler 提供 HTTP 请求处理器
// 本文件处理目录与 guild 配置相关的 API 请求
package handler

import (
	"strconv"

	"tribe_card_server/internal/dto/request"
	"tribe_card_server/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler 目录请求处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建目录处理器实例
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListNames 列出目录名称
// GET /catalog/listNames?guildId=xxx&kind=1
// 响应: []string
func (h *CatalogHandler) ListNames(c *gin.Context) {
	guildId := c.Query("guildId")
	kind, err := strconv.Atoi(c.Query("kind"))
	if guildId == "" || err != nil {
		HandleParamError(c, errMissingGuildId)
		return
	}
	data, err := h.catalogSvc.ListNames(guildId, int8(kind))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Autocomplete 前缀过滤目录名
// GET /catalog/autocomplete?guildId=xxx&kind=1&prefix=isl
// 响应: []string
func (h *CatalogHandler) Autocomplete(c *gin.Context) {
	guildId := c.Query("guildId")
	kind, err := strconv.Atoi(c.Query("kind"))
	if guildId == "" || err != nil {
		HandleParamError(c, errMissingGuildId)
		return
	}
	data, err := h.catalogSvc.Autocomplete(guildId, int8(kind), c.Query("prefix"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// AddEntry 添加目录条目
// POST /catalog/addEntry
// 请求体: request.CatalogEntryRequest
// 响应: nil
func (h *CatalogHandler) AddEntry(c *gin.Context) {
	var req request.CatalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.catalogSvc.AddEntry(req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RemoveEntry 删除目录条目
// POST /catalog/removeEntry
// 请求体: request.CatalogEntryRequest
// 响应: nil
func (h *CatalogHandler) RemoveEntry(c *gin.Context) {
	var req request.CatalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.catalogSvc.RemoveEntry(req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetConfig 读取 guild 配置
// GET /catalog/getConfig?guildId=xxx&key=card_channel
// 响应: string
func (h *CatalogHandler) GetConfig(c *gin.Context) {
	guildId := c.Query("guildId")
	key := c.Query("key")
	if guildId == "" || key == "" {
		HandleParamError(c, errMissingGuildId)
		return
	}
	data, err := h.catalogSvc.GetConfig(guildId, key)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SetConfig 写入 guild 配置
// POST /catalog/setConfig
// 请求体: request.SetGuildConfigRequest
// 响应: nil
func (h *CatalogHandler) SetConfig(c *gin.Context) {
	var req request.SetGuildConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.catalogSvc.SetConfig(req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
