// Package router 提供 HTTP 路由注册
// 本文件定义目录与 guild 配置相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes 注册目录相关路由（需要认证）
func (rt *Router) RegisterCatalogRoutes(rg *gin.RouterGroup) {
	catalogGroup := rg.Group("/catalog")
	{
		catalogGroup.GET("/listNames", rt.handlers.Catalog.ListNames)       // 列出目录名称
		catalogGroup.GET("/autocomplete", rt.handlers.Catalog.Autocomplete) // 前缀过滤
		catalogGroup.POST("/addEntry", rt.handlers.Catalog.AddEntry)        // 添加条目
		catalogGroup.POST("/removeEntry", rt.handlers.Catalog.RemoveEntry)  // 删除条目
		catalogGroup.GET("/getConfig", rt.handlers.Catalog.GetConfig)       // 读取配置
		catalogGroup.POST("/setConfig", rt.handlers.Catalog.SetConfig)      // 写入配置
	}
}
