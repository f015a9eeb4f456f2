// Package router 提供 HTTP 路由注册
// 本文件定义部落相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterTribeRoutes 注册部落相关路由（需要认证）
// 包括部落资料、成员、前哨站、相册、进度与卡片发布
func (rt *Router) RegisterTribeRoutes(rg *gin.RouterGroup) {
	tribeGroup := rg.Group("/tribe")
	{
		// ===== 部落基本操作 =====
		tribeGroup.POST("/createTribe", rt.handlers.Tribe.CreateTribe)        // 创建部落
		tribeGroup.GET("/listTribes", rt.handlers.Tribe.ListTribes)           // 列出 guild 内部落
		tribeGroup.GET("/listMyTribes", rt.handlers.Tribe.ListMyTribes)       // 列出用户相关部落
		tribeGroup.GET("/getTribe/:uuid", rt.handlers.Tribe.GetTribe)         // 获取部落详情
		tribeGroup.POST("/updateTribe/:uuid", rt.handlers.Tribe.UpdateTribe)  // 更新部落资料
		tribeGroup.POST("/deleteTribe/:uuid", rt.handlers.Tribe.DeleteTribe)  // 删除部落（输入部落名确认）
		tribeGroup.POST("/transferOwner/:uuid", rt.handlers.Tribe.TransferOwner) // 转让所有权

		// ===== 成员管理 =====
		tribeGroup.POST("/upsertMember/:uuid", rt.handlers.Tribe.UpsertMember) // 添加或更新成员
		tribeGroup.POST("/removeMember/:uuid", rt.handlers.Tribe.RemoveMember) // 移除成员

		// ===== 前哨站与相册 =====
		tribeGroup.POST("/addOutpost/:uuid", rt.handlers.Tribe.AddOutpost)       // 添加前哨站
		tribeGroup.POST("/removeOutpost/:uuid", rt.handlers.Tribe.RemoveOutpost) // 移除前哨站
		tribeGroup.POST("/addPhoto/:uuid", rt.handlers.Tribe.AddPhoto)           // 追加照片
		tribeGroup.POST("/removePhoto/:uuid", rt.handlers.Tribe.RemovePhoto)     // 移除照片

		// ===== 进度与历史 =====
		tribeGroup.POST("/setProgression/:uuid", rt.handlers.Tribe.SetProgression) // 标记进度
		tribeGroup.GET("/getHistory/:uuid", rt.handlers.Tribe.GetHistory)          // 分页历史

		// ===== 卡片 =====
		tribeGroup.POST("/publishCard/:uuid", rt.handlers.Tribe.PublishCard) // 发布卡片
	}
}
