// Package router 提供 HTTP 路由注册
// 本文件定义 webhook 模式下平台交互回调的路由
package router

import (
	"github.com/gin-gonic/gin"

	"tribe_card_server/internal/config"
	"tribe_card_server/internal/infrastructure/middleware"
)

// RegisterInteractionRoutes 注册平台交互回调路由
// 仅 webhook 模式注册，gateway 模式下交互走长连接
func (rt *Router) RegisterInteractionRoutes(r *gin.Engine) {
	if config.GetConfig().PlatformConfig.InteractionMode != "webhook" {
		return
	}
	r.POST("/interactions", middleware.VerifySignature(), rt.handlers.Interaction.HandleInteraction)
}
