// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-gonic/gin"

	"tribe_card_server/internal/handler"
	"tribe_card_server/internal/infrastructure/middleware"
)

// Router 路由管理器，持有 Handler 聚合
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
// 认证与平台回调无需 JWT，管理接口统一挂在 JWT 保护的路由组下
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	rt.RegisterAuthRoutes(r)        // 认证路由（登录、Token 刷新）
	rt.RegisterInteractionRoutes(r) // 平台交互回调（Ed25519 签名校验）

	admin := r.Group("/", middleware.JWTAuth())
	rt.RegisterTribeRoutes(admin)   // 部落路由
	rt.RegisterCatalogRoutes(admin) // 目录与配置路由
}
