// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由
// 用于管理后台登录与 JWT Token 管理
func (rt *Router) RegisterAuthRoutes(r *gin.Engine) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", rt.handlers.Auth.Login)          // 管理员登录
		authGroup.POST("/refresh", rt.handlers.Auth.RefreshToken) // 刷新 Access Token
	}
}
