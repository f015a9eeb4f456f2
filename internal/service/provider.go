// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"tribe_card_server/internal/dao/mysql/repository"
	myredis "tribe_card_server/internal/dao/redis"
	"tribe_card_server/internal/platform"
	"tribe_card_server/internal/service/auth"
	"tribe_card_server/internal/service/card"
	"tribe_card_server/internal/service/catalog"
	"tribe_card_server/internal/service/dispatch"
	"tribe_card_server/internal/service/tribe"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过 service.Svc 访问各个 Service
type Services struct {
	Tribe      TribeService         // 部落 Service
	Catalog    CatalogService       // 目录 Service
	Auth       AuthService          // 认证 Service
	Dispatcher *dispatch.Dispatcher // 交互调度器
	Publisher  *card.Publisher      // 卡片发布器
}

// NewServices 创建并注入所有 Service 实例
// 依赖注入流程：
//  1. 接收 Repository 聚合、缓存服务与平台客户端
//  2. 先创建卡片发布器，再创建依赖它的各 Service
//  3. 返回 Services 聚合
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService, surface platform.SurfaceAPI) *Services {
	publisher := card.NewPublisher(repos, surface)

	tribeSvc := tribe.NewTribeService(repos, cache, publisher)
	catalogSvc := catalog.NewCatalogService(repos, cache)
	authSvc := auth.NewAuthService(cache)
	dispatcher := dispatch.NewDispatcher(surface, publisher, tribeSvc)

	return &Services{
		Tribe:      tribeSvc,
		Catalog:    catalogSvc,
		Auth:       authSvc,
		Dispatcher: dispatcher,
		Publisher:  publisher,
	}
}

// Svc 全局 Services 实例
// Handler 层通过 service.Svc.Tribe.GetTribe() 等方式调用
var Svc *Services

// InitServices 初始化全局 Services 实例
// 应在 main.go 中调用，在 Repository 与平台客户端初始化之后
func InitServices(repos *repository.Repositories, cache myredis.AsyncCacheService, surface platform.SurfaceAPI) {
	Svc = NewServices(repos, cache, surface)
}
