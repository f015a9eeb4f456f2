package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tribe_card_server/internal/config"
	dao "tribe_card_server/internal/dao/mysql"
	myredis "tribe_card_server/internal/dao/redis"
	"tribe_card_server/internal/handler"
	"tribe_card_server/internal/https_server"
	"tribe_card_server/internal/infrastructure/logger"
	"tribe_card_server/internal/infrastructure/mq"
	"tribe_card_server/internal/platform"
	"tribe_card_server/internal/service"
	"tribe_card_server/pkg/util/jwt"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	dao.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	if err := myredis.Init(); err != nil {
		zap.L().Fatal("Redis 初始化失败", zap.Error(err))
	}
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT 与参数校验翻译器
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("翻译器初始化失败", zap.Error(err))
	}

	// 6. 初始化平台客户端与 Service 层（依赖注入）
	surface := platform.NewClient(conf)
	service.InitServices(dao.Repos, myredis.GetCacheService(), surface)
	zap.L().Info("Service 层初始化成功")

	// 7. 初始化 Kafka 事件总线
	// 消费其他分片发来的部落变更事件，在后台刷新对应卡片
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mq.KafkaService.KafkaInit()
	if conf.KafkaConfig.EventMode == "kafka" {
		go mq.KafkaService.ConsumeEvents(rootCtx, func(ctx context.Context, event *mq.TribeEvent) error {
			return service.Svc.Tribe.RefreshCard(ctx, event.TribeUuid)
		})
	}

	// 8. gateway 模式下建立平台长连接接收交互事件
	if conf.PlatformConfig.InteractionMode == "gateway" {
		gw := platform.NewGateway(conf, service.Svc.Dispatcher.HandleInteraction)
		go gw.Run(rootCtx)
		zap.L().Info("平台网关客户端已启动")
	}

	// 9. 初始化 HTTP 服务器
	handlers := handler.NewHandlers(service.Svc)
	engine := https_server.Init(handlers)
	zap.L().Info("HTTP 服务器初始化成功")

	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	cancel()
	mq.KafkaService.KafkaClose()
	if err := myredis.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	zap.L().Info("服务器已关闭")
}
