// Package handler 提供 HTTP 请求处理器
// 本文件处理 webhook 模式下平台推送的交互回调
package handler

import (
	"context"
	"net/http"
	"time"

	"tribe_card_server/internal/platform"
	"tribe_card_server/internal/service/dispatch"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InteractionHandler 交互回调处理器
// 签名校验由 middleware.VerifySignature 在路由层完成
type InteractionHandler struct {
	dispatcher *dispatch.Dispatcher
}

// NewInteractionHandler 创建交互回调处理器实例
func NewInteractionHandler(dispatcher *dispatch.Dispatcher) *InteractionHandler {
	return &InteractionHandler{dispatcher: dispatcher}
}

// HandleInteraction 接收平台交互回调
// POST /interactions
// Ping 同步应答，其余交互转入后台调度，回执通过 callback 端点完成
func (h *InteractionHandler) HandleInteraction(c *gin.Context) {
	var interaction platform.Interaction
	if err := c.ShouldBindJSON(&interaction); err != nil {
		zap.L().Warn("交互回调解析失败", zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	if interaction.Type == platform.InteractionPing {
		c.JSON(http.StatusOK, gin.H{"type": platform.ResponsePong})
		return
	}

	// 平台只等待数秒，调度放入后台并立即返回
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		h.dispatcher.HandleInteraction(ctx, &interaction)
	}()

	c.Status(http.StatusAccepted)
}
