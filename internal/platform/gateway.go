// Package platform 封装聊天平台的消息文档结构与 REST/网关接入
// 本文件实现 WebSocket 网关客户端，长连接接收交互事件
package platform

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tribe_card_server/internal/config"
)

// 网关帧操作码
const (
	opDispatch  = 0
	opHeartbeat = 1
	opIdentify  = 2
	opHello     = 10
)

// eventInteractionCreate 交互事件名
const eventInteractionCreate = "INTERACTION_CREATE"

// gatewayFrame 网关下行帧
type gatewayFrame struct {
	Op   int             `json:"op"`
	Type string          `json:"t"`
	Data json.RawMessage `json:"d"`
}

// identifyPayload 上行鉴权帧
type identifyPayload struct {
	Op   int          `json:"op"`
	Data identifyData `json:"d"`
}

type identifyData struct {
	Token string `json:"token"`
}

// helloData Hello 帧负载，携带心跳间隔
type helloData struct {
	HeartbeatInterval int `json:"heartbeat_interval"`
}

// InteractionHandler 交互事件处理函数
type InteractionHandler func(ctx context.Context, interaction *Interaction)

// Gateway WebSocket 网关客户端
// 断线后指数退避重连，收到的交互事件逐条交给 handler
type Gateway struct {
	url     string
	token   string
	handler InteractionHandler
}

// NewGateway 创建网关客户端
func NewGateway(conf *config.Config, handler InteractionHandler) *Gateway {
	return &Gateway{
		url:     conf.PlatformConfig.GatewayURL,
		token:   conf.PlatformConfig.BotToken,
		handler: handler,
	}
}

// Run 维持网关连接直到 ctx 取消
func (g *Gateway) Run(ctx context.Context) {
	backoff := time.Second
	const maxBackoff = 60 * time.Second

	for {
		if ctx.Err() != nil {
			return
		}

		err := g.runOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			zap.L().Warn("网关连接断开，准备重连",
				zap.Error(err),
				zap.Duration("backoff", backoff))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// runOnce 建立一次连接并消费事件，连接断开时返回
func (g *Gateway) runOnce(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, g.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// 鉴权
	identify := identifyPayload{Op: opIdentify, Data: identifyData{Token: g.token}}
	if err := conn.WriteJSON(identify); err != nil {
		return err
	}
	zap.L().Info("网关连接建立", zap.String("url", g.url))

	// ctx 取消时主动关闭连接，解除读阻塞
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	var heartbeatStop chan struct{}
	defer func() {
		if heartbeatStop != nil {
			close(heartbeatStop)
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame gatewayFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			zap.L().Warn("网关帧解析失败", zap.Error(err))
			continue
		}

		switch frame.Op {
		case opHello:
			var hello helloData
			if err := json.Unmarshal(frame.Data, &hello); err != nil {
				zap.L().Warn("Hello 帧解析失败", zap.Error(err))
				continue
			}
			if heartbeatStop != nil {
				close(heartbeatStop)
			}
			heartbeatStop = make(chan struct{})
			go g.heartbeatLoop(conn, time.Duration(hello.HeartbeatInterval)*time.Millisecond, heartbeatStop)
		case opDispatch:
			if frame.Type != eventInteractionCreate {
				continue
			}
			var interaction Interaction
			if err := json.Unmarshal(frame.Data, &interaction); err != nil {
				zap.L().Warn("交互事件解析失败", zap.Error(err))
				continue
			}
			go g.handler(ctx, &interaction)
		}
	}
}

// heartbeatLoop 按平台指定的间隔发送心跳
func (g *Gateway) heartbeatLoop(conn *websocket.Conn, interval time.Duration, stop chan struct{}) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.WriteJSON(map[string]int{"op": opHeartbeat}); err != nil {
				return
			}
		}
	}
}
