// Package platform 封装聊天平台的消息文档结构与 REST/网关接入
// 本文件实现基于 HTTP 的 SurfaceAPI 客户端
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tribe_card_server/internal/config"
	"tribe_card_server/pkg/errorx"
)

// 私密消息标志位
const flagEphemeral = 1 << 6

// Client SurfaceAPI 的 HTTP 实现
type Client struct {
	apiBase    string
	botToken   string
	httpClient *http.Client
}

// NewClient 根据配置创建平台客户端
func NewClient(conf *config.Config) *Client {
	timeout := conf.PlatformConfig.RequestTimeout * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiBase:  conf.PlatformConfig.ApiBase,
		botToken: conf.PlatformConfig.BotToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// postedMessage 平台创建消息的应答，只关心消息 ID
type postedMessage struct {
	Id string `json:"id"`
}

// interactionResponse 交互回执请求体
type interactionResponse struct {
	Type int                      `json:"type"`
	Data *interactionResponseData `json:"data,omitempty"`
}

type interactionResponseData struct {
	Content    string      `json:"content,omitempty"`
	Embeds     []Embed     `json:"embeds,omitempty"`
	Components []ActionRow `json:"components,omitempty"`
	Flags      int         `json:"flags,omitempty"`
}

// PostMessage 在频道发布消息，返回平台分配的消息 ID
func (c *Client) PostMessage(ctx context.Context, channelId string, doc *Document) (string, error) {
	url := fmt.Sprintf("%s/channels/%s/messages", c.apiBase, channelId)
	body, err := c.do(ctx, http.MethodPost, url, doc)
	if err != nil {
		return "", err
	}

	var posted postedMessage
	if err := json.Unmarshal(body, &posted); err != nil {
		return "", errorx.Wrapf(err, errorx.CodeSurfaceUnreachable, "解析发布应答 channel=%s", channelId)
	}
	if posted.Id == "" {
		return "", errorx.Newf(errorx.CodeSurfaceUnreachable, "发布应答缺少消息 ID channel=%s", channelId)
	}
	return posted.Id, nil
}

// EditMessage 原地编辑已发布的消息
func (c *Client) EditMessage(ctx context.Context, channelId, messageId string, doc *Document) error {
	url := fmt.Sprintf("%s/channels/%s/messages/%s", c.apiBase, channelId, messageId)
	_, err := c.do(ctx, http.MethodPatch, url, doc)
	return err
}

// DeleteMessage 删除消息
// 404 表示消息已被手工删除，按成功处理
func (c *Client) DeleteMessage(ctx context.Context, channelId, messageId string) error {
	url := fmt.Sprintf("%s/channels/%s/messages/%s", c.apiBase, channelId, messageId)
	_, err := c.do(ctx, http.MethodDelete, url, nil)
	if err != nil && errorx.GetCode(err) == errorx.CodeNotFound {
		return nil
	}
	return err
}

// RespondUpdate 以"更新原消息"方式回执交互
func (c *Client) RespondUpdate(ctx context.Context, interactionId, token string, doc *Document) error {
	resp := interactionResponse{
		Type: ResponseUpdateMessage,
		Data: &interactionResponseData{
			Content:    doc.Content,
			Embeds:     doc.Embeds,
			Components: doc.Components,
		},
	}
	return c.respond(ctx, interactionId, token, &resp)
}

// RespondEphemeral 以仅触发者可见的私密消息回执交互
func (c *Client) RespondEphemeral(ctx context.Context, interactionId, token, content string) error {
	resp := interactionResponse{
		Type: ResponseMessage,
		Data: &interactionResponseData{
			Content: content,
			Flags:   flagEphemeral,
		},
	}
	return c.respond(ctx, interactionId, token, &resp)
}

// RespondDeferred 先行确认交互
func (c *Client) RespondDeferred(ctx context.Context, interactionId, token string) error {
	resp := interactionResponse{Type: ResponseDeferredUpdate}
	return c.respond(ctx, interactionId, token, &resp)
}

// respond 调用交互回执端点
func (c *Client) respond(ctx context.Context, interactionId, token string, resp *interactionResponse) error {
	url := fmt.Sprintf("%s/interactions/%s/%s/callback", c.apiBase, interactionId, token)
	_, err := c.do(ctx, http.MethodPost, url, resp)
	return err
}

// do 执行一次平台请求并返回应答体
// 网络错误与 5xx 包装为 CodeSurfaceUnreachable，404 包装为 CodeNotFound
func (c *Client) do(ctx context.Context, method, url string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errorx.Wrap(err, errorx.CodeServerBusy, "序列化平台请求体")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeSurfaceUnreachable, "构造平台请求")
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeSurfaceUnreachable, "%s %s", method, url)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeSurfaceUnreachable, "读取平台应答 %s", url)
	}

	switch {
	case httpResp.StatusCode >= 200 && httpResp.StatusCode < 300:
		return body, nil
	case httpResp.StatusCode == http.StatusNotFound:
		return nil, errorx.Newf(errorx.CodeNotFound, "平台资源不存在 %s %s", method, url)
	case httpResp.StatusCode == http.StatusForbidden:
		return nil, errorx.Newf(errorx.CodeSurfaceUnreachable, "平台拒绝访问 %s %s", method, url)
	default:
		return nil, errorx.Newf(errorx.CodeSurfaceUnreachable, "平台应答异常 %s %s status=%d body=%s",
			method, url, httpResp.StatusCode, truncateBody(body))
	}
}

// truncateBody 截断错误日志中的应答体
func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

// 确保 Client 实现了 SurfaceAPI 接口
var _ SurfaceAPI = (*Client)(nil)
