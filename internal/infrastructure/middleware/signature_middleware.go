package middleware

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"io"
	"net/http"

	"tribe_card_server/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VerifySignature 平台回调签名校验中间件
// 平台对 timestamp+body 做 Ed25519 签名，公钥在配置中以 hex 提供
// 校验失败必须返回 401，否则平台会判定端点不合规
func VerifySignature() gin.HandlerFunc {
	publicKeyHex := config.GetConfig().PlatformConfig.PublicKey
	publicKey, err := hex.DecodeString(publicKeyHex)
	if err != nil || len(publicKey) != ed25519.PublicKeySize {
		zap.L().Error("平台公钥配置无效，所有回调将被拒绝")
		publicKey = nil
	}

	return func(c *gin.Context) {
		if publicKey == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		signatureHex := c.GetHeader("X-Signature-Ed25519")
		timestamp := c.GetHeader("X-Signature-Timestamp")
		if signatureHex == "" || timestamp == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		signature, err := hex.DecodeString(signatureHex)
		if err != nil || len(signature) != ed25519.SignatureSize {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		// body 已被读走，回填供后续 handler 绑定
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		message := append([]byte(timestamp), body...)
		if !ed25519.Verify(ed25519.PublicKey(publicKey), message, signature) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}
