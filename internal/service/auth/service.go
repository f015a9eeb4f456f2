// Package auth 提供管理后台的认证业务逻辑
// 管理员账号来自配置文件，登录后签发 JWT 令牌对
package auth

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tribe_card_server/internal/config"
	myredis "tribe_card_server/internal/dao/redis"
	"tribe_card_server/internal/dto/request"
	"tribe_card_server/internal/dto/respond"
	"tribe_card_server/pkg/constants"
	"tribe_card_server/pkg/errorx"
	myjwt "tribe_card_server/pkg/util/jwt"
)

// Service 认证服务实现
type Service struct {
	cache myredis.CacheService
}

// NewAuthService 创建认证服务实例
func NewAuthService(cache myredis.CacheService) *Service {
	return &Service{
		cache: cache,
	}
}

// Login 管理员密码登录
// 密码与配置中的 bcrypt 哈希比对，成功后签发令牌对
func (s *Service) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	conf := config.GetConfig()
	if req.Username != conf.AdminConfig.Username {
		return nil, errorx.New(errorx.CodeUnauthorized, "用户名或密码错误")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(conf.AdminConfig.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errorx.New(errorx.CodeUnauthorized, "用户名或密码错误")
	}

	return s.issueTokens(req.Username)
}

// Refresh 用 Refresh Token 换取新的令牌对
// Token ID 必须与 Redis 中记录的一致，旧 Refresh Token 随之作废
func (s *Service) Refresh(req request.RefreshTokenRequest) (*respond.LoginRespond, error) {
	claims, err := myjwt.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeUnauthorized, "refresh token 无效")
	}
	if claims.Subject != "refresh_token" || claims.TokenID == "" {
		return nil, errorx.New(errorx.CodeUnauthorized, "refresh token 无效")
	}

	valid, err := s.validateTokenID(claims.UserID, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, errorx.New(errorx.CodeUnauthorized, "refresh token 已失效")
	}

	return s.issueTokens(claims.UserID)
}

// issueTokens 签发令牌对并登记 Refresh Token ID
func (s *Service) issueTokens(userId string) (*respond.LoginRespond, error) {
	accessToken, err := myjwt.GenerateAccessToken(userId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenId, err := myjwt.GenerateRefreshToken(userId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	// 单点互踢：只保留最新的 Refresh Token ID
	redisKey := "admin_token:" + userId
	ttl := time.Duration(constants.REFRESH_TOKEN_EXPIRY_HOURS) * time.Hour
	if err := s.cache.Set(context.Background(), redisKey, tokenId, ttl); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	return &respond.LoginRespond{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    myjwt.AccessTokenExpirySeconds(),
	}, nil
}

// validateTokenID 验证 Refresh Token ID 是否仍有效
func (s *Service) validateTokenID(userId, tokenId string) (bool, error) {
	redisKey := "admin_token:" + userId
	validTokenId, err := s.cache.Get(context.Background(), redisKey)
	if err != nil {
		return false, err
	}
	if validTokenId == "" {
		return false, nil
	}
	return tokenId == validTokenId, nil
}
