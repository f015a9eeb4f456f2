// Package catalog 实现选项目录与 guild 配置的业务逻辑
// 目录是管理员维护的地图/Boss/笔记名单，guild 层与全局层合并生效
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"tribe_card_server/internal/dao/mysql/repository"
	myredis "tribe_card_server/internal/dao/redis"
	"tribe_card_server/internal/dto/request"
	"tribe_card_server/internal/model"
	"tribe_card_server/pkg/constants"
	"tribe_card_server/pkg/errorx"
)

// catalogService 目录业务逻辑实现
type catalogService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewCatalogService 构造函数，注入所有依赖
func NewCatalogService(repos *repository.Repositories, cacheService myredis.AsyncCacheService) *catalogService {
	return &catalogService{
		repos: repos,
		cache: cacheService,
	}
}

// ListNames 列出某类目录的全部名称
// 全局层与 guild 层合并去重，结果缓存
func (c *catalogService) ListNames(guildId string, kind int8) ([]string, error) {
	cacheKey := fmt.Sprintf("catalog_list_%s_%d", guildId, kind)

	rspString, err := c.cache.Get(context.Background(), cacheKey)
	if err == nil && rspString != "" {
		var names []string
		if err := json.Unmarshal([]byte(rspString), &names); err == nil {
			return names, nil
		}
	}

	guildIds := []string{constants.GLOBAL_GUILD_ID}
	if guildId != constants.GLOBAL_GUILD_ID {
		guildIds = append(guildIds, guildId)
	}
	names, err := c.repos.Catalog.FindNames(guildIds, kind)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	c.cache.SubmitTask(func() {
		data, err := json.Marshal(names)
		if err != nil {
			return
		}
		ttl := time.Duration(constants.CACHE_TTL_MINUTES) * time.Minute
		if err := c.cache.Set(context.Background(), cacheKey, string(data), ttl); err != nil {
			zap.L().Error(err.Error())
		}
	})

	return names, nil
}

// Autocomplete 按前缀过滤目录名，用于平台自动补全
// 大小写不敏感，结果数不超过平台上限
func (c *catalogService) Autocomplete(guildId string, kind int8, prefix string) ([]string, error) {
	names, err := c.ListNames(guildId, kind)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(prefix)
	matched := make([]string, 0, constants.AUTOCOMPLETE_MAX)
	for _, name := range names {
		if lower != "" && !strings.Contains(strings.ToLower(name), lower) {
			continue
		}
		matched = append(matched, name)
		if len(matched) >= constants.AUTOCOMPLETE_MAX {
			break
		}
	}
	return matched, nil
}

// AddEntry 向 guild 目录添加条目
func (c *catalogService) AddEntry(req request.CatalogEntryRequest) error {
	exists, err := c.repos.Catalog.Exists(req.GuildId, req.Kind, req.Name)
	if err != nil {
		return err
	}
	if exists {
		return errorx.Newf(errorx.CodeConflict, "« %s » est déjà dans la liste", req.Name)
	}

	entry := model.CatalogEntry{
		GuildId: req.GuildId,
		Kind:    req.Kind,
		Name:    req.Name,
	}
	if err := c.repos.Catalog.Create(&entry); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	c.invalidate(req.GuildId, req.Kind)
	return nil
}

// RemoveEntry 从 guild 目录删除条目
// 只删除本 guild 层的条目，全局层不受影响
func (c *catalogService) RemoveEntry(req request.CatalogEntryRequest) error {
	removed, err := c.repos.Catalog.Delete(req.GuildId, req.Kind, req.Name)
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if removed == 0 {
		return errorx.Newf(errorx.CodeNotFound, "« %s » n'est pas dans la liste", req.Name)
	}

	c.invalidate(req.GuildId, req.Kind)
	return nil
}

// GetConfig 读取 guild 配置，guild 层缺失时回退全局层
func (c *catalogService) GetConfig(guildId, key string) (string, error) {
	for _, gid := range []string{guildId, constants.GLOBAL_GUILD_ID} {
		value, err := c.repos.Config.FindValue(gid, key)
		if err == nil {
			return value, nil
		}
		if !errorx.IsNotFound(err) {
			return "", err
		}
	}
	return "", errorx.Newf(errorx.CodeNotFound, "配置不存在 key=%s", key)
}

// SetConfig 写入 guild 配置
func (c *catalogService) SetConfig(req request.SetGuildConfigRequest) error {
	if err := c.repos.Config.Set(req.GuildId, req.Key, req.Value); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// invalidate 目录变更后清理 guild 层与全局合并视图的缓存
func (c *catalogService) invalidate(guildId string, kind int8) {
	c.cache.SubmitTask(func() {
		patterns := []string{
			fmt.Sprintf("catalog_list_%s_%d", guildId, kind),
		}
		if guildId == constants.GLOBAL_GUILD_ID {
			// 全局层变更影响所有 guild 的合并结果
			patterns = []string{fmt.Sprintf("catalog_list_*_%d", kind)}
		}
		if err := c.cache.DeleteByPatterns(context.Background(), patterns); err != nil {
			zap.L().Error(err.Error())
		}
	})
}
