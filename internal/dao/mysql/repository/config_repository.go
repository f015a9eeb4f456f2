// Package repository 提供数据访问层的具体实现
// 本文件实现 ConfigRepository 接口
package repository

import (
	"tribe_card_server/internal/model"

	"gorm.io/gorm"
)

// configRepository ConfigRepository 接口的实现
type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository 创建 ConfigRepository 实例
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

// FindValue 查找配置值
// 不做 guild "0" 兜底回退，回退策略由服务层组合两次查询实现
func (r *configRepository) FindValue(guildId, key string) (string, error) {
	var cfg model.GuildConfig
	err := r.db.
		Where("guild_id = ? AND cfg_key = ?", guildId, key).
		First(&cfg).Error
	if err != nil {
		return "", wrapDBErrorf(err, "查询配置 guild=%s key=%s", guildId, key)
	}
	return cfg.Value, nil
}

// Set 写入配置，已存在则覆盖
func (r *configRepository) Set(guildId, key, value string) error {
	var existing model.GuildConfig
	err := r.db.
		Where("guild_id = ? AND cfg_key = ?", guildId, key).
		First(&existing).Error
	if err != nil {
		if isRecordNotFound(err) {
			cfg := model.GuildConfig{GuildId: guildId, Key: key, Value: value}
			if err := r.db.Create(&cfg).Error; err != nil {
				return wrapDBError(err, "创建配置")
			}
			return nil
		}
		return wrapDBError(err, "查询配置")
	}

	if err := r.db.Model(&existing).Update("cfg_value", value).Error; err != nil {
		return wrapDBError(err, "更新配置")
	}
	return nil
}
