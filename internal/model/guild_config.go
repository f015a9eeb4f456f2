package model

import "gorm.io/gorm"

// GuildConfig guild 级键值配置
// guild_id 为 "0" 的行是全局兜底默认值；读取时先查本 guild 再回退全局
type GuildConfig struct {
	gorm.Model
	GuildId string `gorm:"column:guild_id;uniqueIndex:idx_guild_key;type:char(20);not null;comment:guild id,0为全局"`
	Key     string `gorm:"column:cfg_key;uniqueIndex:idx_guild_key;type:varchar(64);not null;comment:配置键"`
	Value   string `gorm:"column:cfg_value;type:varchar(255);comment:配置值"`
}

func (GuildConfig) TableName() string {
	return "guild_config"
}
