package model

import "gorm.io/gorm"

// 目录条目类别（管理员维护的选项列表）
const (
	CatalogMap  int8 = 1 // 地图
	CatalogBoss int8 = 2 // Boss
	CatalogNote int8 = 3 // 探险笔记
)

// CatalogEntry 选项目录条目
// guild_id 为 "0" 的行是全局默认列表，自动补全时与本 guild 的条目合并
type CatalogEntry struct {
	gorm.Model
	GuildId string `gorm:"column:guild_id;uniqueIndex:idx_guild_kind_name;type:char(20);not null;comment:guild id,0为全局"`
	Kind    int8   `gorm:"column:kind;uniqueIndex:idx_guild_kind_name;not null;comment:1map 2boss 3note"`
	Name    string `gorm:"column:name;uniqueIndex:idx_guild_kind_name;type:varchar(64);not null;comment:条目名"`
}

func (CatalogEntry) TableName() string {
	return "catalog_entry"
}
