package model

import (
	"gorm.io/gorm"
)

// Tribe 部落档案主表
// 名称在同一 guild 内大小写不敏感唯一，由仓储层查询保证（MySQL 的
// ci collation 配合 LOWER 查询），不依赖应用内存状态
// CardSurfaceId/CardMessageId 即卡片指针：当前存活卡片所在频道与消息，
// 两者同时为空表示没有存活卡片
type Tribe struct {
	gorm.Model
	Uuid        string `gorm:"column:uuid;uniqueIndex;type:char(18);not null;comment:部落唯一id"`
	GuildId     string `gorm:"column:guild_id;index;type:char(20);not null;comment:所属guild"`
	Name        string `gorm:"column:name;type:varchar(64);not null;comment:部落名称"`
	Description string `gorm:"column:description;type:varchar(500);comment:简介"`
	Color       int    `gorm:"column:color;default:3092790;comment:卡片主题色(0x2F3136)"`
	LogoUrl     string `gorm:"column:logo_url;type:varchar(255);comment:徽标URL"`
	Motto       string `gorm:"column:motto;type:varchar(100);comment:部落格言"`
	Recruiting  *bool  `gorm:"column:recruiting;comment:是否开放招募,NULL表示未设置"`
	Objective   string `gorm:"column:objective;type:varchar(100);comment:当前目标"`
	BaseMap     string `gorm:"column:base_map;type:varchar(50);comment:主基地地图"`
	BaseCoords  string `gorm:"column:base_coords;type:varchar(50);comment:主基地坐标"`
	OwnerId     string `gorm:"column:owner_id;index;type:char(20);not null;comment:部落所有者"`

	CardSurfaceId string `gorm:"column:card_surface_id;type:char(20);comment:存活卡片所在频道"`
	CardMessageId string `gorm:"column:card_message_id;type:char(20);comment:存活卡片消息id"`
}

func (Tribe) TableName() string {
	return "tribe"
}

// HasCard 是否存在卡片指针
func (t *Tribe) HasCard() bool {
	return t.CardSurfaceId != "" && t.CardMessageId != ""
}
