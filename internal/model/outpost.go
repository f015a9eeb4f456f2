package model

import "gorm.io/gorm"

// Outpost 前哨站，属于且仅属于一个部落
// 展示时按创建时间倒序（最新在前）
type Outpost struct {
	gorm.Model
	TribeUuid string `gorm:"column:tribe_uuid;index;type:char(18);not null;comment:部落ID"`
	CreatorId string `gorm:"column:creator_id;type:char(20);not null;comment:登记人"`
	MapName   string `gorm:"column:map_name;type:varchar(50);not null;comment:地图"`
	Coords    string `gorm:"column:coords;type:varchar(50);comment:坐标"`
}

func (Outpost) TableName() string {
	return "outpost"
}
