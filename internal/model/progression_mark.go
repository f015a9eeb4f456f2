package model

import "gorm.io/gorm"

// 进度标记类别
const (
	ProgressionBoss int8 = 1 // Boss 击杀进度
	ProgressionNote int8 = 2 // 探险笔记进度
)

// ProgressionMark 进度标记
// (tribe_uuid, category, name) 唯一，Done 表示"已完成"或"明确未完成"；
// 没有行则表示从未评估过。同名条目在 done/not-done 两个集合间互斥
// 由该唯一约束直接保证
type ProgressionMark struct {
	gorm.Model
	TribeUuid string `gorm:"column:tribe_uuid;uniqueIndex:idx_tribe_cat_name;type:char(18);not null;comment:部落ID"`
	Category  int8   `gorm:"column:category;uniqueIndex:idx_tribe_cat_name;not null;comment:1boss 2note"`
	Name      string `gorm:"column:name;uniqueIndex:idx_tribe_cat_name;type:varchar(64);not null;comment:条目名"`
	Done      bool   `gorm:"column:done;not null;comment:true已完成 false明确未完成"`
}

func (ProgressionMark) TableName() string {
	return "progression_mark"
}
