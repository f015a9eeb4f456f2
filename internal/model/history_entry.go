package model

import "gorm.io/gorm"

// HistoryEntry 部落操作历史，追加写入
// 除随部落级联删除外永不修改或删除；展示时分页、最新在前
type HistoryEntry struct {
	gorm.Model
	TribeUuid string `gorm:"column:tribe_uuid;index;type:char(18);not null;comment:部落ID"`
	UserId    string `gorm:"column:user_id;type:char(20);not null;comment:操作人"`
	Action    string `gorm:"column:action;type:varchar(64);not null;comment:动作标签"`
	Details   string `gorm:"column:details;type:varchar(500);comment:详情"`
}

func (HistoryEntry) TableName() string {
	return "history_entry"
}
