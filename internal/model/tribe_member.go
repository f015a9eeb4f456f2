package model

import "gorm.io/gorm"

// TribeMember 部落成员关联表
// (tribe_uuid, user_id) 复合唯一；所有者即使没有成员行也视为管理者，
// 但创建/转让流程会保证所有者始终有一行
type TribeMember struct {
	gorm.Model
	TribeUuid  string `gorm:"column:tribe_uuid;uniqueIndex:idx_tribe_user;type:char(18);not null;comment:部落ID"`
	UserId     string `gorm:"column:user_id;uniqueIndex:idx_tribe_user;type:char(20);not null;comment:平台用户ID"`
	InGameName string `gorm:"column:in_game_name;type:varchar(64);comment:游戏内名字"`
	RoleLabel  string `gorm:"column:role_label;type:varchar(64);comment:自由角色标签"`
	Manager    bool   `gorm:"column:manager;default:false;comment:是否可编辑档案"`
}

func (TribeMember) TableName() string {
	return "tribe_member"
}
