package model

import "gorm.io/gorm"

// TribePhoto 部落相册照片
// Ord 为展示顺序：0 起始、连续，删除后由仓储层重新压实；
// 每个部落上限 10 张，超出由服务层拒绝而不是静默丢弃
type TribePhoto struct {
	gorm.Model
	TribeUuid string `gorm:"column:tribe_uuid;index;type:char(18);not null;comment:部落ID"`
	Url       string `gorm:"column:url;type:varchar(255);not null;comment:图片URL"`
	Ord       int    `gorm:"column:ord;not null;comment:展示顺序,0起始连续"`
}

func (TribePhoto) TableName() string {
	return "tribe_photo"
}
