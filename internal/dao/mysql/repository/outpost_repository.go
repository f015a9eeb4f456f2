// Package repository 提供数据访问层的具体实现
// 本文件实现 OutpostRepository 接口
package repository

import (
	"tribe_card_server/internal/model"

	"gorm.io/gorm"
)

// outpostRepository OutpostRepository 接口的实现
type outpostRepository struct {
	db *gorm.DB
}

// NewOutpostRepository 创建 OutpostRepository 实例
func NewOutpostRepository(db *gorm.DB) OutpostRepository {
	return &outpostRepository{db: db}
}

// FindByTribe 查找部落前哨站，创建时间倒序（最新在前）
func (r *outpostRepository) FindByTribe(tribeUuid string) ([]model.Outpost, error) {
	var outposts []model.Outpost
	err := r.db.
		Where("tribe_uuid = ?", tribeUuid).
		Order("created_at DESC").
		Find(&outposts).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询前哨站 tribe=%s", tribeUuid)
	}
	return outposts, nil
}

// Create 登记前哨站
func (r *outpostRepository) Create(outpost *model.Outpost) error {
	if err := r.db.Create(outpost).Error; err != nil {
		return wrapDBError(err, "登记前哨站")
	}
	return nil
}

// DeleteByTribeAndMap 按地图移除前哨站（大小写不敏感），返回删除行数
func (r *outpostRepository) DeleteByTribeAndMap(tribeUuid, mapName string) (int64, error) {
	res := r.db.Unscoped().
		Where("tribe_uuid = ? AND LOWER(map_name) = LOWER(?)", tribeUuid, mapName).
		Delete(&model.Outpost{})
	if res.Error != nil {
		return 0, wrapDBErrorf(res.Error, "移除前哨站 tribe=%s map=%s", tribeUuid, mapName)
	}
	return res.RowsAffected, nil
}

// DeleteByTribe 删除部落全部前哨站（级联删除用）
func (r *outpostRepository) DeleteByTribe(tribeUuid string) error {
	err := r.db.Unscoped().
		Where("tribe_uuid = ?", tribeUuid).
		Delete(&model.Outpost{}).Error
	if err != nil {
		return wrapDBErrorf(err, "级联删除前哨站 tribe=%s", tribeUuid)
	}
	return nil
}
