// Package repository 提供数据访问层的具体实现
// 本文件实现 PhotoRepository 接口，维护相册的连续展示顺序
package repository

import (
	"tribe_card_server/internal/model"

	"gorm.io/gorm"
)

// photoRepository PhotoRepository 接口的实现
type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository 创建 PhotoRepository 实例
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

// FindByTribe 查找部落照片，按展示顺序排列
func (r *photoRepository) FindByTribe(tribeUuid string) ([]model.TribePhoto, error) {
	var photos []model.TribePhoto
	err := r.db.
		Where("tribe_uuid = ?", tribeUuid).
		Order("ord ASC").
		Find(&photos).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询相册 tribe=%s", tribeUuid)
	}
	return photos, nil
}

// CountByTribe 统计部落照片数
func (r *photoRepository) CountByTribe(tribeUuid string) (int64, error) {
	var count int64
	err := r.db.Model(&model.TribePhoto{}).
		Where("tribe_uuid = ?", tribeUuid).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBErrorf(err, "统计相册 tribe=%s", tribeUuid)
	}
	return count, nil
}

// Create 追加照片（容量检查在服务层）
func (r *photoRepository) Create(photo *model.TribePhoto) error {
	if err := r.db.Create(photo).Error; err != nil {
		return wrapDBError(err, "追加照片")
	}
	return nil
}

// DeleteByOrd 删除指定顺序的照片，返回删除行数
func (r *photoRepository) DeleteByOrd(tribeUuid string, ord int) (int64, error) {
	res := r.db.Unscoped().
		Where("tribe_uuid = ? AND ord = ?", tribeUuid, ord).
		Delete(&model.TribePhoto{})
	if res.Error != nil {
		return 0, wrapDBErrorf(res.Error, "删除照片 tribe=%s ord=%d", tribeUuid, ord)
	}
	return res.RowsAffected, nil
}

// ShiftOrdsAfter 将 ord 大于指定值的照片顺序整体前移一位
// 与 DeleteByOrd 在同一事务内使用，保证删除后顺序保持 0..n-1 连续
func (r *photoRepository) ShiftOrdsAfter(tribeUuid string, ord int) error {
	err := r.db.Model(&model.TribePhoto{}).
		Where("tribe_uuid = ? AND ord > ?", tribeUuid, ord).
		UpdateColumn("ord", gorm.Expr("ord - ?", 1)).Error
	if err != nil {
		return wrapDBErrorf(err, "压实相册顺序 tribe=%s", tribeUuid)
	}
	return nil
}

// DeleteByTribe 删除部落全部照片（级联删除用）
func (r *photoRepository) DeleteByTribe(tribeUuid string) error {
	err := r.db.Unscoped().
		Where("tribe_uuid = ?", tribeUuid).
		Delete(&model.TribePhoto{}).Error
	if err != nil {
		return wrapDBErrorf(err, "级联删除相册 tribe=%s", tribeUuid)
	}
	return nil
}
