// Package repository 提供数据访问层的具体实现
// 本文件实现 ProgressionRepository 接口
package repository

import (
	"tribe_card_server/internal/model"

	"gorm.io/gorm"
)

// progressionRepository ProgressionRepository 接口的实现
type progressionRepository struct {
	db *gorm.DB
}

// NewProgressionRepository 创建 ProgressionRepository 实例
func NewProgressionRepository(db *gorm.DB) ProgressionRepository {
	return &progressionRepository{db: db}
}

// FindByTribe 查找部落全部进度标记
func (r *progressionRepository) FindByTribe(tribeUuid string) ([]model.ProgressionMark, error) {
	var marks []model.ProgressionMark
	err := r.db.
		Where("tribe_uuid = ?", tribeUuid).
		Order("category ASC, name ASC").
		Find(&marks).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询进度标记 tribe=%s", tribeUuid)
	}
	return marks, nil
}

// Upsert 写入标记
// 同名条目已存在则改写 done 状态：标记"已完成"会自动把同名条目
// 移出"明确未完成"集合，反之亦然——互斥由 (tribe,category,name)
// 唯一键直接保证，不需要两次写入
func (r *progressionRepository) Upsert(tribeUuid string, category int8, name string, done bool) error {
	var existing model.ProgressionMark
	err := r.db.
		Where("tribe_uuid = ? AND category = ? AND name = ?", tribeUuid, category, name).
		First(&existing).Error
	if err != nil {
		if isRecordNotFound(err) {
			mark := model.ProgressionMark{
				TribeUuid: tribeUuid,
				Category:  category,
				Name:      name,
				Done:      done,
			}
			if err := r.db.Create(&mark).Error; err != nil {
				return wrapDBError(err, "创建进度标记")
			}
			return nil
		}
		return wrapDBError(err, "查询进度标记")
	}

	if err := r.db.Model(&existing).Update("done", done).Error; err != nil {
		return wrapDBError(err, "更新进度标记")
	}
	return nil
}

// DeleteByTribe 删除部落全部进度标记（级联删除用）
func (r *progressionRepository) DeleteByTribe(tribeUuid string) error {
	err := r.db.Unscoped().
		Where("tribe_uuid = ?", tribeUuid).
		Delete(&model.ProgressionMark{}).Error
	if err != nil {
		return wrapDBErrorf(err, "级联删除进度标记 tribe=%s", tribeUuid)
	}
	return nil
}
