// Package repository 提供数据访问层的具体实现
// 本文件实现 HistoryRepository 接口，历史记录只追加不修改
package repository

import (
	"tribe_card_server/internal/model"

	"gorm.io/gorm"
)

// historyRepository HistoryRepository 接口的实现
type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository 创建 HistoryRepository 实例
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Create 追加一条历史
func (r *historyRepository) Create(entry *model.HistoryEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return wrapDBError(err, "写入历史记录")
	}
	return nil
}

// FindByTribePaged 分页查找历史，最新在前
// page 从 1 开始
func (r *historyRepository) FindByTribePaged(tribeUuid string, page, pageSize int) ([]model.HistoryEntry, int64, error) {
	var entries []model.HistoryEntry
	var total int64

	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	if err := r.db.Model(&model.HistoryEntry{}).
		Where("tribe_uuid = ?", tribeUuid).
		Count(&total).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "统计历史记录 tribe=%s", tribeUuid)
	}

	err := r.db.
		Where("tribe_uuid = ?", tribeUuid).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, wrapDBErrorf(err, "分页查询历史记录 tribe=%s", tribeUuid)
	}

	return entries, total, nil
}

// DeleteByTribe 删除部落全部历史（仅随部落级联）
func (r *historyRepository) DeleteByTribe(tribeUuid string) error {
	err := r.db.Unscoped().
		Where("tribe_uuid = ?", tribeUuid).
		Delete(&model.HistoryEntry{}).Error
	if err != nil {
		return wrapDBErrorf(err, "级联删除历史记录 tribe=%s", tribeUuid)
	}
	return nil
}
