// Package repository 提供数据访问层的具体实现
// 本文件实现 CatalogRepository 接口
package repository

import (
	"tribe_card_server/internal/model"

	"gorm.io/gorm"
)

// catalogRepository CatalogRepository 接口的实现
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建 CatalogRepository 实例
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// FindNames 查找若干 guild 层的目录名，按名称排序去重
func (r *catalogRepository) FindNames(guildIds []string, kind int8) ([]string, error) {
	var names []string
	err := r.db.Model(&model.CatalogEntry{}).
		Distinct("name").
		Where("guild_id IN ? AND kind = ?", guildIds, kind).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询目录 kind=%d", kind)
	}
	return names, nil
}

// Exists 检查条目是否存在
func (r *catalogRepository) Exists(guildId string, kind int8, name string) (bool, error) {
	var count int64
	err := r.db.Model(&model.CatalogEntry{}).
		Where("guild_id = ? AND kind = ? AND name = ?", guildId, kind, name).
		Count(&count).Error
	if err != nil {
		return false, wrapDBErrorf(err, "检查目录条目 name=%s", name)
	}
	return count > 0, nil
}

// Create 添加条目（重复检查在服务层）
func (r *catalogRepository) Create(entry *model.CatalogEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return wrapDBError(err, "添加目录条目")
	}
	return nil
}

// Delete 删除条目，返回删除行数
func (r *catalogRepository) Delete(guildId string, kind int8, name string) (int64, error) {
	res := r.db.Unscoped().
		Where("guild_id = ? AND kind = ? AND name = ?", guildId, kind, name).
		Delete(&model.CatalogEntry{})
	if res.Error != nil {
		return 0, wrapDBErrorf(res.Error, "删除目录条目 name=%s", name)
	}
	return res.RowsAffected, nil
}
