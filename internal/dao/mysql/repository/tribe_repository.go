// Package repository 提供数据访问层的具体实现
// 本文件实现 TribeRepository 接口，处理部落主表的数据库操作
package repository

import (
	"errors"

	"tribe_card_server/internal/model"

	"gorm.io/gorm"
)

// tribeRepository TribeRepository 接口的实现
type tribeRepository struct {
	db *gorm.DB
}

// NewTribeRepository 创建 TribeRepository 实例
func NewTribeRepository(db *gorm.DB) TribeRepository {
	return &tribeRepository{db: db}
}

// FindByUuid 根据 UUID 查找部落
func (r *tribeRepository) FindByUuid(uuid string) (*model.Tribe, error) {
	var tribe model.Tribe
	if err := r.db.First(&tribe, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询部落 uuid=%s", uuid)
	}
	return &tribe, nil
}

// FindByName 按名称查找部落，同 guild 内大小写不敏感
func (r *tribeRepository) FindByName(guildId, name string) (*model.Tribe, error) {
	var tribe model.Tribe
	err := r.db.
		Where("guild_id = ? AND LOWER(name) = LOWER(?)", guildId, name).
		First(&tribe).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询部落 name=%s", name)
	}
	return &tribe, nil
}

// ExistsByNameExcept 检查名称是否已被其他部落占用（重命名前检查）
func (r *tribeRepository) ExistsByNameExcept(guildId, name, exceptUuid string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Tribe{}).
		Where("guild_id = ? AND LOWER(name) = LOWER(?) AND uuid <> ?", guildId, name, exceptUuid).
		Count(&count).Error
	if err != nil {
		return false, wrapDBErrorf(err, "检查部落名占用 name=%s", name)
	}
	return count > 0, nil
}

// FindByGuild 查找 guild 内全部部落，按名称排序
func (r *tribeRepository) FindByGuild(guildId string) ([]model.Tribe, error) {
	var tribes []model.Tribe
	err := r.db.
		Where("guild_id = ?", guildId).
		Order("LOWER(name) ASC").
		Find(&tribes).Error
	if err != nil {
		return nil, wrapDBError(err, "查询 guild 部落列表")
	}
	return tribes, nil
}

// FindManagedBy 查找用户作为所有者或管理者的部落
func (r *tribeRepository) FindManagedBy(guildId, userId string) ([]model.Tribe, error) {
	var tribes []model.Tribe
	err := r.db.
		Distinct("tribe.*").
		Joins("LEFT JOIN tribe_member ON tribe_member.tribe_uuid = tribe.uuid AND tribe_member.user_id = ? AND tribe_member.deleted_at IS NULL", userId).
		Where("tribe.guild_id = ? AND (tribe.owner_id = ? OR tribe_member.manager = ?)", guildId, userId, true).
		Find(&tribes).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询用户管理的部落 user=%s", userId)
	}
	return tribes, nil
}

// FindJoinedBy 查找用户作为成员加入的部落
func (r *tribeRepository) FindJoinedBy(guildId, userId string) ([]model.Tribe, error) {
	var tribes []model.Tribe
	err := r.db.
		Joins("JOIN tribe_member ON tribe_member.tribe_uuid = tribe.uuid AND tribe_member.deleted_at IS NULL").
		Where("tribe.guild_id = ? AND tribe_member.user_id = ?", guildId, userId).
		Find(&tribes).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询用户加入的部落 user=%s", userId)
	}
	return tribes, nil
}

// Create 创建部落
func (r *tribeRepository) Create(tribe *model.Tribe) error {
	if err := r.db.Create(tribe).Error; err != nil {
		return wrapDBError(err, "创建部落")
	}
	return nil
}

// UpdateFields 按字段更新部落
func (r *tribeRepository) UpdateFields(uuid string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.Model(&model.Tribe{}).Where("uuid = ?", uuid).Updates(updates).Error; err != nil {
		return wrapDBErrorf(err, "更新部落 uuid=%s", uuid)
	}
	return nil
}

// UpdateOwner 更新所有者
func (r *tribeRepository) UpdateOwner(uuid, newOwnerId string) error {
	if err := r.db.Model(&model.Tribe{}).Where("uuid = ?", uuid).Update("owner_id", newOwnerId).Error; err != nil {
		return wrapDBErrorf(err, "转让部落 uuid=%s", uuid)
	}
	return nil
}

// UpdateCardPointer 写入卡片指针
// 只在新卡片发布成功后调用，保证指针不会指向不存在的消息
func (r *tribeRepository) UpdateCardPointer(uuid, surfaceId, messageId string) error {
	err := r.db.Model(&model.Tribe{}).Where("uuid = ?", uuid).Updates(map[string]interface{}{
		"card_surface_id": surfaceId,
		"card_message_id": messageId,
	}).Error
	if err != nil {
		return wrapDBErrorf(err, "更新卡片指针 uuid=%s", uuid)
	}
	return nil
}

// ClearCardPointer 清空卡片指针
func (r *tribeRepository) ClearCardPointer(uuid string) error {
	return r.UpdateCardPointer(uuid, "", "")
}

// Delete 硬删除部落行
// 附属行（成员/前哨/照片/进度/历史）由服务层在同一事务内级联删除
func (r *tribeRepository) Delete(uuid string) error {
	if err := r.db.Unscoped().Where("uuid = ?", uuid).Delete(&model.Tribe{}).Error; err != nil {
		return wrapDBErrorf(err, "删除部落 uuid=%s", uuid)
	}
	return nil
}

// IsNotFound 判断是否为记录不存在错误（包内查询辅助）
func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
