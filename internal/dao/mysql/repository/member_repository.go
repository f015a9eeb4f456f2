// Package repository 提供数据访问层的具体实现
// 本文件实现 MemberRepository 接口，处理部落成员的数据库操作
package repository

import (
	"tribe_card_server/internal/model"

	"gorm.io/gorm"
)

// memberRepository MemberRepository 接口的实现
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository 创建 MemberRepository 实例
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// FindByTribe 查找部落全部成员
// 管理者在前，其余按加入顺序
func (r *memberRepository) FindByTribe(tribeUuid string) ([]model.TribeMember, error) {
	var members []model.TribeMember
	err := r.db.
		Where("tribe_uuid = ?", tribeUuid).
		Order("manager DESC, id ASC").
		Find(&members).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询部落成员 tribe=%s", tribeUuid)
	}
	return members, nil
}

// FindByTribeAndUser 查找某成员行
func (r *memberRepository) FindByTribeAndUser(tribeUuid, userId string) (*model.TribeMember, error) {
	var member model.TribeMember
	err := r.db.
		Where("tribe_uuid = ? AND user_id = ?", tribeUuid, userId).
		First(&member).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询成员 tribe=%s user=%s", tribeUuid, userId)
	}
	return &member, nil
}

// Upsert 创建或覆盖成员行
// 复合键已存在则更新游戏内名字/角色标签/管理标记
func (r *memberRepository) Upsert(member *model.TribeMember) error {
	var existing model.TribeMember
	err := r.db.
		Where("tribe_uuid = ? AND user_id = ?", member.TribeUuid, member.UserId).
		First(&existing).Error
	if err != nil {
		if isRecordNotFound(err) {
			if err := r.db.Create(member).Error; err != nil {
				return wrapDBError(err, "创建成员")
			}
			return nil
		}
		return wrapDBError(err, "查询成员")
	}

	updates := map[string]interface{}{
		"in_game_name": member.InGameName,
		"role_label":   member.RoleLabel,
		"manager":      member.Manager,
	}
	if err := r.db.Model(&existing).Updates(updates).Error; err != nil {
		return wrapDBError(err, "更新成员")
	}
	return nil
}

// Delete 移除成员
func (r *memberRepository) Delete(tribeUuid, userId string) error {
	err := r.db.Unscoped().
		Where("tribe_uuid = ? AND user_id = ?", tribeUuid, userId).
		Delete(&model.TribeMember{}).Error
	if err != nil {
		return wrapDBErrorf(err, "移除成员 tribe=%s user=%s", tribeUuid, userId)
	}
	return nil
}

// DeleteByTribe 删除部落全部成员（级联删除用）
func (r *memberRepository) DeleteByTribe(tribeUuid string) error {
	err := r.db.Unscoped().
		Where("tribe_uuid = ?", tribeUuid).
		Delete(&model.TribeMember{}).Error
	if err != nil {
		return wrapDBErrorf(err, "级联删除成员 tribe=%s", tribeUuid)
	}
	return nil
}
