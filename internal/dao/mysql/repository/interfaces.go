// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"tribe_card_server/internal/model"

	"gorm.io/gorm"
)

// TribeRepository 部落数据访问接口
type TribeRepository interface {
	// FindByUuid 根据 UUID 查找部落
	FindByUuid(uuid string) (*model.Tribe, error)
	// FindByName 按名称查找部落（同 guild 内大小写不敏感）
	FindByName(guildId, name string) (*model.Tribe, error)
	// ExistsByNameExcept 检查名称是否已被其他部落占用（重命名用）
	ExistsByNameExcept(guildId, name, exceptUuid string) (bool, error)
	// FindByGuild 查找 guild 内全部部落，按名称排序
	FindByGuild(guildId string) ([]model.Tribe, error)
	// FindManagedBy 查找用户作为所有者或管理者的部落
	FindManagedBy(guildId, userId string) ([]model.Tribe, error)
	// FindJoinedBy 查找用户作为成员加入的部落
	FindJoinedBy(guildId, userId string) ([]model.Tribe, error)
	// Create 创建部落
	Create(tribe *model.Tribe) error
	// UpdateFields 按字段更新部落
	UpdateFields(uuid string, updates map[string]interface{}) error
	// UpdateOwner 更新所有者
	UpdateOwner(uuid, newOwnerId string) error
	// UpdateCardPointer 写入卡片指针（发布成功后调用）
	UpdateCardPointer(uuid, surfaceId, messageId string) error
	// ClearCardPointer 清空卡片指针
	ClearCardPointer(uuid string) error
	// Delete 硬删除部落行（级联由事务内其他仓储完成）
	Delete(uuid string) error
}

// MemberRepository 部落成员数据访问接口
type MemberRepository interface {
	// FindByTribe 查找部落全部成员
	FindByTribe(tribeUuid string) ([]model.TribeMember, error)
	// FindByTribeAndUser 查找某成员行
	FindByTribeAndUser(tribeUuid, userId string) (*model.TribeMember, error)
	// Upsert 创建或覆盖成员行（复合键已存在则更新）
	Upsert(member *model.TribeMember) error
	// Delete 移除成员
	Delete(tribeUuid, userId string) error
	// DeleteByTribe 删除部落全部成员（级联删除用）
	DeleteByTribe(tribeUuid string) error
}

// OutpostRepository 前哨站数据访问接口
type OutpostRepository interface {
	// FindByTribe 查找部落前哨站，创建时间倒序
	FindByTribe(tribeUuid string) ([]model.Outpost, error)
	// Create 登记前哨站
	Create(outpost *model.Outpost) error
	// DeleteByTribeAndMap 按地图移除前哨站，返回删除行数
	DeleteByTribeAndMap(tribeUuid, mapName string) (int64, error)
	// DeleteByTribe 删除部落全部前哨站（级联删除用）
	DeleteByTribe(tribeUuid string) error
}

// PhotoRepository 相册数据访问接口
type PhotoRepository interface {
	// FindByTribe 查找部落照片，按展示顺序排列
	FindByTribe(tribeUuid string) ([]model.TribePhoto, error)
	// CountByTribe 统计部落照片数
	CountByTribe(tribeUuid string) (int64, error)
	// Create 追加照片
	Create(photo *model.TribePhoto) error
	// DeleteByOrd 删除指定顺序的照片，返回删除行数
	DeleteByOrd(tribeUuid string, ord int) (int64, error)
	// ShiftOrdsAfter 将 ord 大于指定值的照片顺序整体前移一位（压实）
	ShiftOrdsAfter(tribeUuid string, ord int) error
	// DeleteByTribe 删除部落全部照片（级联删除用）
	DeleteByTribe(tribeUuid string) error
}

// ProgressionRepository 进度标记数据访问接口
type ProgressionRepository interface {
	// FindByTribe 查找部落全部进度标记
	FindByTribe(tribeUuid string) ([]model.ProgressionMark, error)
	// Upsert 写入标记：同名条目已存在则改写 done 状态（互斥由唯一键保证）
	Upsert(tribeUuid string, category int8, name string, done bool) error
	// DeleteByTribe 删除部落全部进度标记（级联删除用）
	DeleteByTribe(tribeUuid string) error
}

// HistoryRepository 历史记录数据访问接口，追加写入
type HistoryRepository interface {
	// Create 追加一条历史
	Create(entry *model.HistoryEntry) error
	// FindByTribePaged 分页查找历史，最新在前
	FindByTribePaged(tribeUuid string, page, pageSize int) ([]model.HistoryEntry, int64, error)
	// DeleteByTribe 删除部落全部历史（仅随部落级联）
	DeleteByTribe(tribeUuid string) error
}

// ConfigRepository guild 配置数据访问接口
type ConfigRepository interface {
	// FindValue 查找配置值，不做兜底回退（回退策略在服务层）
	FindValue(guildId, key string) (string, error)
	// Set 写入配置（已存在则覆盖）
	Set(guildId, key, value string) error
}

// CatalogRepository 选项目录数据访问接口
type CatalogRepository interface {
	// FindNames 查找若干 guild 层的目录名，按名称排序去重
	FindNames(guildIds []string, kind int8) ([]string, error)
	// Exists 检查条目是否存在
	Exists(guildId string, kind int8, name string) (bool, error)
	// Create 添加条目
	Create(entry *model.CatalogEntry) error
	// Delete 删除条目，返回删除行数
	Delete(guildId string, kind int8, name string) (int64, error)
}

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db          *gorm.DB
	Tribe       TribeRepository
	Member      MemberRepository
	Outpost     OutpostRepository
	Photo       PhotoRepository
	Progression ProgressionRepository
	History     HistoryRepository
	Config      ConfigRepository
	Catalog     CatalogRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		Tribe:       NewTribeRepository(db),
		Member:      NewMemberRepository(db),
		Outpost:     NewOutpostRepository(db),
		Photo:       NewPhotoRepository(db),
		Progression: NewProgressionRepository(db),
		History:     NewHistoryRepository(db),
		Config:      NewConfigRepository(db),
		Catalog:     NewCatalogRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// fn 接收事务内的 Repositories 实例；返回错误则整体回滚
// 聚合不持有 db 时（手工注入的实现，如测试替身）退化为直接执行
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
