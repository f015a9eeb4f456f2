// Package dao 提供数据访问层的初始化和全局数据库实例管理
// 负责建立 MySQL 连接、自动迁移表结构、初始化 Repository 层
package dao

import (
	"fmt"

	"tribe_card_server/internal/config"
	"tribe_card_server/internal/dao/mysql/repository"
	"tribe_card_server/internal/model"
	"tribe_card_server/pkg/constants"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// GormDB 全局 GORM 数据库实例
var GormDB *gorm.DB

// Repos 全局 Repository 实例集合，供 Service 层依赖注入使用
var Repos *repository.Repositories

// Init 初始化数据库连接和 Repository 层
// 建立连接、AutoMigrate 表结构、写入全局目录默认项
func Init() {
	conf := config.GetConfig()

	// user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User,
		conf.MysqlConfig.Password,
		conf.MysqlConfig.Host,
		conf.MysqlConfig.Port,
		conf.MysqlConfig.DatabaseName,
	)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	// AutoMigrate 自动迁移表结构，表不存在则创建，不删除已有字段
	err = GormDB.AutoMigrate(
		&model.Tribe{},
		&model.TribeMember{},
		&model.Outpost{},
		&model.TribePhoto{},
		&model.ProgressionMark{},
		&model.HistoryEntry{},
		&model.GuildConfig{},
		&model.CatalogEntry{},
	)
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	Repos = repository.NewRepositories(GormDB)

	seedDefaultCatalog()
}

// 全局默认目录（guild_id=0 层），与管理员后续添加的条目合并展示
var defaultCatalog = map[int8][]string{
	model.CatalogMap: {
		"The Island", "Scorched Earth", "Svartalfheim", "Abberation",
		"The Center", "Extinction", "Astraeos", "Ragnarok", "Valguero",
	},
	model.CatalogBoss: {
		"Broodmother", "Megapithecus", "Dragon", "Cave Tek",
		"Manticore", "Rockwell", "King Titan", "Boss Astraeos",
	},
	model.CatalogNote: {
		"Notes Island", "Notes Scorched", "Notes Abbération", "Extinction", "Bob",
	},
}

// seedDefaultCatalog 幂等写入全局默认目录条目
func seedDefaultCatalog() {
	for kind, names := range defaultCatalog {
		for _, name := range names {
			entry := model.CatalogEntry{
				GuildId: constants.GLOBAL_GUILD_ID,
				Kind:    kind,
				Name:    name,
			}
			if err := GormDB.
				Where("guild_id = ? AND kind = ? AND name = ?", entry.GuildId, kind, name).
				FirstOrCreate(&entry).Error; err != nil {
				zap.L().Error("seed catalog entry", zap.String("name", name), zap.Error(err))
			}
		}
	}
}
