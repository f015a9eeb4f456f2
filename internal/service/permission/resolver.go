// Package permission 实现部落操作权限的纯函数解析
package permission

import "tribe_card_server/internal/model"

// Level 权限级别，数值越大权限越高
type Level int8

const (
	None          Level = 0 // 无任何权限
	Manager       Level = 1 // 部落管理员
	Owner         Level = 2 // 部落所有者
	PlatformStaff Level = 3 // 平台管理员，越过部落内角色
)

// String 返回级别名称，用于日志与历史记录
func (l Level) String() string {
	switch l {
	case Manager:
		return "manager"
	case Owner:
		return "owner"
	case PlatformStaff:
		return "staff"
	default:
		return "none"
	}
}

// Actor 待鉴权的操作者
type Actor struct {
	UserId string
	Staff  bool // 持有平台管理员权限位
}

// Resolve 解析操作者对部落的权限级别
// 判定顺序固定：平台管理员 > 所有者 > 成员表中的管理员标记 > 无权限
// 平台管理员即使同时是部落成员，也始终取 PlatformStaff
func Resolve(actor Actor, tribe *model.Tribe, members []model.TribeMember) Level {
	if actor.Staff {
		return PlatformStaff
	}
	if tribe != nil && tribe.OwnerId == actor.UserId {
		return Owner
	}
	for _, m := range members {
		if m.UserId == actor.UserId && m.Manager {
			return Manager
		}
	}
	return None
}

// CanEdit 是否可以编辑部落资料（管理员及以上）
func (l Level) CanEdit() bool {
	return l >= Manager
}

// CanAdminister 是否可以执行所有者级操作：转让、删除、任免管理员
func (l Level) CanAdminister() bool {
	return l >= Owner
}
