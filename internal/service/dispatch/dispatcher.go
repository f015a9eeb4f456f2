// Package dispatch 将平台交互事件路由到具名处理函数
// custom_id 是唯一路由依据，进程重启后依然可以解析旧卡片上的组件
package dispatch

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tribe_card_server/internal/dto/respond"
	"tribe_card_server/internal/platform"
	"tribe_card_server/internal/service/card"
	"tribe_card_server/internal/service/permission"
	"tribe_card_server/pkg/errorx"
)

// TribeActions 调度器依赖的部落操作子集
type TribeActions interface {
	// RemoveMember 移除成员（含成员自行退出）
	RemoveMember(ctx context.Context, actor permission.Actor, tribeUuid, targetUserId string) error
	// GetHistory 分页获取历史记录
	GetHistory(tribeUuid string, page int) (*respond.HistoryPageRespond, error)
}

// ViewLoader 调度器依赖的卡片快照加载能力
type ViewLoader interface {
	// LoadView 现读部落数据组装渲染快照
	LoadView(tribeUuid string, photoIndex int) (*card.View, error)
}

// Dispatcher 交互调度器
type Dispatcher struct {
	surface platform.SurfaceAPI
	views   ViewLoader
	tribes  TribeActions
	claims  *ClaimRegistry
}

// NewDispatcher 创建交互调度器
func NewDispatcher(surface platform.SurfaceAPI, views ViewLoader, tribes TribeActions) *Dispatcher {
	return &Dispatcher{
		surface: surface,
		views:   views,
		tribes:  tribes,
		claims:  NewClaimRegistry(),
	}
}

// Claims 暴露认领表，供同周期处理器（如模态提交）抢先认领交互
func (d *Dispatcher) Claims() *ClaimRegistry {
	return d.claims
}

// HandleInteraction 处理一次平台交互
// 非本服务主题的 custom_id 静默忽略，留给同进程的其他组件
func (d *Dispatcher) HandleInteraction(ctx context.Context, interaction *platform.Interaction) {
	if interaction.Type != platform.InteractionComponent {
		return
	}

	// 已被同周期处理器认领的交互由认领方完成回执
	if d.claims.Claimed(interaction.Id) {
		return
	}

	ref, ok := card.Decode(interaction.Data.CustomId)
	if !ok {
		return
	}

	var err error
	switch ref.Action {
	case card.ActionPhotoPrev:
		err = d.handleCarousel(ctx, interaction, ref, -1)
	case card.ActionPhotoNext:
		err = d.handleCarousel(ctx, interaction, ref, +1)
	case card.ActionMenu:
		err = d.handleMenu(ctx, interaction, ref)
	default:
		zap.L().Debug("未知的组件动作，忽略",
			zap.String("customId", interaction.Data.CustomId))
		return
	}

	if err != nil {
		zap.L().Warn("交互处理失败",
			zap.String("customId", interaction.Data.CustomId),
			zap.String("actor", interaction.ActorId()),
			zap.Error(err))
		d.notify(ctx, interaction, userMessage(err))
	}
}

// handleCarousel 处理相册轮播按钮
// 点击时现查相册长度，按 (序号±1) mod 长度 计算相邻照片并原地编辑卡片
func (d *Dispatcher) handleCarousel(ctx context.Context, interaction *platform.Interaction, ref card.Ref, step int) error {
	view, err := d.views.LoadView(ref.TribeUuid, 0)
	if err != nil {
		return err
	}

	if len(view.Photos) == 0 {
		d.notify(ctx, interaction, "L'album de cette tribu est vide.")
		return nil
	}

	ordinal, err := strconv.Atoi(ref.Extra)
	if err != nil {
		ordinal = 0
	}
	view.PhotoIndex = ordinal + step

	doc := card.Render(view)
	return d.surface.RespondUpdate(ctx, interaction.Id, interaction.Token, doc)
}

// handleMenu 处理操作菜单的选择
func (d *Dispatcher) handleMenu(ctx context.Context, interaction *platform.Interaction, ref card.Ref) error {
	if len(interaction.Data.Values) == 0 {
		return nil
	}

	actor := permission.Actor{
		UserId: interaction.ActorId(),
		Staff:  interaction.Member.IsStaff(),
	}

	switch interaction.Data.Values[0] {
	case card.MenuLeave:
		if err := d.tribes.RemoveMember(ctx, actor, ref.TribeUuid, actor.UserId); err != nil {
			return err
		}
		d.notify(ctx, interaction, "Tu as quitté la tribu.")
		return nil
	case card.MenuHistory:
		// 历史记录只对管理层与平台工作人员开放
		view, err := d.views.LoadView(ref.TribeUuid, 0)
		if err != nil {
			return err
		}
		if !permission.Resolve(actor, view.Tribe, view.Members).CanEdit() {
			return errorx.ErrPermissionDenied
		}
		page, err := d.tribes.GetHistory(ref.TribeUuid, 1)
		if err != nil {
			return err
		}
		d.notify(ctx, interaction, formatHistory(page))
		return nil
	case card.MenuDelete:
		// 删除需要输入部落名确认，菜单只做引导
		d.notify(ctx, interaction, "La suppression se fait via la commande dédiée : saisis le nom exact de la tribu pour confirmer.")
		return nil
	default:
		return nil
	}
}

// notify 发送仅触发者可见的提示，失败只记日志
func (d *Dispatcher) notify(ctx context.Context, interaction *platform.Interaction, content string) {
	if err := d.surface.RespondEphemeral(ctx, interaction.Id, interaction.Token, content); err != nil {
		zap.L().Warn("交互提示发送失败",
			zap.String("actor", interaction.ActorId()),
			zap.Error(err))
	}
}

// formatHistory 将历史分页格式化为私密消息文本
func formatHistory(page *respond.HistoryPageRespond) string {
	if len(page.Entries) == 0 {
		return "Aucune modification enregistrée."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("**Historique** (%d au total)\n", page.Total))
	for _, e := range page.Entries {
		b.WriteString(fmt.Sprintf("`%s` <@%s> %s\n", e.CreatedAt, e.UserId, e.Details))
	}
	return b.String()
}

// userMessage 将内部错误翻译为面向用户的提示
func userMessage(err error) string {
	switch errorx.GetCode(err) {
	case errorx.CodeNotFound:
		return "Cette tribu n'existe plus."
	case errorx.CodePermissionDenied:
		return "Tu n'as pas la permission de faire ça."
	case errorx.CodeConflict:
		return "Action impossible : " + errorx.GetMsg(err)
	default:
		return "Une erreur est survenue, réessaie plus tard."
	}
}
