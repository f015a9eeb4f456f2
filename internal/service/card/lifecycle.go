// Package card 负责部落卡片的渲染与生命周期管理
// 本文件实现卡片发布编排，维持"每个部落至多一张活跃卡片"
package card

import (
	"context"

	"go.uber.org/zap"

	"tribe_card_server/internal/dao/mysql/repository"
	"tribe_card_server/internal/platform"
	"tribe_card_server/pkg/constants"
	"tribe_card_server/pkg/errorx"
)

// Publisher 卡片发布编排器
type Publisher struct {
	repos   *repository.Repositories
	surface platform.SurfaceAPI
}

// NewPublisher 创建卡片发布编排器
func NewPublisher(repos *repository.Repositories, surface platform.SurfaceAPI) *Publisher {
	return &Publisher{repos: repos, surface: surface}
}

// Publish 发布（或重新发布）部落卡片
// 固定顺序：现读数据 -> 渲染 -> 同频道旧卡片先删（删除失败只记日志）->
// 发新消息 -> 仅在发布成功后更新指针。发布失败时旧指针原样保留
func (p *Publisher) Publish(ctx context.Context, tribeUuid, requestedSurfaceId string) error {
	view, err := p.LoadView(tribeUuid, 0)
	if err != nil {
		return err
	}
	tribe := view.Tribe

	target, err := p.resolveSurface(tribe.GuildId, requestedSurfaceId)
	if err != nil {
		return err
	}

	doc := Render(view)

	if tribe.HasCard() {
		if tribe.CardSurfaceId == target {
			if err := p.surface.DeleteMessage(ctx, tribe.CardSurfaceId, tribe.CardMessageId); err != nil {
				zap.L().Debug("旧卡片删除失败，继续发布",
					zap.String("tribe", tribeUuid),
					zap.String("message", tribe.CardMessageId),
					zap.Error(err))
			}
		} else {
			// 旧卡片在其他频道时不跨频道清理，由人工处理
			zap.L().Debug("旧卡片位于其他频道，保留",
				zap.String("tribe", tribeUuid),
				zap.String("oldSurface", tribe.CardSurfaceId),
				zap.String("newSurface", target))
		}
	}

	messageId, err := p.surface.PostMessage(ctx, target, doc)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeSurfaceUnreachable, "发布卡片 tribe=%s", tribeUuid)
	}

	if err := p.repos.Tribe.UpdateCardPointer(tribeUuid, target, messageId); err != nil {
		return err
	}

	zap.L().Info("卡片已发布",
		zap.String("tribe", tribeUuid),
		zap.String("surface", target),
		zap.String("message", messageId))
	return nil
}

// Refresh 原地刷新已发布的卡片
// 无卡片时为空操作；卡片消息已被手工删除时只记日志，不自动重发
func (p *Publisher) Refresh(ctx context.Context, tribeUuid string) error {
	view, err := p.LoadView(tribeUuid, 0)
	if err != nil {
		return err
	}
	tribe := view.Tribe
	if !tribe.HasCard() {
		return nil
	}

	doc := Render(view)
	if err := p.surface.EditMessage(ctx, tribe.CardSurfaceId, tribe.CardMessageId, doc); err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			zap.L().Warn("卡片消息已不存在，跳过刷新",
				zap.String("tribe", tribeUuid),
				zap.String("message", tribe.CardMessageId))
			return nil
		}
		return err
	}
	return nil
}

// Retire 删除已发布的卡片并清空指针
// 消息删除失败不阻塞指针清理
func (p *Publisher) Retire(ctx context.Context, tribeUuid string) error {
	tribe, err := p.repos.Tribe.FindByUuid(tribeUuid)
	if err != nil {
		return err
	}
	if !tribe.HasCard() {
		return nil
	}

	if err := p.surface.DeleteMessage(ctx, tribe.CardSurfaceId, tribe.CardMessageId); err != nil {
		zap.L().Debug("卡片消息删除失败，仍清空指针",
			zap.String("tribe", tribeUuid),
			zap.Error(err))
	}
	return p.repos.Tribe.ClearCardPointer(tribeUuid)
}

// LoadView 现读部落全量数据，组装渲染快照
// 每次发布、刷新、轮播都重新读库，保证卡片反映最新状态
func (p *Publisher) LoadView(tribeUuid string, photoIndex int) (*View, error) {
	tribe, err := p.repos.Tribe.FindByUuid(tribeUuid)
	if err != nil {
		return nil, err
	}
	members, err := p.repos.Member.FindByTribe(tribeUuid)
	if err != nil {
		return nil, err
	}
	outposts, err := p.repos.Outpost.FindByTribe(tribeUuid)
	if err != nil {
		return nil, err
	}
	photos, err := p.repos.Photo.FindByTribe(tribeUuid)
	if err != nil {
		return nil, err
	}
	marks, err := p.repos.Progression.FindByTribe(tribeUuid)
	if err != nil {
		return nil, err
	}

	return &View{
		Tribe:      tribe,
		Members:    members,
		Outposts:   outposts,
		Photos:     photos,
		Marks:      marks,
		PhotoIndex: photoIndex,
	}, nil
}

// resolveSurface 决定卡片发布的目标频道
// 优先 guild 配置的卡片频道，再查全局默认配置，最后落回请求方所在频道
func (p *Publisher) resolveSurface(guildId, requestedSurfaceId string) (string, error) {
	for _, gid := range []string{guildId, constants.GLOBAL_GUILD_ID} {
		value, err := p.repos.Config.FindValue(gid, constants.CONFIG_KEY_CARD_CHAN)
		if err == nil && value != "" {
			return value, nil
		}
		if err != nil && !errorx.IsNotFound(err) {
			return "", err
		}
	}

	if requestedSurfaceId == "" {
		return "", errorx.New(errorx.CodeSurfaceUnreachable, "未配置卡片频道且缺少调用方频道")
	}
	return requestedSurfaceId, nil
}
