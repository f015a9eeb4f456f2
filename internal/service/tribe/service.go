// Package tribe 实现部落资料的业务逻辑
package tribe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tribe_card_server/internal/dao/mysql/repository"
	myredis "tribe_card_server/internal/dao/redis"
	"tribe_card_server/internal/dto/request"
	"tribe_card_server/internal/dto/respond"
	"tribe_card_server/internal/infrastructure/mq"
	"tribe_card_server/internal/model"
	"tribe_card_server/internal/service/card"
	"tribe_card_server/internal/service/permission"
	"tribe_card_server/pkg/constants"
	"tribe_card_server/pkg/errorx"
	"tribe_card_server/pkg/util/random"
)

// tribeService 部落业务逻辑实现
// 通过构造函数注入 Repository、Cache 与卡片发布器
type tribeService struct {
	repos     *repository.Repositories
	cache     myredis.AsyncCacheService
	publisher *card.Publisher
}

// NewTribeService 构造函数，注入所有依赖
func NewTribeService(repos *repository.Repositories, cacheService myredis.AsyncCacheService, publisher *card.Publisher) *tribeService {
	return &tribeService{
		repos:     repos,
		cache:     cacheService,
		publisher: publisher,
	}
}

// CreateTribe 创建部落
// 同一 guild 内部落名不区分大小写唯一，创建者自动成为所有者兼首个成员
func (t *tribeService) CreateTribe(ctx context.Context, req request.CreateTribeRequest) (*respond.TribeSummaryRespond, error) {
	existing, err := t.repos.Tribe.FindByName(req.GuildId, req.Name)
	if err != nil && !errorx.IsNotFound(err) {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if existing != nil {
		return nil, errorx.Newf(errorx.CodeConflict, "une tribu nommée « %s » existe déjà", req.Name)
	}

	color := req.Color
	if color == 0 {
		color = constants.DEFAULT_CARD_COLOR
	}

	tribe := model.Tribe{
		Uuid:        fmt.Sprintf("T%s", random.GetNowAndLenRandomString(11)),
		GuildId:     req.GuildId,
		Name:        req.Name,
		Description: req.Description,
		Motto:       req.Motto,
		Color:       color,
		LogoUrl:     req.LogoUrl,
		OwnerId:     req.OwnerId,
	}

	err = t.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Tribe.Create(&tribe); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		member := model.TribeMember{
			TribeUuid: tribe.Uuid,
			UserId:    req.OwnerId,
			Manager:   true,
		}
		if err := txRepos.Member.Upsert(&member); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return txRepos.History.Create(&model.HistoryEntry{
			TribeUuid: tribe.Uuid,
			UserId:    req.OwnerId,
			Action:    "create",
			Details:   "a créé la tribu",
		})
	})
	if err != nil {
		return nil, err
	}

	t.afterMutation(ctx, &tribe, "create", req.OwnerId)

	if err := t.publisher.Publish(ctx, tribe.Uuid, req.SurfaceId); err != nil {
		// 部落已创建成功，卡片发布失败不回滚
		zap.L().Warn("部落创建后卡片发布失败",
			zap.String("tribe", tribe.Uuid),
			zap.Error(err))
	}

	return &respond.TribeSummaryRespond{
		Uuid:      tribe.Uuid,
		GuildId:   tribe.GuildId,
		Name:      tribe.Name,
		OwnerId:   tribe.OwnerId,
		MemberCnt: 1,
	}, nil
}

// GetTribe 获取部落完整信息
func (t *tribeService) GetTribe(tribeUuid string) (*respond.TribeDetailRespond, error) {
	cacheKey := "tribe_detail_" + tribeUuid

	rspString, err := t.cache.Get(context.Background(), cacheKey)
	if err == nil && rspString != "" {
		var detail respond.TribeDetailRespond
		if err := json.Unmarshal([]byte(rspString), &detail); err == nil {
			return &detail, nil
		}
	}

	view, err := t.publisher.LoadView(tribeUuid, 0)
	if err != nil {
		return nil, err
	}

	detail := buildDetail(view)

	t.cache.SubmitTask(func() {
		data, err := json.Marshal(detail)
		if err != nil {
			return
		}
		ttl := time.Duration(constants.CACHE_TTL_MINUTES) * time.Minute
		if err := t.cache.Set(context.Background(), cacheKey, string(data), ttl); err != nil {
			zap.L().Error(err.Error())
		}
	})

	return detail, nil
}

// ListTribes 列出 guild 内全部部落
func (t *tribeService) ListTribes(guildId string) ([]respond.TribeSummaryRespond, error) {
	tribes, err := t.repos.Tribe.FindByGuild(guildId)
	if err != nil {
		return nil, err
	}
	return t.summarize(tribes)
}

// ListMyTribes 按用户视角列出其管理与加入的部落
func (t *tribeService) ListMyTribes(guildId, userId string) (*respond.MyTribesRespond, error) {
	managed, err := t.repos.Tribe.FindManagedBy(guildId, userId)
	if err != nil {
		return nil, err
	}
	joined, err := t.repos.Tribe.FindJoinedBy(guildId, userId)
	if err != nil {
		return nil, err
	}

	managedRsp, err := t.summarize(managed)
	if err != nil {
		return nil, err
	}
	joinedRsp, err := t.summarize(joined)
	if err != nil {
		return nil, err
	}
	return &respond.MyTribesRespond{Managed: managedRsp, Joined: joinedRsp}, nil
}

// summarize 将部落行转换为概要响应
func (t *tribeService) summarize(tribes []model.Tribe) ([]respond.TribeSummaryRespond, error) {
	summaries := make([]respond.TribeSummaryRespond, 0, len(tribes))
	for i := range tribes {
		tr := &tribes[i]
		members, err := t.repos.Member.FindByTribe(tr.Uuid)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, respond.TribeSummaryRespond{
			Uuid:       tr.Uuid,
			GuildId:    tr.GuildId,
			Name:       tr.Name,
			OwnerId:    tr.OwnerId,
			MemberCnt:  len(members),
			Recruiting: tr.Recruiting,
			HasCard:    tr.HasCard(),
		})
	}
	return summaries, nil
}

// UpdateProfile 更新部落资料
// 需要管理员及以上权限，改名时校验 guild 内唯一性
func (t *tribeService) UpdateProfile(ctx context.Context, actor permission.Actor, tribeUuid string, req request.UpdateTribeRequest) error {
	tribe, level, err := t.authorize(actor, tribeUuid)
	if err != nil {
		return err
	}
	if !level.CanEdit() {
		return errorx.ErrPermissionDenied
	}

	fields := map[string]interface{}{}
	var changes []string

	if req.Name != nil && *req.Name != tribe.Name {
		taken, err := t.repos.Tribe.ExistsByNameExcept(tribe.GuildId, *req.Name, tribeUuid)
		if err != nil {
			return err
		}
		if taken {
			return errorx.Newf(errorx.CodeConflict, "une tribu nommée « %s » existe déjà", *req.Name)
		}
		fields["name"] = *req.Name
		changes = append(changes, "nom")
	}
	if req.Description != nil {
		fields["description"] = *req.Description
		changes = append(changes, "description")
	}
	if req.Motto != nil {
		fields["motto"] = *req.Motto
		changes = append(changes, "devise")
	}
	if req.Color != nil {
		fields["color"] = *req.Color
		changes = append(changes, "couleur")
	}
	if req.LogoUrl != nil {
		fields["logo_url"] = *req.LogoUrl
		changes = append(changes, "logo")
	}
	if req.Objective != nil {
		fields["objective"] = *req.Objective
		changes = append(changes, "objectif")
	}
	if req.Recruiting != nil {
		fields["recruiting"] = *req.Recruiting
		changes = append(changes, "recrutement")
	}
	if req.BaseMap != nil {
		if *req.BaseMap != "" {
			if err := t.checkCatalog(tribe.GuildId, model.CatalogMap, *req.BaseMap); err != nil {
				return err
			}
		}
		fields["base_map"] = *req.BaseMap
		changes = append(changes, "carte")
	}
	if req.BaseCoords != nil {
		fields["base_coords"] = *req.BaseCoords
		changes = append(changes, "coordonnées")
	}

	if len(fields) == 0 {
		return nil
	}

	err = t.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Tribe.UpdateFields(tribeUuid, fields); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return txRepos.History.Create(&model.HistoryEntry{
			TribeUuid: tribeUuid,
			UserId:    req.ActorId,
			Action:    "update",
			Details:   "a modifié : " + strings.Join(changes, ", "),
		})
	})
	if err != nil {
		return err
	}

	t.afterMutation(ctx, tribe, "update", req.ActorId)
	t.refreshCard(ctx, tribeUuid)
	return nil
}

// UpsertMember 添加或更新成员
// 管理员可维护成员资料，任免管理员标记需要所有者权限
func (t *tribeService) UpsertMember(ctx context.Context, actor permission.Actor, tribeUuid string, req request.UpsertMemberRequest) error {
	tribe, level, err := t.authorize(actor, tribeUuid)
	if err != nil {
		return err
	}
	if !level.CanEdit() {
		return errorx.ErrPermissionDenied
	}
	if req.Manager != nil && !level.CanAdminister() {
		return errorx.ErrPermissionDenied
	}

	manager := false
	if req.Manager != nil {
		manager = *req.Manager
	} else {
		// 未指定时保留已有标记
		existing, err := t.repos.Member.FindByTribeAndUser(tribeUuid, req.UserId)
		if err != nil && !errorx.IsNotFound(err) {
			return err
		}
		if existing != nil {
			manager = existing.Manager
		}
	}
	if req.UserId == tribe.OwnerId {
		// 所有者行永远保持管理员标记
		manager = true
	}

	member := model.TribeMember{
		TribeUuid:  tribeUuid,
		UserId:     req.UserId,
		InGameName: req.InGameName,
		RoleLabel:  req.RoleLabel,
		Manager:    manager,
	}

	err = t.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Member.Upsert(&member); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return txRepos.History.Create(&model.HistoryEntry{
			TribeUuid: tribeUuid,
			UserId:    req.ActorId,
			Action:    "member_upsert",
			Details:   fmt.Sprintf("a mis à jour le membre <@%s>", req.UserId),
		})
	})
	if err != nil {
		return err
	}

	t.afterMutation(ctx, tribe, "member_upsert", req.ActorId)
	t.refreshCard(ctx, tribeUuid)
	return nil
}

// RemoveMember 移除成员
// 成员可以自行退出，移除他人需要管理员及以上权限，所有者不可被移除
func (t *tribeService) RemoveMember(ctx context.Context, actor permission.Actor, tribeUuid, targetUserId string) error {
	tribe, level, err := t.authorize(actor, tribeUuid)
	if err != nil {
		return err
	}

	selfLeave := actor.UserId == targetUserId
	if !selfLeave && !level.CanEdit() {
		return errorx.ErrPermissionDenied
	}
	if targetUserId == tribe.OwnerId {
		return errorx.New(errorx.CodeConflict, "le référent doit d'abord transférer la tribu")
	}

	if _, err := t.repos.Member.FindByTribeAndUser(tribeUuid, targetUserId); err != nil {
		return err
	}

	action := "member_remove"
	details := fmt.Sprintf("a retiré le membre <@%s>", targetUserId)
	if selfLeave {
		action = "member_leave"
		details = "a quitté la tribu"
	}

	err = t.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Member.Delete(tribeUuid, targetUserId); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return txRepos.History.Create(&model.HistoryEntry{
			TribeUuid: tribeUuid,
			UserId:    actor.UserId,
			Action:    action,
			Details:   details,
		})
	})
	if err != nil {
		return err
	}

	t.afterMutation(ctx, tribe, action, actor.UserId)
	t.refreshCard(ctx, tribeUuid)
	return nil
}

// AddOutpost 添加前哨站，地图名必须在目录中
func (t *tribeService) AddOutpost(ctx context.Context, actor permission.Actor, tribeUuid string, req request.AddOutpostRequest) error {
	tribe, level, err := t.authorize(actor, tribeUuid)
	if err != nil {
		return err
	}
	if !level.CanEdit() {
		return errorx.ErrPermissionDenied
	}
	if err := t.checkCatalog(tribe.GuildId, model.CatalogMap, req.MapName); err != nil {
		return err
	}

	outpost := model.Outpost{
		TribeUuid: tribeUuid,
		CreatorId: req.ActorId,
		MapName:   req.MapName,
		Coords:    req.Coords,
	}

	err = t.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Outpost.Create(&outpost); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return txRepos.History.Create(&model.HistoryEntry{
			TribeUuid: tribeUuid,
			UserId:    req.ActorId,
			Action:    "outpost_add",
			Details:   "a ajouté un avant-poste sur " + req.MapName,
		})
	})
	if err != nil {
		return err
	}

	t.afterMutation(ctx, tribe, "outpost_add", req.ActorId)
	t.refreshCard(ctx, tribeUuid)
	return nil
}

// RemoveOutpost 按地图名移除前哨站
func (t *tribeService) RemoveOutpost(ctx context.Context, actor permission.Actor, tribeUuid string, req request.RemoveOutpostRequest) error {
	tribe, level, err := t.authorize(actor, tribeUuid)
	if err != nil {
		return err
	}
	if !level.CanEdit() {
		return errorx.ErrPermissionDenied
	}

	err = t.repos.Transaction(func(txRepos *repository.Repositories) error {
		removed, err := txRepos.Outpost.DeleteByTribeAndMap(tribeUuid, req.MapName)
		if err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		if removed == 0 {
			return errorx.Newf(errorx.CodeNotFound, "aucun avant-poste sur %s", req.MapName)
		}
		return txRepos.History.Create(&model.HistoryEntry{
			TribeUuid: tribeUuid,
			UserId:    req.ActorId,
			Action:    "outpost_remove",
			Details:   "a retiré l'avant-poste de " + req.MapName,
		})
	})
	if err != nil {
		return err
	}

	t.afterMutation(ctx, tribe, "outpost_remove", req.ActorId)
	t.refreshCard(ctx, tribeUuid)
	return nil
}

// AddPhoto 向相册追加照片，相册满时返回冲突
func (t *tribeService) AddPhoto(ctx context.Context, actor permission.Actor, tribeUuid string, req request.AddPhotoRequest) error {
	tribe, level, err := t.authorize(actor, tribeUuid)
	if err != nil {
		return err
	}
	if !level.CanEdit() {
		return errorx.ErrPermissionDenied
	}

	err = t.repos.Transaction(func(txRepos *repository.Repositories) error {
		count, err := txRepos.Photo.CountByTribe(tribeUuid)
		if err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		if count >= constants.PHOTO_MAX_PER_TRIBE {
			return errorx.Newf(errorx.CodeConflict, "l'album est plein (%d photos max)", constants.PHOTO_MAX_PER_TRIBE)
		}
		photo := model.TribePhoto{
			TribeUuid: tribeUuid,
			Url:       req.Url,
			Ord:       int(count),
		}
		if err := txRepos.Photo.Create(&photo); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return txRepos.History.Create(&model.HistoryEntry{
			TribeUuid: tribeUuid,
			UserId:    req.ActorId,
			Action:    "photo_add",
			Details:   "a ajouté une photo",
		})
	})
	if err != nil {
		return err
	}

	t.afterMutation(ctx, tribe, "photo_add", req.ActorId)
	t.refreshCard(ctx, tribeUuid)
	return nil
}

// RemovePhoto 按序号移除照片并压实剩余顺序
func (t *tribeService) RemovePhoto(ctx context.Context, actor permission.Actor, tribeUuid string, req request.RemovePhotoRequest) error {
	tribe, level, err := t.authorize(actor, tribeUuid)
	if err != nil {
		return err
	}
	if !level.CanEdit() {
		return errorx.ErrPermissionDenied
	}

	err = t.repos.Transaction(func(txRepos *repository.Repositories) error {
		removed, err := txRepos.Photo.DeleteByOrd(tribeUuid, req.Ord)
		if err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		if removed == 0 {
			return errorx.Newf(errorx.CodeNotFound, "aucune photo à la position %d", req.Ord)
		}
		if err := txRepos.Photo.ShiftOrdsAfter(tribeUuid, req.Ord); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return txRepos.History.Create(&model.HistoryEntry{
			TribeUuid: tribeUuid,
			UserId:    req.ActorId,
			Action:    "photo_remove",
			Details:   "a retiré une photo",
		})
	})
	if err != nil {
		return err
	}

	t.afterMutation(ctx, tribe, "photo_remove", req.ActorId)
	t.refreshCard(ctx, tribeUuid)
	return nil
}

// SetProgression 标记 Boss 击杀或探索笔记进度
// 条目名必须在对应目录中，同名条目的完成状态直接改写
func (t *tribeService) SetProgression(ctx context.Context, actor permission.Actor, tribeUuid string, req request.SetProgressionRequest) error {
	tribe, level, err := t.authorize(actor, tribeUuid)
	if err != nil {
		return err
	}
	if !level.CanEdit() {
		return errorx.ErrPermissionDenied
	}

	kind := model.CatalogBoss
	if req.Category == model.ProgressionNote {
		kind = model.CatalogNote
	}
	if err := t.checkCatalog(tribe.GuildId, kind, req.Name); err != nil {
		return err
	}

	verb := "a marqué"
	if !req.Done {
		verb = "a démarqué"
	}

	err = t.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Progression.Upsert(tribeUuid, req.Category, req.Name, req.Done); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return txRepos.History.Create(&model.HistoryEntry{
			TribeUuid: tribeUuid,
			UserId:    req.ActorId,
			Action:    "progression",
			Details:   fmt.Sprintf("%s « %s »", verb, req.Name),
		})
	})
	if err != nil {
		return err
	}

	t.afterMutation(ctx, tribe, "progression", req.ActorId)
	t.refreshCard(ctx, tribeUuid)
	return nil
}

// TransferOwnership 转让所有权，新所有者必须已是成员
func (t *tribeService) TransferOwnership(ctx context.Context, actor permission.Actor, tribeUuid string, req request.TransferOwnerRequest) error {
	tribe, level, err := t.authorize(actor, tribeUuid)
	if err != nil {
		return err
	}
	if !level.CanAdminister() {
		return errorx.ErrPermissionDenied
	}
	if req.NewOwnerId == tribe.OwnerId {
		return nil
	}

	newOwner, err := t.repos.Member.FindByTribeAndUser(tribeUuid, req.NewOwnerId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.Newf(errorx.CodeNotFound, "<@%s> n'est pas membre de la tribu", req.NewOwnerId)
		}
		return err
	}

	err = t.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Tribe.UpdateOwner(tribeUuid, req.NewOwnerId); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		// 新所有者行补上管理员标记
		newOwner.Manager = true
		if err := txRepos.Member.Upsert(newOwner); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return txRepos.History.Create(&model.HistoryEntry{
			TribeUuid: tribeUuid,
			UserId:    req.ActorId,
			Action:    "transfer",
			Details:   fmt.Sprintf("a transféré la tribu à <@%s>", req.NewOwnerId),
		})
	})
	if err != nil {
		return err
	}

	t.afterMutation(ctx, tribe, "transfer", req.ActorId)
	t.refreshCard(ctx, tribeUuid)
	return nil
}

// DeleteTribe 删除部落及其全部附属数据
// 仅所有者或平台管理员可执行，且必须原样输入部落名确认
func (t *tribeService) DeleteTribe(ctx context.Context, actor permission.Actor, tribeUuid string, req request.DeleteTribeRequest) error {
	tribe, level, err := t.authorize(actor, tribeUuid)
	if err != nil {
		return err
	}
	if !level.CanAdminister() {
		return errorx.ErrPermissionDenied
	}
	if req.ConfirmName != tribe.Name {
		return errorx.New(errorx.CodeInvalidParam, "le nom saisi ne correspond pas à la tribu")
	}

	// 卡片消息先行清理，失败不阻塞删除
	if err := t.publisher.Retire(ctx, tribeUuid); err != nil {
		zap.L().Warn("删除部落时卡片清理失败",
			zap.String("tribe", tribeUuid),
			zap.Error(err))
	}

	err = t.repos.Transaction(func(txRepos *repository.Repositories) error {
		for _, del := range []func(string) error{
			txRepos.Member.DeleteByTribe,
			txRepos.Outpost.DeleteByTribe,
			txRepos.Photo.DeleteByTribe,
			txRepos.Progression.DeleteByTribe,
			txRepos.History.DeleteByTribe,
		} {
			if err := del(tribeUuid); err != nil {
				zap.L().Error(err.Error())
				return errorx.ErrServerBusy
			}
		}
		if err := txRepos.Tribe.Delete(tribeUuid); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		return nil
	})
	if err != nil {
		return err
	}

	t.afterMutation(ctx, tribe, "delete", actor.UserId)
	return nil
}

// GetHistory 分页获取历史记录，最新在前
func (t *tribeService) GetHistory(tribeUuid string, page int) (*respond.HistoryPageRespond, error) {
	if _, err := t.repos.Tribe.FindByUuid(tribeUuid); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	entries, total, err := t.repos.History.FindByTribePaged(tribeUuid, page, constants.HISTORY_PAGE_SIZE)
	if err != nil {
		return nil, err
	}

	rsp := &respond.HistoryPageRespond{
		Entries:  make([]respond.HistoryEntryRespond, 0, len(entries)),
		Total:    total,
		Page:     page,
		PageSize: constants.HISTORY_PAGE_SIZE,
	}
	for _, e := range entries {
		rsp.Entries = append(rsp.Entries, respond.HistoryEntryRespond{
			UserId:    e.UserId,
			Action:    e.Action,
			Details:   e.Details,
			CreatedAt: e.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return rsp, nil
}

// PublishCard 发布或重新发布部落卡片
func (t *tribeService) PublishCard(ctx context.Context, actor permission.Actor, tribeUuid string, req request.PublishCardRequest) error {
	_, level, err := t.authorize(actor, tribeUuid)
	if err != nil {
		return err
	}
	if !level.CanEdit() {
		return errorx.ErrPermissionDenied
	}
	return t.publisher.Publish(ctx, tribeUuid, req.SurfaceId)
}

// RefreshCard 原地刷新卡片，事件消费者在后台调用
func (t *tribeService) RefreshCard(ctx context.Context, tribeUuid string) error {
	return t.publisher.Refresh(ctx, tribeUuid)
}

// authorize 加载部落与成员表并解析权限级别
func (t *tribeService) authorize(actor permission.Actor, tribeUuid string) (*model.Tribe, permission.Level, error) {
	tribe, err := t.repos.Tribe.FindByUuid(tribeUuid)
	if err != nil {
		return nil, permission.None, err
	}
	members, err := t.repos.Member.FindByTribe(tribeUuid)
	if err != nil {
		return nil, permission.None, err
	}
	return tribe, permission.Resolve(actor, tribe, members), nil
}

// checkCatalog 校验名称是否在 guild 或全局目录中
func (t *tribeService) checkCatalog(guildId string, kind int8, name string) error {
	for _, gid := range []string{guildId, constants.GLOBAL_GUILD_ID} {
		ok, err := t.repos.Catalog.Exists(gid, kind, name)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return errorx.Newf(errorx.CodeInvalidParam, "« %s » n'est pas dans la liste autorisée", name)
}

// afterMutation 变更成功后的统一收尾：缓存失效与事件发布
func (t *tribeService) afterMutation(ctx context.Context, tribe *model.Tribe, action, actorId string) {
	t.cache.SubmitTask(func() {
		patterns := []string{
			"tribe_detail_" + tribe.Uuid,
			"tribe_list_" + tribe.GuildId + "*",
		}
		if err := t.cache.DeleteByPatterns(context.Background(), patterns); err != nil {
			zap.L().Error(err.Error())
		}
	})

	mq.KafkaService.PublishEvent(ctx, &mq.TribeEvent{
		TribeUuid: tribe.Uuid,
		GuildId:   tribe.GuildId,
		Action:    action,
		ActorId:   actorId,
	})
}

// refreshCard 变更后刷新卡片，失败只记日志
// 已有卡片原地编辑，避免卡片在频道里反复沉底；
// 尚无卡片时按配置的卡片频道补发一张
func (t *tribeService) refreshCard(ctx context.Context, tribeUuid string) {
	tribe, err := t.repos.Tribe.FindByUuid(tribeUuid)
	if err != nil {
		zap.L().Warn("卡片刷新前读取部落失败",
			zap.String("tribe", tribeUuid),
			zap.Error(err))
		return
	}

	if !tribe.HasCard() {
		if err := t.publisher.Publish(ctx, tribeUuid, ""); err != nil {
			zap.L().Warn("卡片补发失败",
				zap.String("tribe", tribeUuid),
				zap.Error(err))
		}
		return
	}

	if err := t.publisher.Refresh(ctx, tribeUuid); err != nil {
		zap.L().Warn("卡片刷新失败",
			zap.String("tribe", tribeUuid),
			zap.Error(err))
	}
}

// buildDetail 将渲染快照转换为详情响应
func buildDetail(view *card.View) *respond.TribeDetailRespond {
	tribe := view.Tribe
	detail := &respond.TribeDetailRespond{
		Uuid:          tribe.Uuid,
		GuildId:       tribe.GuildId,
		Name:          tribe.Name,
		Description:   tribe.Description,
		Motto:         tribe.Motto,
		Color:         tribe.Color,
		LogoUrl:       tribe.LogoUrl,
		Objective:     tribe.Objective,
		Recruiting:    tribe.Recruiting,
		BaseMap:       tribe.BaseMap,
		BaseCoords:    tribe.BaseCoords,
		OwnerId:       tribe.OwnerId,
		CardSurfaceId: tribe.CardSurfaceId,
		CardMessageId: tribe.CardMessageId,
	}

	for _, m := range view.Members {
		detail.Members = append(detail.Members, respond.MemberRespond{
			UserId:     m.UserId,
			InGameName: m.InGameName,
			RoleLabel:  m.RoleLabel,
			Manager:    m.Manager,
			Owner:      m.UserId == tribe.OwnerId,
		})
	}
	for _, o := range view.Outposts {
		detail.Outposts = append(detail.Outposts, respond.OutpostRespond{
			MapName:   o.MapName,
			Coords:    o.Coords,
			CreatorId: o.CreatorId,
		})
	}
	for _, p := range view.Photos {
		detail.Photos = append(detail.Photos, p.Url)
	}
	for _, mark := range view.Marks {
		row := respond.ProgressRespond{Name: mark.Name, Done: mark.Done}
		if mark.Category == model.ProgressionBoss {
			detail.Bosses = append(detail.Bosses, row)
		} else {
			detail.Notes = append(detail.Notes, row)
		}
	}
	return detail
}
