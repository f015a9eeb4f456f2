package tribe

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"tribe_card_server/internal/dao/mysql/repository"
	"tribe_card_server/internal/dto/request"
	"tribe_card_server/internal/model"
	"tribe_card_server/internal/platform"
	"tribe_card_server/internal/service/card"
	"tribe_card_server/internal/service/permission"
	"tribe_card_server/pkg/errorx"
)

// ---- 内存仓储替身，聚合不持有 db 时事务退化为直接执行 ----

type memTribeRepo struct {
	tribes  map[string]*model.Tribe
	members *memMemberRepo
}

func (m *memTribeRepo) FindByUuid(uuid string) (*model.Tribe, error) {
	if t, ok := m.tribes[uuid]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, errorx.New(errorx.CodeNotFound, "tribu introuvable")
}
func (m *memTribeRepo) FindByName(guildId, name string) (*model.Tribe, error) {
	for _, t := range m.tribes {
		if t.GuildId == guildId && strings.EqualFold(t.Name, name) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, errorx.New(errorx.CodeNotFound, "tribu introuvable")
}
func (m *memTribeRepo) ExistsByNameExcept(guildId, name, exceptUuid string) (bool, error) {
	for _, t := range m.tribes {
		if t.Uuid != exceptUuid && t.GuildId == guildId && strings.EqualFold(t.Name, name) {
			return true, nil
		}
	}
	return false, nil
}
func (m *memTribeRepo) FindByGuild(guildId string) ([]model.Tribe, error) {
	var out []model.Tribe
	for _, t := range m.tribes {
		if t.GuildId == guildId {
			out = append(out, *t)
		}
	}
	return out, nil
}
func (m *memTribeRepo) FindManagedBy(guildId, userId string) ([]model.Tribe, error) {
	var out []model.Tribe
	for _, t := range m.tribes {
		if t.GuildId != guildId {
			continue
		}
		if t.OwnerId == userId {
			out = append(out, *t)
			continue
		}
		if row, err := m.members.FindByTribeAndUser(t.Uuid, userId); err == nil && row.Manager {
			out = append(out, *t)
		}
	}
	return out, nil
}
func (m *memTribeRepo) FindJoinedBy(guildId, userId string) ([]model.Tribe, error) {
	var out []model.Tribe
	for _, t := range m.tribes {
		if t.GuildId != guildId {
			continue
		}
		if _, err := m.members.FindByTribeAndUser(t.Uuid, userId); err == nil {
			out = append(out, *t)
		}
	}
	return out, nil
}
func (m *memTribeRepo) Create(tribe *model.Tribe) error {
	m.tribes[tribe.Uuid] = tribe
	return nil
}
func (m *memTribeRepo) UpdateFields(uuid string, updates map[string]interface{}) error {
	t := m.tribes[uuid]
	for column, value := range updates {
		switch column {
		case "name":
			t.Name = value.(string)
		case "description":
			t.Description = value.(string)
		case "motto":
			t.Motto = value.(string)
		case "color":
			t.Color = value.(int)
		case "logo_url":
			t.LogoUrl = value.(string)
		case "objective":
			t.Objective = value.(string)
		case "recruiting":
			b := value.(bool)
			t.Recruiting = &b
		case "base_map":
			t.BaseMap = value.(string)
		case "base_coords":
			t.BaseCoords = value.(string)
		}
	}
	return nil
}
func (m *memTribeRepo) UpdateOwner(uuid, newOwnerId string) error {
	m.tribes[uuid].OwnerId = newOwnerId
	return nil
}
func (m *memTribeRepo) UpdateCardPointer(uuid, surfaceId, messageId string) error {
	m.tribes[uuid].CardSurfaceId = surfaceId
	m.tribes[uuid].CardMessageId = messageId
	return nil
}
func (m *memTribeRepo) ClearCardPointer(uuid string) error {
	m.tribes[uuid].CardSurfaceId = ""
	m.tribes[uuid].CardMessageId = ""
	return nil
}
func (m *memTribeRepo) Delete(uuid string) error {
	delete(m.tribes, uuid)
	return nil
}

type memMemberRepo struct{ rows []model.TribeMember }

func (m *memMemberRepo) FindByTribe(tribeUuid string) ([]model.TribeMember, error) {
	var out []model.TribeMember
	for _, r := range m.rows {
		if r.TribeUuid == tribeUuid {
			out = append(out, r)
		}
	}
	return out, nil
}
func (m *memMemberRepo) FindByTribeAndUser(tribeUuid, userId string) (*model.TribeMember, error) {
	for i := range m.rows {
		if m.rows[i].TribeUuid == tribeUuid && m.rows[i].UserId == userId {
			cp := m.rows[i]
			return &cp, nil
		}
	}
	return nil, errorx.New(errorx.CodeNotFound, "membre introuvable")
}
func (m *memMemberRepo) Upsert(member *model.TribeMember) error {
	for i := range m.rows {
		if m.rows[i].TribeUuid == member.TribeUuid && m.rows[i].UserId == member.UserId {
			m.rows[i] = *member
			return nil
		}
	}
	m.rows = append(m.rows, *member)
	return nil
}
func (m *memMemberRepo) Delete(tribeUuid, userId string) error {
	for i := range m.rows {
		if m.rows[i].TribeUuid == tribeUuid && m.rows[i].UserId == userId {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}
func (m *memMemberRepo) DeleteByTribe(tribeUuid string) error {
	var kept []model.TribeMember
	for _, r := range m.rows {
		if r.TribeUuid != tribeUuid {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

type memOutpostRepo struct{ rows []model.Outpost }

func (m *memOutpostRepo) FindByTribe(tribeUuid string) ([]model.Outpost, error) {
	var out []model.Outpost
	for _, r := range m.rows {
		if r.TribeUuid == tribeUuid {
			out = append(out, r)
		}
	}
	return out, nil
}
func (m *memOutpostRepo) Create(outpost *model.Outpost) error {
	m.rows = append(m.rows, *outpost)
	return nil
}
func (m *memOutpostRepo) DeleteByTribeAndMap(tribeUuid, mapName string) (int64, error) {
	var kept []model.Outpost
	var removed int64
	for _, r := range m.rows {
		if r.TribeUuid == tribeUuid && r.MapName == mapName {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return removed, nil
}
func (m *memOutpostRepo) DeleteByTribe(tribeUuid string) error {
	var kept []model.Outpost
	for _, r := range m.rows {
		if r.TribeUuid != tribeUuid {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

type memPhotoRepo struct{ rows []model.TribePhoto }

func (m *memPhotoRepo) FindByTribe(tribeUuid string) ([]model.TribePhoto, error) {
	var out []model.TribePhoto
	for ord := 0; ord < len(m.rows); ord++ {
		for _, r := range m.rows {
			if r.TribeUuid == tribeUuid && r.Ord == ord {
				out = append(out, r)
			}
		}
	}
	return out, nil
}
func (m *memPhotoRepo) CountByTribe(tribeUuid string) (int64, error) {
	var n int64
	for _, r := range m.rows {
		if r.TribeUuid == tribeUuid {
			n++
		}
	}
	return n, nil
}
func (m *memPhotoRepo) Create(photo *model.TribePhoto) error {
	m.rows = append(m.rows, *photo)
	return nil
}
func (m *memPhotoRepo) DeleteByOrd(tribeUuid string, ord int) (int64, error) {
	for i := range m.rows {
		if m.rows[i].TribeUuid == tribeUuid && m.rows[i].Ord == ord {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}
func (m *memPhotoRepo) ShiftOrdsAfter(tribeUuid string, ord int) error {
	for i := range m.rows {
		if m.rows[i].TribeUuid == tribeUuid && m.rows[i].Ord > ord {
			m.rows[i].Ord--
		}
	}
	return nil
}
func (m *memPhotoRepo) DeleteByTribe(tribeUuid string) error {
	var kept []model.TribePhoto
	for _, r := range m.rows {
		if r.TribeUuid != tribeUuid {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

type memProgressionRepo struct{ rows []model.ProgressionMark }

func (m *memProgressionRepo) FindByTribe(tribeUuid string) ([]model.ProgressionMark, error) {
	var out []model.ProgressionMark
	for _, r := range m.rows {
		if r.TribeUuid == tribeUuid {
			out = append(out, r)
		}
	}
	return out, nil
}
func (m *memProgressionRepo) Upsert(tribeUuid string, category int8, name string, done bool) error {
	for i := range m.rows {
		if m.rows[i].TribeUuid == tribeUuid && m.rows[i].Category == category && m.rows[i].Name == name {
			m.rows[i].Done = done
			return nil
		}
	}
	m.rows = append(m.rows, model.ProgressionMark{
		TribeUuid: tribeUuid, Category: category, Name: name, Done: done,
	})
	return nil
}
func (m *memProgressionRepo) DeleteByTribe(tribeUuid string) error {
	var kept []model.ProgressionMark
	for _, r := range m.rows {
		if r.TribeUuid != tribeUuid {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

type memHistoryRepo struct {
	rows   []model.HistoryEntry
	nextId uint
}

func (m *memHistoryRepo) Create(entry *model.HistoryEntry) error {
	m.nextId++
	entry.ID = m.nextId
	entry.CreatedAt = time.Now()
	m.rows = append(m.rows, *entry)
	return nil
}
func (m *memHistoryRepo) FindByTribePaged(tribeUuid string, page, pageSize int) ([]model.HistoryEntry, int64, error) {
	var all []model.HistoryEntry
	for _, r := range m.rows {
		if r.TribeUuid == tribeUuid {
			all = append(all, r)
		}
	}
	// 最新在前
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}
func (m *memHistoryRepo) DeleteByTribe(tribeUuid string) error {
	var kept []model.HistoryEntry
	for _, r := range m.rows {
		if r.TribeUuid != tribeUuid {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

type memConfigRepo struct{ values map[string]string }

func (m *memConfigRepo) FindValue(guildId, key string) (string, error) {
	if v, ok := m.values[guildId+"|"+key]; ok {
		return v, nil
	}
	return "", errorx.New(errorx.CodeNotFound, "配置不存在")
}
func (m *memConfigRepo) Set(guildId, key, value string) error {
	m.values[guildId+"|"+key] = value
	return nil
}

type memCatalogRepo struct{ entries map[string]bool }

func catalogKey(guildId string, kind int8, name string) string {
	return guildId + "|" + strconv.Itoa(int(kind)) + "|" + name
}
func (m *memCatalogRepo) FindNames(guildIds []string, kind int8) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for key := range m.entries {
		parts := strings.SplitN(key, "|", 3)
		for _, gid := range guildIds {
			if parts[0] == gid && parts[1] == strconv.Itoa(int(kind)) && !seen[parts[2]] {
				seen[parts[2]] = true
				out = append(out, parts[2])
			}
		}
	}
	return out, nil
}
func (m *memCatalogRepo) Exists(guildId string, kind int8, name string) (bool, error) {
	return m.entries[catalogKey(guildId, kind, name)], nil
}
func (m *memCatalogRepo) Create(entry *model.CatalogEntry) error {
	m.entries[catalogKey(entry.GuildId, entry.Kind, entry.Name)] = true
	return nil
}
func (m *memCatalogRepo) Delete(guildId string, kind int8, name string) (int64, error) {
	key := catalogKey(guildId, kind, name)
	if m.entries[key] {
		delete(m.entries, key)
		return 1, nil
	}
	return 0, nil
}

// ---- 缓存与平台替身 ----

type fakeCache struct{ store map[string]string }

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.store[key] = value
	return nil
}
func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	return f.store[key], nil
}
func (f *fakeCache) GetOrError(ctx context.Context, key string) (string, error) {
	if v, ok := f.store[key]; ok {
		return v, nil
	}
	return "", errorx.New(errorx.CodeNotFound, "键不存在")
}
func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.store, key)
	return nil
}
func (f *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range f.store {
		if strings.HasPrefix(k, prefix) {
			delete(f.store, k)
		}
	}
	return nil
}
func (f *fakeCache) DeleteByPatterns(ctx context.Context, patterns []string) error {
	for _, p := range patterns {
		if err := f.DeleteByPattern(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
func (f *fakeCache) SubmitTask(action func()) { action() }

type fakeSurface struct {
	posted  []string
	deleted []string
	edited  []string
	nextId  int
}

func (f *fakeSurface) PostMessage(ctx context.Context, channelId string, doc *platform.Document) (string, error) {
	f.nextId++
	f.posted = append(f.posted, channelId)
	return "M" + strconv.Itoa(f.nextId), nil
}
func (f *fakeSurface) EditMessage(ctx context.Context, channelId, messageId string, doc *platform.Document) error {
	f.edited = append(f.edited, messageId)
	return nil
}
func (f *fakeSurface) DeleteMessage(ctx context.Context, channelId, messageId string) error {
	f.deleted = append(f.deleted, messageId)
	return nil
}
func (f *fakeSurface) RespondUpdate(ctx context.Context, interactionId, token string, doc *platform.Document) error {
	return nil
}
func (f *fakeSurface) RespondEphemeral(ctx context.Context, interactionId, token, content string) error {
	return nil
}
func (f *fakeSurface) RespondDeferred(ctx context.Context, interactionId, token string) error {
	return nil
}

// ---- 测试环境 ----

type testEnv struct {
	svc     *tribeService
	tribes  *memTribeRepo
	members *memMemberRepo
	photos  *memPhotoRepo
	marks   *memProgressionRepo
	history *memHistoryRepo
	catalog *memCatalogRepo
	configs *memConfigRepo
	surface *fakeSurface
}

func newTestEnv() *testEnv {
	members := &memMemberRepo{}
	env := &testEnv{
		tribes:  &memTribeRepo{tribes: map[string]*model.Tribe{}, members: members},
		members: members,
		photos:  &memPhotoRepo{},
		marks:   &memProgressionRepo{},
		history: &memHistoryRepo{},
		catalog: &memCatalogRepo{entries: map[string]bool{}},
		configs: &memConfigRepo{values: map[string]string{}},
		surface: &fakeSurface{},
	}
	repos := &repository.Repositories{
		Tribe:       env.tribes,
		Member:      env.members,
		Outpost:     &memOutpostRepo{},
		Photo:       env.photos,
		Progression: env.marks,
		History:     env.history,
		Config:      env.configs,
		Catalog:     env.catalog,
	}
	publisher := card.NewPublisher(repos, env.surface)
	env.svc = NewTribeService(repos, &fakeCache{store: map[string]string{}}, publisher)
	return env
}

// seedTribe 预置一个部落：所有者、一名管理员、一名普通成员
func (e *testEnv) seedTribe() *model.Tribe {
	tribe := &model.Tribe{
		Uuid:    "T00000000001",
		GuildId: "G1",
		Name:    "Les Raptors",
		OwnerId: "U_owner",
	}
	e.tribes.tribes[tribe.Uuid] = tribe
	e.members.rows = []model.TribeMember{
		{TribeUuid: tribe.Uuid, UserId: "U_owner", Manager: true},
		{TribeUuid: tribe.Uuid, UserId: "U_manager", Manager: true},
		{TribeUuid: tribe.Uuid, UserId: "U_member", Manager: false},
	}
	return tribe
}

func (e *testEnv) seedCatalog(kind int8, names ...string) {
	for _, name := range names {
		e.catalog.entries[catalogKey("G1", kind, name)] = true
	}
}

var (
	ownerActor   = permission.Actor{UserId: "U_owner"}
	managerActor = permission.Actor{UserId: "U_manager"}
	memberActor  = permission.Actor{UserId: "U_member"}
	staffActor   = permission.Actor{UserId: "U_staff", Staff: true}
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// ---- 创建 ----

func TestCreateTribe(t *testing.T) {
	env := newTestEnv()

	summary, err := env.svc.CreateTribe(context.Background(), request.CreateTribeRequest{
		GuildId:   "G1",
		SurfaceId: "C_home",
		OwnerId:   "U_owner",
		Name:      "Les Raptors",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(summary.Uuid, "T") {
		t.Errorf("uuid = %q", summary.Uuid)
	}
	if summary.MemberCnt != 1 {
		t.Errorf("memberCnt = %d", summary.MemberCnt)
	}

	member, err := env.members.FindByTribeAndUser(summary.Uuid, "U_owner")
	if err != nil || !member.Manager {
		t.Errorf("owner member row = %+v, err = %v", member, err)
	}
	if len(env.history.rows) != 1 || env.history.rows[0].Action != "create" {
		t.Errorf("history = %+v", env.history.rows)
	}
	// 创建后卡片发布到调用方频道
	stored := env.tribes.tribes[summary.Uuid]
	if !stored.HasCard() || stored.CardSurfaceId != "C_home" {
		t.Errorf("card pointer = %q/%q", stored.CardSurfaceId, stored.CardMessageId)
	}
}

func TestCreateTribeDuplicateName(t *testing.T) {
	env := newTestEnv()
	env.seedTribe()

	_, err := env.svc.CreateTribe(context.Background(), request.CreateTribeRequest{
		GuildId: "G1",
		OwnerId: "U_other",
		Name:    "les raptors", // 大小写不同也算重名
	})
	if !errorx.IsConflict(err) {
		t.Errorf("err = %v, want conflict", err)
	}
}

func TestCreateTribeDefaultColor(t *testing.T) {
	env := newTestEnv()

	summary, err := env.svc.CreateTribe(context.Background(), request.CreateTribeRequest{
		GuildId: "G1",
		OwnerId: "U_owner",
		Name:    "Sans couleur",
	})
	if err != nil {
		t.Fatal(err)
	}
	if env.tribes.tribes[summary.Uuid].Color == 0 {
		t.Error("default color not applied")
	}
}

// ---- 资料更新 ----

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.UpdateProfile(context.Background(), managerActor, tribe.Uuid, request.UpdateTribeRequest{
		ActorId: "U_manager",
		Motto:   strPtr("Jamais sans mon ptéra"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if env.tribes.tribes[tribe.Uuid].Motto != "Jamais sans mon ptéra" {
		t.Errorf("motto = %q", env.tribes.tribes[tribe.Uuid].Motto)
	}
	if len(env.history.rows) != 1 || !strings.Contains(env.history.rows[0].Details, "devise") {
		t.Errorf("history = %+v", env.history.rows)
	}
}

func TestUpdateProfileDenied(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.UpdateProfile(context.Background(), memberActor, tribe.Uuid, request.UpdateTribeRequest{
		ActorId: "U_member",
		Motto:   strPtr("changé"),
	})
	if errorx.GetCode(err) != errorx.CodePermissionDenied {
		t.Fatalf("err = %v, want permission denied", err)
	}
	if env.tribes.tribes[tribe.Uuid].Motto != "" {
		t.Error("profile mutated despite denial")
	}
	if len(env.history.rows) != 0 {
		t.Error("history written despite denial")
	}
}

func TestUpdateProfileStaffBypass(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.UpdateProfile(context.Background(), staffActor, tribe.Uuid, request.UpdateTribeRequest{
		ActorId: "U_staff",
		Motto:   strPtr("modéré"),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestUpdateProfileRenameConflict(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()
	env.tribes.tribes["T00000000002"] = &model.Tribe{
		Uuid: "T00000000002", GuildId: "G1", Name: "Les Dodos", OwnerId: "U_other",
	}

	err := env.svc.UpdateProfile(context.Background(), ownerActor, tribe.Uuid, request.UpdateTribeRequest{
		ActorId: "U_owner",
		Name:    strPtr("LES DODOS"),
	})
	if !errorx.IsConflict(err) {
		t.Errorf("err = %v, want conflict", err)
	}
}

func TestUpdateProfileBaseMapCatalog(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()
	env.seedCatalog(model.CatalogMap, "The Island")

	err := env.svc.UpdateProfile(context.Background(), ownerActor, tribe.Uuid, request.UpdateTribeRequest{
		ActorId: "U_owner",
		BaseMap: strPtr("Atlantide"),
	})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("err = %v, want invalid param", err)
	}

	err = env.svc.UpdateProfile(context.Background(), ownerActor, tribe.Uuid, request.UpdateTribeRequest{
		ActorId: "U_owner",
		BaseMap: strPtr("The Island"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if env.tribes.tribes[tribe.Uuid].BaseMap != "The Island" {
		t.Errorf("baseMap = %q", env.tribes.tribes[tribe.Uuid].BaseMap)
	}
}

func TestUpdateProfileRefreshesCard(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()
	tribe.CardSurfaceId = "C1"
	tribe.CardMessageId = "M1"

	err := env.svc.UpdateProfile(context.Background(), ownerActor, tribe.Uuid, request.UpdateTribeRequest{
		ActorId:    "U_owner",
		Recruiting: boolPtr(true),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(env.surface.edited) != 1 || env.surface.edited[0] != "M1" {
		t.Errorf("edited = %v, want card refreshed in place", env.surface.edited)
	}
	if len(env.surface.posted) != 0 {
		t.Errorf("posted = %v, want in-place edit only", env.surface.posted)
	}
}

func TestUpdateProfilePublishesMissingCard(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()
	env.configs.values["G1|card_channel"] = "C_cards"

	// 变更时尚无卡片，按配置频道补发一张
	err := env.svc.UpdateProfile(context.Background(), ownerActor, tribe.Uuid, request.UpdateTribeRequest{
		ActorId:    "U_owner",
		Recruiting: boolPtr(true),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(env.surface.posted) != 1 || env.surface.posted[0] != "C_cards" {
		t.Errorf("posted = %v", env.surface.posted)
	}
	stored := env.tribes.tribes[tribe.Uuid]
	if !stored.HasCard() || stored.CardSurfaceId != "C_cards" {
		t.Errorf("card pointer = %q/%q", stored.CardSurfaceId, stored.CardMessageId)
	}
}

func TestUpdateProfileNoCardChannelConfigured(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	// 无卡片且未配置卡片频道时，变更本身仍然成功
	err := env.svc.UpdateProfile(context.Background(), ownerActor, tribe.Uuid, request.UpdateTribeRequest{
		ActorId: "U_owner",
		Motto:   strPtr("Jamais sans mon ptéra"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(env.surface.posted) != 0 || env.tribes.tribes[tribe.Uuid].HasCard() {
		t.Errorf("posted = %v", env.surface.posted)
	}
}

// ---- 成员 ----

func TestUpsertMemberManagerFlagNeedsOwner(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.UpsertMember(context.Background(), managerActor, tribe.Uuid, request.UpsertMemberRequest{
		ActorId: "U_manager",
		UserId:  "U_member",
		Manager: boolPtr(true),
	})
	if errorx.GetCode(err) != errorx.CodePermissionDenied {
		t.Fatalf("err = %v, want permission denied", err)
	}

	err = env.svc.UpsertMember(context.Background(), ownerActor, tribe.Uuid, request.UpsertMemberRequest{
		ActorId: "U_owner",
		UserId:  "U_member",
		Manager: boolPtr(true),
	})
	if err != nil {
		t.Fatal(err)
	}
	member, _ := env.members.FindByTribeAndUser(tribe.Uuid, "U_member")
	if !member.Manager {
		t.Error("manager flag not granted")
	}
}

func TestUpsertMemberPreservesFlag(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	// Manager 为 nil 时只更新资料，不动标记
	err := env.svc.UpsertMember(context.Background(), managerActor, tribe.Uuid, request.UpsertMemberRequest{
		ActorId:    "U_manager",
		UserId:     "U_manager",
		InGameName: "Chef de chantier",
	})
	if err != nil {
		t.Fatal(err)
	}
	member, _ := env.members.FindByTribeAndUser(tribe.Uuid, "U_manager")
	if !member.Manager || member.InGameName != "Chef de chantier" {
		t.Errorf("member = %+v", member)
	}
}

func TestUpsertMemberOwnerKeepsManagerFlag(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.UpsertMember(context.Background(), ownerActor, tribe.Uuid, request.UpsertMemberRequest{
		ActorId: "U_owner",
		UserId:  "U_owner",
		Manager: boolPtr(false), // 所有者行不允许降级
	})
	if err != nil {
		t.Fatal(err)
	}
	member, _ := env.members.FindByTribeAndUser(tribe.Uuid, "U_owner")
	if !member.Manager {
		t.Error("owner row lost its manager flag")
	}
}

func TestRemoveMemberSelfLeave(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	if err := env.svc.RemoveMember(context.Background(), memberActor, tribe.Uuid, "U_member"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.members.FindByTribeAndUser(tribe.Uuid, "U_member"); !errorx.IsNotFound(err) {
		t.Error("member row still present")
	}
	if len(env.history.rows) != 1 || env.history.rows[0].Action != "member_leave" {
		t.Errorf("history = %+v", env.history.rows)
	}
}

func TestRemoveMemberByStrangerDenied(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.RemoveMember(context.Background(), permission.Actor{UserId: "U_stranger"}, tribe.Uuid, "U_member")
	if errorx.GetCode(err) != errorx.CodePermissionDenied {
		t.Errorf("err = %v, want permission denied", err)
	}
}

func TestRemoveMemberOwnerBlocked(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	// 所有者既不能被移除也不能自行退出，必须先转让
	for _, actor := range []permission.Actor{ownerActor, staffActor} {
		err := env.svc.RemoveMember(context.Background(), actor, tribe.Uuid, "U_owner")
		if !errorx.IsConflict(err) {
			t.Errorf("actor %s: err = %v, want conflict", actor.UserId, err)
		}
	}
}

// ---- 相册 ----

func TestAddPhotoCap(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()
	for i := 0; i < 10; i++ {
		env.photos.rows = append(env.photos.rows, model.TribePhoto{
			TribeUuid: tribe.Uuid,
			Url:       "https://cdn.example.com/p" + strconv.Itoa(i) + ".png",
			Ord:       i,
		})
	}

	err := env.svc.AddPhoto(context.Background(), ownerActor, tribe.Uuid, request.AddPhotoRequest{
		ActorId: "U_owner",
		Url:     "https://cdn.example.com/p10.png",
	})
	if !errorx.IsConflict(err) {
		t.Errorf("err = %v, want conflict", err)
	}
	if n, _ := env.photos.CountByTribe(tribe.Uuid); n != 10 {
		t.Errorf("count = %d", n)
	}
}

func TestAddPhotoAppendsAtEnd(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()
	env.photos.rows = []model.TribePhoto{
		{TribeUuid: tribe.Uuid, Url: "https://cdn.example.com/p0.png", Ord: 0},
	}

	err := env.svc.AddPhoto(context.Background(), ownerActor, tribe.Uuid, request.AddPhotoRequest{
		ActorId: "U_owner",
		Url:     "https://cdn.example.com/p1.png",
	})
	if err != nil {
		t.Fatal(err)
	}
	photos, _ := env.photos.FindByTribe(tribe.Uuid)
	if len(photos) != 2 || photos[1].Ord != 1 {
		t.Errorf("photos = %+v", photos)
	}
}

func TestRemovePhotoRepacksOrds(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()
	for i := 0; i < 3; i++ {
		env.photos.rows = append(env.photos.rows, model.TribePhoto{
			TribeUuid: tribe.Uuid,
			Url:       "https://cdn.example.com/p" + strconv.Itoa(i) + ".png",
			Ord:       i,
		})
	}

	err := env.svc.RemovePhoto(context.Background(), ownerActor, tribe.Uuid, request.RemovePhotoRequest{
		ActorId: "U_owner",
		Ord:     0,
	})
	if err != nil {
		t.Fatal(err)
	}

	photos, _ := env.photos.FindByTribe(tribe.Uuid)
	if len(photos) != 2 {
		t.Fatalf("photos = %+v", photos)
	}
	// 序号压实且相对顺序不变
	if photos[0].Ord != 0 || photos[0].Url != "https://cdn.example.com/p1.png" {
		t.Errorf("photos[0] = %+v", photos[0])
	}
	if photos[1].Ord != 1 || photos[1].Url != "https://cdn.example.com/p2.png" {
		t.Errorf("photos[1] = %+v", photos[1])
	}
}

func TestRemovePhotoMissingOrd(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.RemovePhoto(context.Background(), ownerActor, tribe.Uuid, request.RemovePhotoRequest{
		ActorId: "U_owner",
		Ord:     5,
	})
	if !errorx.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}

// ---- 进度 ----

func TestSetProgressionOverwrite(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()
	env.seedCatalog(model.CatalogBoss, "Broodmother")

	mark := func(done bool) error {
		return env.svc.SetProgression(context.Background(), ownerActor, tribe.Uuid, request.SetProgressionRequest{
			ActorId:  "U_owner",
			Category: model.ProgressionBoss,
			Name:     "Broodmother",
			Done:     done,
		})
	}
	if err := mark(true); err != nil {
		t.Fatal(err)
	}
	if err := mark(false); err != nil {
		t.Fatal(err)
	}

	// 同名条目只有一行，完成状态被改写而不是并存
	marks, _ := env.marks.FindByTribe(tribe.Uuid)
	if len(marks) != 1 || marks[0].Done {
		t.Errorf("marks = %+v", marks)
	}
}

func TestSetProgressionUnknownName(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.SetProgression(context.Background(), ownerActor, tribe.Uuid, request.SetProgressionRequest{
		ActorId:  "U_owner",
		Category: model.ProgressionBoss,
		Name:     "Inconnu",
		Done:     true,
	})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("err = %v, want invalid param", err)
	}
}

// ---- 转让与删除 ----

func TestTransferOwnershipRequiresMembership(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.TransferOwnership(context.Background(), ownerActor, tribe.Uuid, request.TransferOwnerRequest{
		ActorId:    "U_owner",
		NewOwnerId: "U_stranger",
	})
	if !errorx.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
	if env.tribes.tribes[tribe.Uuid].OwnerId != "U_owner" {
		t.Error("owner changed despite failed transfer")
	}
}

func TestTransferOwnership(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.TransferOwnership(context.Background(), ownerActor, tribe.Uuid, request.TransferOwnerRequest{
		ActorId:    "U_owner",
		NewOwnerId: "U_member",
	})
	if err != nil {
		t.Fatal(err)
	}
	if env.tribes.tribes[tribe.Uuid].OwnerId != "U_member" {
		t.Errorf("owner = %q", env.tribes.tribes[tribe.Uuid].OwnerId)
	}
	member, _ := env.members.FindByTribeAndUser(tribe.Uuid, "U_member")
	if !member.Manager {
		t.Error("new owner missing manager flag")
	}
}

func TestTransferOwnershipDeniedForManager(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.TransferOwnership(context.Background(), managerActor, tribe.Uuid, request.TransferOwnerRequest{
		ActorId:    "U_manager",
		NewOwnerId: "U_member",
	})
	if errorx.GetCode(err) != errorx.CodePermissionDenied {
		t.Errorf("err = %v, want permission denied", err)
	}
}

func TestDeleteTribeConfirmName(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.DeleteTribe(context.Background(), ownerActor, tribe.Uuid, request.DeleteTribeRequest{
		ActorId:     "U_owner",
		ConfirmName: "Les Dodos",
	})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("err = %v, want invalid param", err)
	}
	if _, ok := env.tribes.tribes[tribe.Uuid]; !ok {
		t.Error("tribe deleted despite bad confirmation")
	}
}

func TestDeleteTribeCascades(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()
	tribe.CardSurfaceId = "C1"
	tribe.CardMessageId = "M1"
	env.photos.rows = []model.TribePhoto{{TribeUuid: tribe.Uuid, Url: "https://cdn.example.com/p0.png"}}
	env.marks.rows = []model.ProgressionMark{{TribeUuid: tribe.Uuid, Category: model.ProgressionBoss, Name: "Broodmother"}}

	err := env.svc.DeleteTribe(context.Background(), ownerActor, tribe.Uuid, request.DeleteTribeRequest{
		ActorId:     "U_owner",
		ConfirmName: "Les Raptors",
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := env.tribes.tribes[tribe.Uuid]; ok {
		t.Error("tribe row still present")
	}
	if members, _ := env.members.FindByTribe(tribe.Uuid); len(members) != 0 {
		t.Errorf("members = %+v", members)
	}
	if photos, _ := env.photos.FindByTribe(tribe.Uuid); len(photos) != 0 {
		t.Errorf("photos = %+v", photos)
	}
	if marks, _ := env.marks.FindByTribe(tribe.Uuid); len(marks) != 0 {
		t.Errorf("marks = %+v", marks)
	}
	if len(env.history.rows) != 0 {
		t.Errorf("history = %+v", env.history.rows)
	}
	// 卡片消息也被撤下
	if len(env.surface.deleted) != 1 || env.surface.deleted[0] != "M1" {
		t.Errorf("deleted = %v", env.surface.deleted)
	}
}

func TestDeleteTribeDeniedForManager(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.DeleteTribe(context.Background(), managerActor, tribe.Uuid, request.DeleteTribeRequest{
		ActorId:     "U_manager",
		ConfirmName: "Les Raptors",
	})
	if errorx.GetCode(err) != errorx.CodePermissionDenied {
		t.Errorf("err = %v, want permission denied", err)
	}
}

// ---- 历史与查询 ----

func TestGetHistoryPaging(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()
	for i := 0; i < 25; i++ {
		env.history.Create(&model.HistoryEntry{
			TribeUuid: tribe.Uuid,
			UserId:    "U_owner",
			Action:    "update",
			Details:   "a modifié : entrée " + strconv.Itoa(i),
		})
	}

	page1, err := env.svc.GetHistory(tribe.Uuid, 1)
	if err != nil {
		t.Fatal(err)
	}
	if page1.Total != 25 || len(page1.Entries) != 20 {
		t.Errorf("page1: total = %d, entries = %d", page1.Total, len(page1.Entries))
	}
	if !strings.Contains(page1.Entries[0].Details, "entrée 24") {
		t.Errorf("newest entry = %+v", page1.Entries[0])
	}

	page2, err := env.svc.GetHistory(tribe.Uuid, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page2.Entries) != 5 {
		t.Errorf("page2 entries = %d", len(page2.Entries))
	}
}

func TestGetHistoryUnknownTribe(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.GetHistory("T_missing", 1); !errorx.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestGetTribeDetail(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()
	tribe.Motto = "Jamais sans mon ptéra"

	detail, err := env.svc.GetTribe(tribe.Uuid)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Name != "Les Raptors" || detail.Motto != "Jamais sans mon ptéra" {
		t.Errorf("detail = %+v", detail)
	}
	var ownerSeen bool
	for _, m := range detail.Members {
		if m.UserId == "U_owner" && m.Owner {
			ownerSeen = true
		}
	}
	if !ownerSeen {
		t.Error("owner not flagged in member list")
	}
}

func TestListTribes(t *testing.T) {
	env := newTestEnv()
	env.seedTribe()

	summaries, err := env.svc.ListTribes("G1")
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].MemberCnt != 3 {
		t.Errorf("summaries = %+v", summaries)
	}
}

func TestListMyTribes(t *testing.T) {
	env := newTestEnv()
	env.seedTribe()
	env.tribes.tribes["T00000000002"] = &model.Tribe{
		Uuid: "T00000000002", GuildId: "G1", Name: "Les Dodos", OwnerId: "U_other",
	}

	// 管理员：管理与加入的列表都包含其部落
	mine, err := env.svc.ListMyTribes("G1", "U_manager")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine.Managed) != 1 || mine.Managed[0].Name != "Les Raptors" {
		t.Errorf("managed = %+v", mine.Managed)
	}
	if len(mine.Joined) != 1 || mine.Joined[0].Name != "Les Raptors" {
		t.Errorf("joined = %+v", mine.Joined)
	}

	// 普通成员：加入但不管理
	mine, err = env.svc.ListMyTribes("G1", "U_member")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine.Managed) != 0 || len(mine.Joined) != 1 {
		t.Errorf("member view = %+v", mine)
	}

	// 路人：两个列表都为空
	mine, err = env.svc.ListMyTribes("G1", "U_stranger")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine.Managed) != 0 || len(mine.Joined) != 0 {
		t.Errorf("stranger view = %+v", mine)
	}
}

// ---- 卡片 ----

func TestPublishCardDenied(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.PublishCard(context.Background(), memberActor, tribe.Uuid, request.PublishCardRequest{
		ActorId:   "U_member",
		SurfaceId: "C1",
	})
	if errorx.GetCode(err) != errorx.CodePermissionDenied {
		t.Errorf("err = %v, want permission denied", err)
	}
	if len(env.surface.posted) != 0 {
		t.Error("card posted despite denial")
	}
}

func TestPublishCard(t *testing.T) {
	env := newTestEnv()
	tribe := env.seedTribe()

	err := env.svc.PublishCard(context.Background(), managerActor, tribe.Uuid, request.PublishCardRequest{
		ActorId:   "U_manager",
		SurfaceId: "C1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(env.surface.posted) != 1 || env.surface.posted[0] != "C1" {
		t.Errorf("posted = %v", env.surface.posted)
	}
	if !env.tribes.tribes[tribe.Uuid].HasCard() {
		t.Error("card pointer not persisted")
	}
}
