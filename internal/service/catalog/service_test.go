package catalog

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"tribe_card_server/internal/dao/mysql/repository"
	"tribe_card_server/internal/dto/request"
	"tribe_card_server/internal/model"
	"tribe_card_server/pkg/errorx"
)

type memCatalogRepo struct{ entries map[string]bool }

func key(guildId string, kind int8, name string) string {
	return guildId + "|" + strconv.Itoa(int(kind)) + "|" + name
}

func (m *memCatalogRepo) FindNames(guildIds []string, kind int8) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for k := range m.entries {
		parts := strings.SplitN(k, "|", 3)
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
	return m.entries[key(guildId, kind, name)], nil
}
func (m *memCatalogRepo) Create(entry *model.CatalogEntry) error {
	m.entries[key(entry.GuildId, entry.Kind, entry.Name)] = true
	return nil
}
func (m *memCatalogRepo) Delete(guildId string, kind int8, name string) (int64, error) {
	k := key(guildId, kind, name)
	if m.entries[k] {
		delete(m.entries, k)
		return 1, nil
	}
	return 0, nil
}

type memConfigRepo struct{ values map[string]string }

func (m *memConfigRepo) FindValue(guildId, cfgKey string) (string, error) {
	if v, ok := m.values[guildId+"|"+cfgKey]; ok {
		return v, nil
	}
	return "", errorx.New(errorx.CodeNotFound, "配置不存在")
}
func (m *memConfigRepo) Set(guildId, cfgKey, value string) error {
	m.values[guildId+"|"+cfgKey] = value
	return nil
}

type fakeCache struct{ store map[string]string }

func (f *fakeCache) Set(ctx context.Context, k, value string, ttl time.Duration) error {
	f.store[k] = value
	return nil
}
func (f *fakeCache) Get(ctx context.Context, k string) (string, error) { return f.store[k], nil }
func (f *fakeCache) GetOrError(ctx context.Context, k string) (string, error) {
	if v, ok := f.store[k]; ok {
		return v, nil
	}
	return "", errorx.New(errorx.CodeNotFound, "键不存在")
}
func (f *fakeCache) Delete(ctx context.Context, k string) error {
	delete(f.store, k)
	return nil
}
func (f *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	// 通配只出现在前缀式的模式里，测试替身按前后缀匹配即可
	star := strings.Index(pattern, "*")
	if star < 0 {
		delete(f.store, pattern)
		return nil
	}
	prefix, suffix := pattern[:star], pattern[star+1:]
	for k := range f.store {
		if strings.HasPrefix(k, prefix) && strings.HasSuffix(k, suffix) {
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

func newTestCatalog() (*catalogService, *memCatalogRepo, *memConfigRepo) {
	catalogRepo := &memCatalogRepo{entries: map[string]bool{}}
	configRepo := &memConfigRepo{values: map[string]string{}}
	repos := &repository.Repositories{
		Catalog: catalogRepo,
		Config:  configRepo,
	}
	return NewCatalogService(repos, &fakeCache{store: map[string]string{}}), catalogRepo, configRepo
}

func TestListNamesMergesGlobalLayer(t *testing.T) {
	svc, repo, _ := newTestCatalog()
	repo.entries[key("0", model.CatalogMap, "The Island")] = true
	repo.entries[key("0", model.CatalogMap, "Ragnarok")] = true
	repo.entries[key("G1", model.CatalogMap, "Aberration")] = true
	repo.entries[key("G2", model.CatalogMap, "Extinction")] = true // 其他 guild 不可见
	repo.entries[key("G1", model.CatalogBoss, "Broodmother")] = true

	names, err := svc.ListNames("G1", model.CatalogMap)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(names, ",") != "Aberration,Ragnarok,The Island" {
		t.Errorf("names = %v", names)
	}
}

func TestListNamesCaches(t *testing.T) {
	svc, repo, _ := newTestCatalog()
	repo.entries[key("G1", model.CatalogMap, "The Island")] = true

	if _, err := svc.ListNames("G1", model.CatalogMap); err != nil {
		t.Fatal(err)
	}

	// 绕过服务直接改库，缓存命中时看不到变化
	repo.entries[key("G1", model.CatalogMap, "Ragnarok")] = true
	names, err := svc.ListNames("G1", model.CatalogMap)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 {
		t.Errorf("names = %v, want cached single entry", names)
	}
}

func TestAddEntryInvalidatesCache(t *testing.T) {
	svc, repo, _ := newTestCatalog()
	repo.entries[key("G1", model.CatalogMap, "The Island")] = true

	if _, err := svc.ListNames("G1", model.CatalogMap); err != nil {
		t.Fatal(err)
	}

	err := svc.AddEntry(request.CatalogEntryRequest{
		GuildId: "G1", Kind: model.CatalogMap, Name: "Ragnarok",
	})
	if err != nil {
		t.Fatal(err)
	}

	names, err := svc.ListNames("G1", model.CatalogMap)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Errorf("names = %v, want refreshed list", names)
	}
}

func TestAddEntryDuplicate(t *testing.T) {
	svc, repo, _ := newTestCatalog()
	repo.entries[key("G1", model.CatalogBoss, "Broodmother")] = true

	err := svc.AddEntry(request.CatalogEntryRequest{
		GuildId: "G1", Kind: model.CatalogBoss, Name: "Broodmother",
	})
	if !errorx.IsConflict(err) {
		t.Errorf("err = %v, want conflict", err)
	}
}

func TestRemoveEntryMissing(t *testing.T) {
	svc, _, _ := newTestCatalog()

	err := svc.RemoveEntry(request.CatalogEntryRequest{
		GuildId: "G1", Kind: model.CatalogBoss, Name: "Inconnu",
	})
	if !errorx.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestRemoveEntryLeavesGlobalLayer(t *testing.T) {
	svc, repo, _ := newTestCatalog()
	repo.entries[key("0", model.CatalogMap, "The Island")] = true

	// guild 层没有这一条，全局层不受本 guild 的删除影响
	err := svc.RemoveEntry(request.CatalogEntryRequest{
		GuildId: "G1", Kind: model.CatalogMap, Name: "The Island",
	})
	if !errorx.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
	if ok, _ := repo.Exists("0", model.CatalogMap, "The Island"); !ok {
		t.Error("global entry removed")
	}
}

func TestAutocomplete(t *testing.T) {
	svc, repo, _ := newTestCatalog()
	repo.entries[key("0", model.CatalogMap, "The Island")] = true
	repo.entries[key("0", model.CatalogMap, "Ragnarok")] = true
	repo.entries[key("0", model.CatalogMap, "The Center")] = true

	matched, err := svc.Autocomplete("G1", model.CatalogMap, "the")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(matched, ",") != "The Center,The Island" {
		t.Errorf("matched = %v", matched)
	}

	all, err := svc.Autocomplete("G1", model.CatalogMap, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("all = %v", all)
	}
}

func TestAutocompleteCap(t *testing.T) {
	svc, repo, _ := newTestCatalog()
	for i := 0; i < 40; i++ {
		repo.entries[key("0", model.CatalogNote, "Note #"+strconv.Itoa(i))] = true
	}

	matched, err := svc.Autocomplete("G1", model.CatalogNote, "note")
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 25 {
		t.Errorf("matched = %d, want platform cap", len(matched))
	}
}

func TestGetConfigFallback(t *testing.T) {
	svc, _, configs := newTestCatalog()
	configs.values["0|card_channel"] = "C_global"

	value, err := svc.GetConfig("G1", "card_channel")
	if err != nil || value != "C_global" {
		t.Errorf("value = %q, err = %v", value, err)
	}

	configs.values["G1|card_channel"] = "C_guild"
	value, err = svc.GetConfig("G1", "card_channel")
	if err != nil || value != "C_guild" {
		t.Errorf("value = %q, err = %v", value, err)
	}

	if _, err := svc.GetConfig("G1", "autre_cle"); !errorx.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestSetConfig(t *testing.T) {
	svc, _, configs := newTestCatalog()

	err := svc.SetConfig(request.SetGuildConfigRequest{
		GuildId: "G1", Key: "card_channel", Value: "C1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if configs.values["G1|card_channel"] != "C1" {
		t.Errorf("values = %v", configs.values)
	}
}
