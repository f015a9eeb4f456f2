package dispatch

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"tribe_card_server/internal/dto/respond"
	"tribe_card_server/internal/model"
	"tribe_card_server/internal/platform"
	"tribe_card_server/internal/service/card"
	"tribe_card_server/internal/service/permission"
	"tribe_card_server/pkg/errorx"
)

type recordingSurface struct {
	updates    []*platform.Document
	ephemerals []string
}

func (r *recordingSurface) PostMessage(ctx context.Context, channelId string, doc *platform.Document) (string, error) {
	return "M1", nil
}
func (r *recordingSurface) EditMessage(ctx context.Context, channelId, messageId string, doc *platform.Document) error {
	return nil
}
func (r *recordingSurface) DeleteMessage(ctx context.Context, channelId, messageId string) error {
	return nil
}
func (r *recordingSurface) RespondUpdate(ctx context.Context, interactionId, token string, doc *platform.Document) error {
	r.updates = append(r.updates, doc)
	return nil
}
func (r *recordingSurface) RespondEphemeral(ctx context.Context, interactionId, token, content string) error {
	r.ephemerals = append(r.ephemerals, content)
	return nil
}
func (r *recordingSurface) RespondDeferred(ctx context.Context, interactionId, token string) error {
	return nil
}

type fakeViews struct {
	tribe   *model.Tribe
	members []model.TribeMember
	photos  int
}

func (f *fakeViews) LoadView(tribeUuid string, photoIndex int) (*card.View, error) {
	if f.tribe == nil || f.tribe.Uuid != tribeUuid {
		return nil, errorx.New(errorx.CodeNotFound, "tribu introuvable")
	}
	view := &card.View{Tribe: f.tribe, Members: f.members, PhotoIndex: photoIndex}
	for i := 0; i < f.photos; i++ {
		view.Photos = append(view.Photos, model.TribePhoto{
			Url: "https://cdn.example.com/p" + strconv.Itoa(i) + ".png",
			Ord: i,
		})
	}
	return view, nil
}

type fakeTribeActions struct {
	removedActor  permission.Actor
	removedTarget string
	removeErr     error
	history       *respond.HistoryPageRespond
	historyErr    error
}

func (f *fakeTribeActions) RemoveMember(ctx context.Context, actor permission.Actor, tribeUuid, targetUserId string) error {
	f.removedActor = actor
	f.removedTarget = targetUserId
	return f.removeErr
}

func (f *fakeTribeActions) GetHistory(tribeUuid string, page int) (*respond.HistoryPageRespond, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func newTestDispatcher(photos int) (*Dispatcher, *recordingSurface, *fakeTribeActions) {
	surface := &recordingSurface{}
	views := &fakeViews{
		tribe: &model.Tribe{Uuid: "T00000000001", GuildId: "G1", Name: "Les Raptors", OwnerId: "U_owner"},
		members: []model.TribeMember{
			{TribeUuid: "T00000000001", UserId: "U_actor", Manager: true},
		},
		photos: photos,
	}
	actions := &fakeTribeActions{history: &respond.HistoryPageRespond{}}
	return NewDispatcher(surface, views, actions), surface, actions
}

func componentInteraction(customId string, values ...string) *platform.Interaction {
	return &platform.Interaction{
		Id:     "I1",
		Type:   platform.InteractionComponent,
		Token:  "tok",
		Member: &platform.Member{User: platform.User{Id: "U_actor"}},
		Data:   platform.InteractionData{CustomId: customId, Values: values},
	}
}

func footerOf(t *testing.T, doc *platform.Document) string {
	t.Helper()
	if len(doc.Embeds) != 1 || doc.Embeds[0].Footer == nil {
		t.Fatalf("doc has no footer: %+v", doc)
	}
	return doc.Embeds[0].Footer.Text
}

func TestCarouselNext(t *testing.T) {
	d, surface, _ := newTestDispatcher(3)

	interaction := componentInteraction(card.EncodeWithExtra("T00000000001", card.ActionPhotoNext, "0"))
	d.HandleInteraction(context.Background(), interaction)

	if len(surface.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(surface.updates))
	}
	if got := footerOf(t, surface.updates[0]); got != "Photo 2/3" {
		t.Errorf("footer = %q", got)
	}
}

func TestCarouselWrapsForward(t *testing.T) {
	d, surface, _ := newTestDispatcher(3)

	// 从最后一张继续向后翻，回到第一张
	interaction := componentInteraction(card.EncodeWithExtra("T00000000001", card.ActionPhotoNext, "2"))
	d.HandleInteraction(context.Background(), interaction)

	if got := footerOf(t, surface.updates[0]); got != "Photo 1/3" {
		t.Errorf("footer = %q", got)
	}
}

func TestCarouselWrapsBackward(t *testing.T) {
	d, surface, _ := newTestDispatcher(3)

	interaction := componentInteraction(card.EncodeWithExtra("T00000000001", card.ActionPhotoPrev, "0"))
	d.HandleInteraction(context.Background(), interaction)

	if got := footerOf(t, surface.updates[0]); got != "Photo 3/3" {
		t.Errorf("footer = %q", got)
	}
}

func TestCarouselFullCycle(t *testing.T) {
	d, surface, _ := newTestDispatcher(4)

	// 连续向后翻相册长度次，footer 回到起点
	ordinal := 0
	for i := 0; i < 4; i++ {
		interaction := componentInteraction(
			card.EncodeWithExtra("T00000000001", card.ActionPhotoNext, strconv.Itoa(ordinal)))
		d.HandleInteraction(context.Background(), interaction)
		ordinal = (ordinal + 1) % 4
	}

	if len(surface.updates) != 4 {
		t.Fatalf("updates = %d", len(surface.updates))
	}
	if got := footerOf(t, surface.updates[3]); got != "Photo 1/4" {
		t.Errorf("footer after full cycle = %q", got)
	}
}

func TestCarouselEmptyAlbum(t *testing.T) {
	d, surface, _ := newTestDispatcher(0)

	interaction := componentInteraction(card.EncodeWithExtra("T00000000001", card.ActionPhotoNext, "0"))
	d.HandleInteraction(context.Background(), interaction)

	if len(surface.updates) != 0 {
		t.Errorf("updates = %d, want none", len(surface.updates))
	}
	if len(surface.ephemerals) != 1 || surface.ephemerals[0] != "L'album de cette tribu est vide." {
		t.Errorf("ephemerals = %v", surface.ephemerals)
	}
}

func TestCarouselBadOrdinalFallsBack(t *testing.T) {
	d, surface, _ := newTestDispatcher(3)

	interaction := componentInteraction(card.EncodeWithExtra("T00000000001", card.ActionPhotoNext, "garbage"))
	d.HandleInteraction(context.Background(), interaction)

	if got := footerOf(t, surface.updates[0]); got != "Photo 2/3" {
		t.Errorf("footer = %q", got)
	}
}

func TestCarouselVanishedTribe(t *testing.T) {
	d, surface, _ := newTestDispatcher(3)

	interaction := componentInteraction(card.EncodeWithExtra("T_gone", card.ActionPhotoNext, "0"))
	d.HandleInteraction(context.Background(), interaction)

	if len(surface.ephemerals) != 1 || surface.ephemerals[0] != "Cette tribu n'existe plus." {
		t.Errorf("ephemerals = %v", surface.ephemerals)
	}
}

func TestIgnoresForeignCustomId(t *testing.T) {
	d, surface, _ := newTestDispatcher(3)

	d.HandleInteraction(context.Background(), componentInteraction("poll:P1:vote"))
	d.HandleInteraction(context.Background(), componentInteraction("not-a-custom-id"))

	if len(surface.updates) != 0 || len(surface.ephemerals) != 0 {
		t.Errorf("updates = %v, ephemerals = %v, want silence", surface.updates, surface.ephemerals)
	}
}

func TestIgnoresNonComponentInteraction(t *testing.T) {
	d, surface, _ := newTestDispatcher(3)

	interaction := componentInteraction(card.Encode("T00000000001", card.ActionMenu), card.MenuLeave)
	interaction.Type = platform.InteractionCommand
	d.HandleInteraction(context.Background(), interaction)

	if len(surface.updates) != 0 || len(surface.ephemerals) != 0 {
		t.Error("command interaction must not be dispatched")
	}
}

func TestMenuLeave(t *testing.T) {
	d, surface, actions := newTestDispatcher(0)

	interaction := componentInteraction(card.Encode("T00000000001", card.ActionMenu), card.MenuLeave)
	d.HandleInteraction(context.Background(), interaction)

	if actions.removedTarget != "U_actor" || actions.removedActor.UserId != "U_actor" {
		t.Errorf("removed %q by %+v, want self-leave", actions.removedTarget, actions.removedActor)
	}
	if actions.removedActor.Staff {
		t.Error("actor without permission bits marked as staff")
	}
	if len(surface.ephemerals) != 1 || surface.ephemerals[0] != "Tu as quitté la tribu." {
		t.Errorf("ephemerals = %v", surface.ephemerals)
	}
}

func TestMenuLeaveStaffBit(t *testing.T) {
	d, _, actions := newTestDispatcher(0)

	interaction := componentInteraction(card.Encode("T00000000001", card.ActionMenu), card.MenuLeave)
	interaction.Member.Permissions = "8"
	d.HandleInteraction(context.Background(), interaction)

	if !actions.removedActor.Staff {
		t.Error("administrator permission bit not carried to the actor")
	}
}

func TestMenuLeaveConflict(t *testing.T) {
	d, surface, actions := newTestDispatcher(0)
	actions.removeErr = errorx.New(errorx.CodeConflict, "le référent doit d'abord transférer la tribu")

	interaction := componentInteraction(card.Encode("T00000000001", card.ActionMenu), card.MenuLeave)
	d.HandleInteraction(context.Background(), interaction)

	if len(surface.ephemerals) != 1 {
		t.Fatalf("ephemerals = %v", surface.ephemerals)
	}
	if !strings.HasPrefix(surface.ephemerals[0], "Action impossible :") {
		t.Errorf("message = %q", surface.ephemerals[0])
	}
}

func TestMenuLeaveDenied(t *testing.T) {
	d, surface, actions := newTestDispatcher(0)
	actions.removeErr = errorx.ErrPermissionDenied

	interaction := componentInteraction(card.Encode("T00000000001", card.ActionMenu), card.MenuLeave)
	d.HandleInteraction(context.Background(), interaction)

	if len(surface.ephemerals) != 1 || surface.ephemerals[0] != "Tu n'as pas la permission de faire ça." {
		t.Errorf("ephemerals = %v", surface.ephemerals)
	}
}

func TestMenuHistory(t *testing.T) {
	d, surface, actions := newTestDispatcher(0)
	actions.history = &respond.HistoryPageRespond{
		Total: 2,
		Entries: []respond.HistoryEntryRespond{
			{UserId: "U_a", Details: "a modifié : devise", CreatedAt: "2026-08-27 10:00"},
			{UserId: "U_b", Details: "a créé la tribu", CreatedAt: "2026-08-26 18:30"},
		},
	}

	interaction := componentInteraction(card.Encode("T00000000001", card.ActionMenu), card.MenuHistory)
	d.HandleInteraction(context.Background(), interaction)

	if len(surface.ephemerals) != 1 {
		t.Fatalf("ephemerals = %v", surface.ephemerals)
	}
	msg := surface.ephemerals[0]
	if !strings.Contains(msg, "**Historique** (2 au total)") {
		t.Errorf("header missing: %q", msg)
	}
	if !strings.Contains(msg, "<@U_a> a modifié : devise") {
		t.Errorf("entry missing: %q", msg)
	}
}

func TestMenuHistoryEmpty(t *testing.T) {
	d, surface, _ := newTestDispatcher(0)

	interaction := componentInteraction(card.Encode("T00000000001", card.ActionMenu), card.MenuHistory)
	d.HandleInteraction(context.Background(), interaction)

	if len(surface.ephemerals) != 1 || surface.ephemerals[0] != "Aucune modification enregistrée." {
		t.Errorf("ephemerals = %v", surface.ephemerals)
	}
}

func TestMenuHistoryDeniedToOutsider(t *testing.T) {
	d, surface, _ := newTestDispatcher(0)

	// 既非成员也非工作人员，历史记录不可见
	interaction := componentInteraction(card.Encode("T00000000001", card.ActionMenu), card.MenuHistory)
	interaction.Member.User.Id = "U_stranger"
	d.HandleInteraction(context.Background(), interaction)

	if len(surface.ephemerals) != 1 || surface.ephemerals[0] != "Tu n'as pas la permission de faire ça." {
		t.Errorf("ephemerals = %v", surface.ephemerals)
	}
}

func TestMenuDeleteGuidance(t *testing.T) {
	d, surface, _ := newTestDispatcher(0)

	interaction := componentInteraction(card.Encode("T00000000001", card.ActionMenu), card.MenuDelete)
	d.HandleInteraction(context.Background(), interaction)

	if len(surface.ephemerals) != 1 || !strings.Contains(surface.ephemerals[0], "nom exact") {
		t.Errorf("ephemerals = %v", surface.ephemerals)
	}
}

func TestMenuNoValues(t *testing.T) {
	d, surface, _ := newTestDispatcher(0)

	interaction := componentInteraction(card.Encode("T00000000001", card.ActionMenu))
	d.HandleInteraction(context.Background(), interaction)

	if len(surface.ephemerals) != 0 || len(surface.updates) != 0 {
		t.Error("empty selection must be ignored")
	}
}
