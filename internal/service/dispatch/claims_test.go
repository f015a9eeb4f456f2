package dispatch

import (
	"context"
	"testing"

	"tribe_card_server/internal/service/card"
)

func TestClaimOnce(t *testing.T) {
	claims := NewClaimRegistry()

	if !claims.Claim("I1") {
		t.Fatal("first claim refused")
	}
	if claims.Claim("I1") {
		t.Error("double claim accepted")
	}
	if !claims.Claimed("I1") {
		t.Error("claim not visible")
	}
}

func TestReleaseAllowsReclaim(t *testing.T) {
	claims := NewClaimRegistry()

	claims.Claim("I1")
	claims.Release("I1")

	if claims.Claimed("I1") {
		t.Error("claim survived release")
	}
	if !claims.Claim("I1") {
		t.Error("reclaim refused after release")
	}
}

func TestClaimedInteractionNotDispatched(t *testing.T) {
	d, surface, actions := newTestDispatcher(3)

	// 模态等同周期处理器抢先认领，调度器不得插手
	d.Claims().Claim("I1")

	d.HandleInteraction(context.Background(), componentInteraction(
		card.EncodeWithExtra("T00000000001", card.ActionPhotoNext, "0")))

	if len(surface.updates) != 0 || len(surface.ephemerals) != 0 {
		t.Errorf("surface touched: updates=%d ephemerals=%d",
			len(surface.updates), len(surface.ephemerals))
	}
	if actions.removedTarget != "" {
		t.Error("action invoked on claimed interaction")
	}
}

func TestUnclaimedInteractionDispatched(t *testing.T) {
	d, surface, _ := newTestDispatcher(3)

	d.Claims().Claim("I_other")

	d.HandleInteraction(context.Background(), componentInteraction(
		card.EncodeWithExtra("T00000000001", card.ActionPhotoNext, "0")))

	if len(surface.updates) != 1 {
		t.Errorf("updates = %d, want 1", len(surface.updates))
	}
}
