package permission

import (
	"testing"

	"tribe_card_server/internal/model"
)

func sampleTribe() *model.Tribe {
	return &model.Tribe{Uuid: "T00000000001", GuildId: "G1", Name: "Les Raptors", OwnerId: "U_owner"}
}

func sampleMembers() []model.TribeMember {
	return []model.TribeMember{
		{TribeUuid: "T00000000001", UserId: "U_owner", Manager: true},
		{TribeUuid: "T00000000001", UserId: "U_manager", Manager: true},
		{TribeUuid: "T00000000001", UserId: "U_member", Manager: false},
	}
}

func TestResolvePrecedence(t *testing.T) {
	tribe := sampleTribe()
	members := sampleMembers()

	tests := []struct {
		name  string
		actor Actor
		want  Level
	}{
		{"staff", Actor{UserId: "U_stranger", Staff: true}, PlatformStaff},
		{"staff_overrides_owner", Actor{UserId: "U_owner", Staff: true}, PlatformStaff},
		{"owner", Actor{UserId: "U_owner"}, Owner},
		{"manager", Actor{UserId: "U_manager"}, Manager},
		{"plain_member", Actor{UserId: "U_member"}, None},
		{"stranger", Actor{UserId: "U_stranger"}, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.actor, tribe, members); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveNilTribe(t *testing.T) {
	if got := Resolve(Actor{UserId: "U_owner"}, nil, nil); got != None {
		t.Errorf("Resolve() = %v, want None", got)
	}
}

func TestCanEdit(t *testing.T) {
	if None.CanEdit() {
		t.Error("None.CanEdit() = true")
	}
	for _, l := range []Level{Manager, Owner, PlatformStaff} {
		if !l.CanEdit() {
			t.Errorf("%v.CanEdit() = false", l)
		}
	}
}

func TestCanAdminister(t *testing.T) {
	for _, l := range []Level{None, Manager} {
		if l.CanAdminister() {
			t.Errorf("%v.CanAdminister() = true", l)
		}
	}
	for _, l := range []Level{Owner, PlatformStaff} {
		if !l.CanAdminister() {
			t.Errorf("%v.CanAdminister() = false", l)
		}
	}
}

func TestLevelString(t *testing.T) {
	tests := map[Level]string{
		None:          "none",
		Manager:       "manager",
		Owner:         "owner",
		PlatformStaff: "staff",
	}
	for level, want := range tests {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}
