package card

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	customId := Encode("T12345678901", ActionMenu)
	ref, ok := Decode(customId)
	if !ok {
		t.Fatalf("Decode(%q) not ok", customId)
	}
	if ref.TribeUuid != "T12345678901" || ref.Action != ActionMenu || ref.Extra != "" {
		t.Errorf("Decode(%q) = %+v", customId, ref)
	}
}

func TestEncodeWithExtraRoundTrip(t *testing.T) {
	customId := EncodeWithExtra("T12345678901", ActionPhotoNext, "4")
	ref, ok := Decode(customId)
	if !ok {
		t.Fatalf("Decode(%q) not ok", customId)
	}
	if ref.TribeUuid != "T12345678901" || ref.Action != ActionPhotoNext || ref.Extra != "4" {
		t.Errorf("Decode(%q) = %+v", customId, ref)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name     string
		customId string
	}{
		{"foreign_subject", "poll:T12345678901:menu"},
		{"empty_string", ""},
		{"too_few_parts", "tribe:T12345678901"},
		{"too_many_parts", "tribe:T12345678901:menu:a:b"},
		{"empty_uuid", "tribe::menu"},
		{"empty_action", "tribe:T12345678901:"},
		{"no_separator", "tribe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ref, ok := Decode(tt.customId); ok {
				t.Errorf("Decode(%q) = %+v, want reject", tt.customId, ref)
			}
		})
	}
}

// 老卡片上的组件在进程重启后依然要能解析，
// 这里不借助 Encode，直接用字面量模拟历史消息里的 custom_id
func TestDecodeStaleCustomId(t *testing.T) {
	ref, ok := Decode("tribe:Tabcdefghijk:photo_prev:7")
	if !ok {
		t.Fatal("Decode not ok")
	}
	if ref.TribeUuid != "Tabcdefghijk" || ref.Action != "photo_prev" || ref.Extra != "7" {
		t.Errorf("Decode = %+v", ref)
	}
}
