// Package card 负责部落卡片的渲染与生命周期管理
// 本文件实现卡片文档的纯函数渲染：同样的输入永远得到同样的文档
package card

import (
	"fmt"
	"strconv"
	"strings"

	"tribe_card_server/internal/model"
	"tribe_card_server/internal/platform"
	"tribe_card_server/pkg/constants"
)

// View 渲染一张卡片所需的全部数据快照
type View struct {
	Tribe      *model.Tribe
	Members    []model.TribeMember
	Outposts   []model.Outpost
	Photos     []model.TribePhoto
	Marks      []model.ProgressionMark
	PhotoIndex int
}

// Render 将部落数据快照渲染为消息文档
// 不做任何 IO，轮播序号越界时按相册长度取模归一
func Render(view *View) *platform.Document {
	tribe := view.Tribe

	embed := platform.Embed{
		Title: "🏕️ Tribu — " + tribe.Name,
		Color: tribe.Color,
	}

	embed.Description = buildDescription(tribe)

	logo := tribe.LogoUrl
	if logo == "" {
		logo = constants.DEFAULT_LOGO_URL
	}
	embed.Thumbnail = &platform.EmbedImage{Url: logo}

	photoIndex := normalizeIndex(view.PhotoIndex, len(view.Photos))
	if len(view.Photos) > 0 {
		embed.Image = &platform.EmbedImage{Url: view.Photos[photoIndex].Url}
		embed.Footer = &platform.EmbedFooter{
			Text: fmt.Sprintf("Photo %d/%d", photoIndex+1, len(view.Photos)),
		}
	}

	embed.Fields = buildFields(view)

	return &platform.Document{
		Embeds:     []platform.Embed{embed},
		Components: buildComponents(tribe.Uuid, photoIndex),
	}
}

// normalizeIndex 将轮播序号归一到 [0, count)
func normalizeIndex(index, count int) int {
	if count <= 0 {
		return 0
	}
	index %= count
	if index < 0 {
		index += count
	}
	return index
}

// buildDescription 组装描述区：简介加斜体格言
func buildDescription(tribe *model.Tribe) string {
	var parts []string
	if tribe.Description != "" {
		parts = append(parts, tribe.Description)
	}
	if tribe.Motto != "" {
		parts = append(parts, "*« "+tribe.Motto+" »*")
	}
	return clampSection(strings.Join(parts, "\n\n"))
}

// buildFields 按固定顺序组装卡片分区，空分区不输出
func buildFields(view *View) []platform.EmbedField {
	tribe := view.Tribe
	var fields []platform.EmbedField

	if roster := buildRoster(tribe, view.Members); roster != "" {
		fields = append(fields, platform.EmbedField{
			Name:  fmt.Sprintf("👥 Membres (%d)", len(view.Members)),
			Value: clampSection(roster),
		})
	}

	if tribe.BaseMap != "" {
		base := tribe.BaseMap
		if tribe.BaseCoords != "" {
			base += " — `" + tribe.BaseCoords + "`"
		}
		fields = append(fields, platform.EmbedField{
			Name:  "🗺️ Base principale",
			Value: clampSection(base),
		})
	}

	if len(view.Outposts) > 0 {
		var lines []string
		for _, o := range view.Outposts {
			line := "• " + o.MapName
			if o.Coords != "" {
				line += " — `" + o.Coords + "`"
			}
			lines = append(lines, line)
		}
		fields = append(fields, platform.EmbedField{
			Name:  "⛺ Avant-postes",
			Value: clampSection(strings.Join(lines, "\n")),
		})
	}

	if tribe.Objective != "" {
		fields = append(fields, platform.EmbedField{
			Name:  "🎯 Objectif",
			Value: clampSection(tribe.Objective),
		})
	}

	if tribe.Recruiting != nil {
		value := "Fermé ❌"
		if *tribe.Recruiting {
			value = "Ouvert ✅"
		}
		fields = append(fields, platform.EmbedField{
			Name:   "📢 Recrutement",
			Value:  value,
			Inline: true,
		})
	}

	if bosses := buildMarks(view.Marks, model.ProgressionBoss); bosses != "" {
		fields = append(fields, platform.EmbedField{
			Name:  "🐉 Boss",
			Value: clampSection(bosses),
		})
	}

	if notes := buildMarks(view.Marks, model.ProgressionNote); notes != "" {
		fields = append(fields, platform.EmbedField{
			Name:  "📜 Notes d'explorateur",
			Value: clampSection(notes),
		})
	}

	return fields
}

// buildRoster 组装成员名单，所有者永远排第一行
func buildRoster(tribe *model.Tribe, members []model.TribeMember) string {
	var lines []string

	appendLine := func(prefix string, m *model.TribeMember) {
		line := prefix + " <@" + m.UserId + ">"
		if m.InGameName != "" {
			line += " — " + m.InGameName
		}
		if m.RoleLabel != "" {
			line += " (" + m.RoleLabel + ")"
		}
		lines = append(lines, line)
	}

	// 所有者行，成员表中可能没有对应行
	var ownerRow *model.TribeMember
	for i := range members {
		if members[i].UserId == tribe.OwnerId {
			ownerRow = &members[i]
			break
		}
	}
	if ownerRow != nil {
		line := "👑 <@" + tribe.OwnerId + ">"
		if ownerRow.InGameName != "" {
			line += " — " + ownerRow.InGameName
		}
		line += " (Référent)"
		lines = append(lines, line)
	} else if tribe.OwnerId != "" {
		lines = append(lines, "👑 <@"+tribe.OwnerId+"> (Référent)")
	}

	for i := range members {
		m := &members[i]
		if m.UserId == tribe.OwnerId {
			continue
		}
		if m.Manager {
			appendLine("🛡️", m)
		} else {
			appendLine("•", m)
		}
	}

	return strings.Join(lines, "\n")
}

// buildMarks 组装某一类进度标记，未记录过的条目不出现
func buildMarks(marks []model.ProgressionMark, category int8) string {
	var lines []string
	for _, m := range marks {
		if m.Category != category {
			continue
		}
		if m.Done {
			lines = append(lines, "✅ "+m.Name)
		} else {
			lines = append(lines, "❌ "+m.Name)
		}
	}
	return strings.Join(lines, "\n")
}

// buildComponents 组装轮播按钮与操作菜单
// 轮播按钮的 custom_id 携带当前序号，点击时依此计算相邻照片
func buildComponents(tribeUuid string, photoIndex int) []platform.ActionRow {
	ordinal := strconv.Itoa(photoIndex)

	carousel := platform.NewButtonRow(
		platform.Component{
			Type:     platform.ComponentButton,
			Style:    platform.ButtonSecondary,
			Label:    "Précédente",
			Emoji:    &platform.Emoji{Name: "◀️"},
			CustomId: EncodeWithExtra(tribeUuid, ActionPhotoPrev, ordinal),
		},
		platform.Component{
			Type:     platform.ComponentButton,
			Style:    platform.ButtonSecondary,
			Label:    "Suivante",
			Emoji:    &platform.Emoji{Name: "▶️"},
			CustomId: EncodeWithExtra(tribeUuid, ActionPhotoNext, ordinal),
		},
	)

	menu := platform.NewSelectRow(platform.Component{
		Type:        platform.ComponentSelectMenu,
		CustomId:    Encode(tribeUuid, ActionMenu),
		Placeholder: "Actions de la tribu",
		Options: []platform.SelectOption{
			{
				Label:       "Quitter la tribu",
				Value:       MenuLeave,
				Description: "Se retirer de la liste des membres",
				Emoji:       &platform.Emoji{Name: "🚪"},
			},
			{
				Label:       "Historique",
				Value:       MenuHistory,
				Description: "Voir les dernières modifications",
				Emoji:       &platform.Emoji{Name: "📜"},
			},
			{
				Label:       "Supprimer la tribu",
				Value:       MenuDelete,
				Description: "Réservé au référent",
				Emoji:       &platform.Emoji{Name: "🗑️"},
			},
		},
	})

	return []platform.ActionRow{carousel, menu}
}

// clampSection 将分区内容截断到平台上限
func clampSection(s string) string {
	if len(s) <= constants.EMBED_SECTION_MAX {
		return s
	}
	cut := constants.EMBED_SECTION_MAX - 1
	for cut > 0 && !utf8Start(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

// utf8Start 判断字节是否为 UTF-8 序列首字节
func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
