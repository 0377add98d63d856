package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// dialogsPerPage is the inline page size of the stalk selection panel
const dialogsPerPage = 8

func replyRows(labels [][]string) [][]models.KeyboardButton {
	rows := make([][]models.KeyboardButton, 0, len(labels))
	for _, row := range labels {
		buttons := make([]models.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, models.KeyboardButton{Text: label})
		}
		rows = append(rows, buttons)
	}
	return rows
}

// mainKeyboard is the persistent reply keyboard of the main menu.
func mainKeyboard(lang string, isAdmin bool) *models.ReplyKeyboardMarkup {
	var rows [][]string
	if lang == "en" {
		rows = [][]string{
			{btnOSINTEn, btnStalkEn},
			{btnCleanupEn, btnProfileEn},
			{btnLoginEn, btnHelpEn},
		}
		if isAdmin {
			rows = append(rows, []string{btnAdminEn})
		}
	} else {
		rows = [][]string{
			{btnOSINTFa, btnStalkFa},
			{btnCleanupFa, btnProfileFa},
			{btnLoginFa, btnHelpFa},
		}
		if isAdmin {
			rows = append(rows, []string{btnAdminFa})
		}
	}
	return &models.ReplyKeyboardMarkup{
		Keyboard:       replyRows(rows),
		ResizeKeyboard: true,
	}
}

func backKeyboard(lang string) *models.ReplyKeyboardMarkup {
	label := btnBackFa
	if lang == "en" {
		label = btnBackEn
	}
	return &models.ReplyKeyboardMarkup{
		Keyboard:       replyRows([][]string{{label}}),
		ResizeKeyboard: true,
	}
}

func adminKeyboard(lang string) *models.ReplyKeyboardMarkup {
	var rows [][]string
	if lang == "en" {
		rows = [][]string{
			{btnAddCreditsEn, btnSetCreditsEn},
			{btnLookupEn, btnBanEn},
			{btnUnbanEn, btnBroadcastEn},
			{btnBackEn},
		}
	} else {
		rows = [][]string{
			{btnAddCreditsFa, btnSetCreditsFa},
			{btnLookupFa, btnBanFa},
			{btnUnbanFa, btnBroadcastFa},
			{btnBackFa},
		}
	}
	return &models.ReplyKeyboardMarkup{
		Keyboard:       replyRows(rows),
		ResizeKeyboard: true,
	}
}

// dialogsKeyboard pages the stalk selection list, one dialog per row plus
// navigation arrows and a back button.
func dialogsKeyboard(items []domain.DialogSummary, page int) *models.InlineKeyboardMarkup {
	start := page * dialogsPerPage
	if start > len(items) {
		start = len(items)
	}
	end := start + dialogsPerPage
	if end > len(items) {
		end = len(items)
	}

	rows := make([][]models.InlineKeyboardButton, 0, dialogsPerPage+2)
	for _, d := range items[start:end] {
		title := d.Title
		if len([]rune(title)) > 30 {
			title = string([]rune(title)[:30])
		}
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("📂 %s (%d)", title, d.Matched),
			CallbackData: fmt.Sprintf("grp_%d", d.ID),
		}})
	}

	var nav []models.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, models.InlineKeyboardButton{
			Text:         "⬅️",
			CallbackData: fmt.Sprintf("gpage_%d", page-1),
		})
	}
	if end < len(items) {
		nav = append(nav, models.InlineKeyboardButton{
			Text:         "➡️",
			CallbackData: fmt.Sprintf("gpage_%d", page+1),
		})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, []models.InlineKeyboardButton{{Text: "🔙", CallbackData: "back_main"}})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func ethicalKeyboard(lang string) *models.InlineKeyboardMarkup {
	yes, no := "✅ موافقم", "❌ مخالفم"
	if lang == "en" {
		yes, no = "✅ Agree", "❌ No"
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{{
		{Text: yes, CallbackData: "eth_y"},
		{Text: no, CallbackData: "eth_n"},
	}}}
}

func cleanupKeyboard(lang string) *models.InlineKeyboardMarkup {
	scan, del := "📊 اسکن", "🗑️ حذف همه"
	if lang == "en" {
		scan, del = "📊 Scan", "🗑️ Delete All"
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{{
		{Text: scan, CallbackData: "cl_dry"},
		{Text: del, CallbackData: "cl_real"},
	}}}
}

func confirmKeyboard(lang string) *models.InlineKeyboardMarkup {
	yes, no := "✅ بله، حذف کن!", "❌ انصراف"
	if lang == "en" {
		yes, no = "✅ Yes, Delete!", "❌ Cancel"
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{{
		{Text: yes, CallbackData: "cf_y"},
		{Text: no, CallbackData: "cf_n"},
	}}}
}
