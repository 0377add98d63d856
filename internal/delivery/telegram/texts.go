package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// texts holds the static localized copy. Formatted messages are built by the
// functions below; HTML parse mode is assumed throughout.
var texts = map[string]map[string]string{
	"fa": {
		"no_credit":     "❌ <b>اعتبار تمام شده!</b>\n\nبرای دریافت اعتبار با پشتیبانی تماس بگیرید.",
		"osint_ask":     "🔍 <b>جستجوی OSINT</b>\n\n@username یا آیدی عددی هدف رو بفرستید:",
		"stalk_ask":     "👁 <b>استاک</b>\n\n@username یا آیدی عددی هدف رو بفرستید:\n\n⚠️ نیاز به لاگین (📱 ورود)",
		"clean_info":    "🧹 <b>پاکسازی</b>\n\n⚠️ فقط پیام‌های خودتان\n⚠️ برگشت‌ناپذیر\n\nاول 📱 ورود بزنید",
		"phone_ask":     "📱 شماره با کد کشور:\n<code>+989121234567</code>\n\n🔐 رمزنگاری AES-256\n⏰ حذف ۲۴ ساعته",
		"code_ask":      "📨 کد تأیید رو بفرستید:",
		"2fa_ask":       "🔐 رمز دوم (2FA):",
		"login_ok":      "✅ ورود موفق!",
		"logout_ok":     "✅ خارج شدید.",
		"not_logged":    "❌ ابتدا 📱 ورود بزنید",
		"ethical":       "⚠️ <b>هشدار</b>\n\n• فقط داده خودتان\n• جاسوسی غیرقانونیه\n• مسئولیت با شماست\n\nموافقید؟",
		"processing":    "⏳ صبر کنید...",
		"banned":        "🚫 حساب شما مسدود شده.\nبا پشتیبانی تماس بگیرید.",
		"no_msgs":       "💬 پیامی یافت نشد.",
		"confirm":       "⚠️ مطمئنید؟ برگشت‌ناپذیره!",
		"a_credit_ask":  "💎 بفرستید:\n<code>آیدی تعداد</code>\nمثال: <code>123456 10</code>",
		"a_credit_fail": "❌ فرمت اشتباه! <code>آیدی تعداد</code>",
		"a_setcr_ask":   "🔧 بفرستید:\n<code>آیدی تعداد</code>",
		"a_ban_ask":     "🚫 آیدی عددی:",
		"a_unban_ask":   "✅ آیدی عددی:",
		"a_notfound":    "❌ کاربر یافت نشد!",
		"a_lookup_ask":  "🔎 آیدی عددی:",
		"a_bcast_ask":   "📢 متن پیام:",
	},
	"en": {
		"no_credit":     "❌ <b>No credits!</b>\n\nContact support.",
		"osint_ask":     "🔍 Send @username or numeric ID:",
		"stalk_ask":     "👁 <b>Stalk</b>\n\nSend @username or ID:\n⚠️ Login required (📱)",
		"clean_info":    "🧹 YOUR msgs only, irreversible.\n📱 Login first",
		"phone_ask":     "📱 Phone with code:\n<code>+989121234567</code>",
		"code_ask":      "📨 Enter code:",
		"2fa_ask":       "🔐 2FA password:",
		"login_ok":      "✅ Login OK!",
		"logout_ok":     "✅ Logged out.",
		"not_logged":    "❌ 📱 Login first",
		"ethical":       "⚠️ YOUR data only. Spying = illegal.\n\nAgree?",
		"processing":    "⏳ Processing...",
		"banned":        "🚫 Banned. Contact support.",
		"no_msgs":       "💬 No messages found.",
		"confirm":       "⚠️ Sure? Irreversible!",
		"a_credit_ask":  "💎 <code>ID amount</code>",
		"a_credit_fail": "❌ Format: <code>ID amount</code>",
		"a_setcr_ask":   "🔧 <code>ID amount</code>",
		"a_ban_ask":     "🚫 User ID:",
		"a_unban_ask":   "✅ User ID:",
		"a_notfound":    "❌ Not found!",
		"a_lookup_ask":  "🔎 User ID:",
		"a_bcast_ask":   "📢 Message text:",
	},
}

// text returns the localized static string, falling back to Farsi.
func text(lang, key string) string {
	if m, ok := texts[lang]; ok {
		if t, ok := m[key]; ok {
			return t
		}
	}
	return texts["fa"][key]
}

// creditsDisplay renders a balance, infinity for admins.
func creditsDisplay(account *domain.Account) string {
	if account.IsAdmin {
		return "♾️"
	}
	return fmt.Sprintf("%d", account.Credits)
}

func welcomeText(lang string, account *domain.Account) string {
	if lang == "en" {
		return fmt.Sprintf(
			"🌑 <b>ShadowClean Bot</b>\n\n🔍 OSINT\n👁 Stalk\n🧹 Cleanup\n\n💎 Credits: <b>%s</b> | Used: <b>%d</b>",
			creditsDisplay(account), account.TotalUsed)
	}
	return fmt.Sprintf(
		"🌑 <b>ShadowClean Bot</b>\n\n"+
			"🔍 جستجوی OSINT کاربران\n"+
			"👁 استاک فعالیت در گروه‌ها\n"+
			"🧹 پاکسازی ردپای دیجیتال\n\n"+
			"⚠️ <i>فقط استفاده شخصی و قانونی</i>\n\n"+
			"💎 اعتبار: <b>%s</b> | استفاده‌شده: <b>%d</b>",
		creditsDisplay(account), account.TotalUsed)
}

func helpText(lang string, defaultCredits int) string {
	if lang == "en" {
		return fmt.Sprintf(
			"❓ <b>Help</b>\n\n🔍 OSINT - Public info\n👁 Stalk - Group activity\n🧹 Cleanup - Delete msgs\n📱 Login - Advanced\n\n💎 %d free credits",
			defaultCredits)
	}
	return fmt.Sprintf(
		"❓ <b>راهنما</b>\n\n"+
			"🔍 <b>OSINT</b> - اطلاعات عمومی کاربر\n"+
			"👁 <b>استاک</b> - فعالیت در گروه‌های مشترک\n"+
			"🧹 <b>پاکسازی</b> - حذف پیام‌های شما از گروه‌ها\n"+
			"📱 <b>ورود</b> - لاگین برای امکانات پیشرفته\n\n"+
			"💎 هر کاربر %d درخواست رایگان دارد",
		defaultCredits)
}

func loginFailText(lang string, reason string) string {
	if lang == "en" {
		return fmt.Sprintf("❌ Error: %s", reason)
	}
	return fmt.Sprintf("❌ خطا: %s", reason)
}

func errorText(lang string, reason string) string {
	return loginFailText(lang, reason)
}

func profileText(lang string, account *domain.Account, loggedIn bool) string {
	login := "❌"
	if loggedIn {
		login = "✅"
	}
	joined := account.CreatedAt.Format("2006-01-02")
	if lang == "en" {
		return fmt.Sprintf(
			"👤 <b>Profile</b>\n\n🆔 <code>%d</code>\n👤 %s\n💎 %s\n📊 %d\n🔐 %s\n📅 %s",
			account.ID, account.FirstName, creditsDisplay(account), account.TotalUsed, login, joined)
	}
	return fmt.Sprintf(
		"👤 <b>پروفایل</b>\n\n"+
			"🆔 <code>%d</code>\n"+
			"👤 %s\n"+
			"💎 اعتبار: <b>%s</b>\n"+
			"📊 استفاده: %d\n"+
			"🔐 لاگین: %s\n"+
			"📅 عضویت: %s",
		account.ID, account.FirstName, creditsDisplay(account), account.TotalUsed, login, joined)
}

func osintResultText(lang string, profile *domain.TargetProfile) string {
	username := "—"
	if profile.Peer.Username != "" {
		username = "@" + profile.Peer.Username
	}
	photo := "❌"
	if profile.HasPhoto {
		photo = "✅"
	}
	bio := profile.Bio
	if bio == "" {
		bio = "—"
	}
	seen := profile.LastSeen
	if seen == "" {
		seen = "—"
	}

	var b strings.Builder
	if lang == "en" {
		fmt.Fprintf(&b,
			"🔍 <b>OSINT</b>\n\n👤 %s\n🆔 <code>%d</code>\n📛 %s\n📸 %s\nℹ️ %s\n⏰ %s",
			profile.Peer.DisplayName(), profile.Peer.ID, username, photo, bio, seen)
	} else {
		fmt.Fprintf(&b,
			"🔍 <b>نتیجه OSINT</b>\n\n"+
				"👤 نام: %s\n"+
				"🆔 آیدی: <code>%d</code>\n"+
				"📛 یوزرنیم: %s\n"+
				"📸 عکس: %s\n"+
				"ℹ️ بیو: %s\n"+
				"⏰ آخرین: %s",
			profile.Peer.DisplayName(), profile.Peer.ID, username, photo, bio, seen)
	}

	if len(profile.Commons) > 0 {
		header := "\n\n📂 گروه‌های مشترک:\n"
		if lang == "en" {
			header = "\n\n📂 Common chats:\n"
		}
		b.WriteString(header)
		commons := profile.Commons
		if len(commons) > 10 {
			commons = commons[:10]
		}
		for _, c := range commons {
			fmt.Fprintf(&b, "  • %s\n", c.Title)
		}
	}
	return b.String()
}

func stalkPanelText(lang string, report *domain.StalkReport) string {
	if lang == "en" {
		return fmt.Sprintf(
			"👁 <b>Stalk - %s</b>\n\n📂 Groups: <b>%d</b>\n📢 Channels: <b>%d</b>\n💬 Messages: <b>%d</b>\n\nSelect:",
			report.Target.DisplayName(), len(report.Groups), len(report.Channels), report.Total)
	}
	return fmt.Sprintf(
		"👁 <b>استاک - %s</b>\n\n"+
			"📂 گروه‌ها: <b>%d</b>\n"+
			"📢 کانال‌ها: <b>%d</b>\n"+
			"💬 کل پیام‌ها: <b>%d</b>\n\n"+
			"گروه/کانال مورد نظر رو انتخاب کنید:",
		report.Target.DisplayName(), len(report.Groups), len(report.Channels), report.Total)
}

func stalkMessagesHeader(lang, targetName, dialogTitle string) string {
	if lang == "en" {
		return fmt.Sprintf("👁 <b>%s in %s</b>\n\n", targetName, dialogTitle)
	}
	return fmt.Sprintf("👁 <b>پیام‌های %s در %s</b>\n\n", targetName, dialogTitle)
}

func scanResultText(lang string, result *domain.ScanResult) string {
	var b strings.Builder
	if lang == "en" {
		fmt.Fprintf(&b, "📊 Groups: %d | Msgs: %d | Media: %d | Text: %d",
			len(result.Dialogs), result.Messages, result.Media, result.Text)
	} else {
		fmt.Fprintf(&b, "📊 <b>اسکن</b>\n\n📂 گروه: %d\n💬 پیام: %d\n📸 مدیا: %d\n📝 متن: %d",
			len(result.Dialogs), result.Messages, result.Media, result.Text)
	}
	if len(result.Dialogs) > 0 {
		b.WriteString("\n")
		dialogs := result.Dialogs
		if len(dialogs) > 20 {
			dialogs = dialogs[:20]
		}
		for _, d := range dialogs {
			fmt.Fprintf(&b, "\n• %s: %d", d.Title, d.Matched)
		}
	}
	return b.String()
}

func cleanupResultText(lang string, result *domain.CleanupResult) string {
	elapsed := fmt.Sprintf("%dm %ds",
		int(result.Elapsed.Minutes()), int(result.Elapsed.Seconds())%60)

	var b strings.Builder
	if lang == "en" {
		fmt.Fprintf(&b, "✅ Deleted: %d | Groups: %d | Time: %s | Errors: %d",
			result.Deleted, result.Dialogs, elapsed, result.Errors)
	} else {
		fmt.Fprintf(&b, "✅ <b>تمام!</b>\n\n🗑️ %d حذف\n📂 %d گروه\n⏱️ %s\n❌ %d خطا",
			result.Deleted, result.Dialogs, elapsed, result.Errors)
	}

	listed := 0
	for _, o := range result.Outcomes {
		if o.Skipped || o.Deleted == 0 || listed >= 20 {
			continue
		}
		if listed == 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\n• %s: %d", o.Dialog.Title, o.Deleted)
		listed++
	}
	return b.String()
}

func adminPanelText(lang string, total, banned, loggedIn int64) string {
	if lang == "en" {
		return fmt.Sprintf("👑 <b>Admin</b>\n\n👥 %d\n🚫 %d\n🔐 %d", total, banned, loggedIn)
	}
	return fmt.Sprintf(
		"👑 <b>پنل مدیریت</b>\n\n👥 کاربران: <b>%d</b>\n🚫 بن: <b>%d</b>\n🔐 لاگین: <b>%d</b>",
		total, banned, loggedIn)
}

func adminUserInfoText(lang string, account *domain.Account) string {
	username := "—"
	if account.Username != "" {
		username = "@" + account.Username
	}
	ban := "✅"
	if account.IsBanned {
		ban = "🚫"
	}
	joined := account.CreatedAt.Format("2006-01-02")
	if lang == "en" {
		return fmt.Sprintf("📊 %d | %s | %s | 💎%d | 📊%d | %s | %s",
			account.ID, account.FirstName, username, account.Credits, account.TotalUsed, ban, joined)
	}
	return fmt.Sprintf(
		"📊 <b>کاربر</b>\n\n🆔 <code>%d</code>\n👤 %s\n📛 %s\n💎 %d\n📊 %d\n🚫 %s\n📅 %s",
		account.ID, account.FirstName, username, account.Credits, account.TotalUsed, ban, joined)
}

func adminCreditAddedText(lang string, targetID int64, n, total int) string {
	if lang == "en" {
		return fmt.Sprintf("✅ +%d to %d. Total: %d", n, targetID, total)
	}
	return fmt.Sprintf("✅ <b>%d</b> اعتبار به <code>%d</code> اضافه شد.\nفعلی: <b>%d</b>", n, targetID, total)
}

func adminCreditSetText(lang string, targetID int64, n int) string {
	if lang == "en" {
		return fmt.Sprintf("✅ %d credits = %d", targetID, n)
	}
	return fmt.Sprintf("✅ اعتبار <code>%d</code> = <b>%d</b>", targetID, n)
}

func adminBannedText(lang string, targetID int64) string {
	if lang == "en" {
		return fmt.Sprintf("✅ %d banned.", targetID)
	}
	return fmt.Sprintf("✅ <code>%d</code> بن شد.", targetID)
}

func adminUnbannedText(lang string, targetID int64) string {
	if lang == "en" {
		return fmt.Sprintf("✅ %d unbanned.", targetID)
	}
	return fmt.Sprintf("✅ <code>%d</code> آنبن شد.", targetID)
}

func adminBroadcastDoneText(lang string, n int) string {
	if lang == "en" {
		return fmt.Sprintf("✅ Sent to %d users.", n)
	}
	return fmt.Sprintf("✅ به %d کاربر ارسال شد.", n)
}

// progressFormat returns the in-place progress line renderer for a locale.
func progressFormat(lang string) func(done, total int) string {
	return func(done, total int) string {
		if total <= 0 {
			return text(lang, "processing")
		}
		return fmt.Sprintf("⏳ %d%% (%d/%d)", done*100/total, done, total)
	}
}

func formatPreviewDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
