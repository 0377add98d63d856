package telegram

// Reply keyboard button labels. The Bot API echoes the label back as plain
// message text, so routing matches on both locales of each label.
const (
	btnOSINTFa   = "🔍 جستجو OSINT"
	btnOSINTEn   = "🔍 OSINT Search"
	btnStalkFa   = "👁 استاک"
	btnStalkEn   = "👁 Stalk"
	btnCleanupFa = "🧹 پاکسازی"
	btnCleanupEn = "🧹 Cleanup"
	btnProfileFa = "👤 پروفایل"
	btnProfileEn = "👤 Profile"
	btnLoginFa   = "📱 ورود"
	btnLoginEn   = "📱 Login"
	btnHelpFa    = "❓ راهنما"
	btnHelpEn    = "❓ Help"
	btnAdminFa   = "👑 پنل مدیریت"
	btnAdminEn   = "👑 Admin Panel"
	btnBackFa    = "🔙 بازگشت"
	btnBackEn    = "🔙 Back"

	btnAddCreditsFa = "💎 افزودن اعتبار"
	btnAddCreditsEn = "💎 Add Credits"
	btnSetCreditsFa = "🔧 تنظیم اعتبار"
	btnSetCreditsEn = "🔧 Set Credits"
	btnLookupFa     = "🔎 جستجوی کاربر"
	btnLookupEn     = "🔎 Lookup User"
	btnBanFa        = "🚫 بن کردن"
	btnBanEn        = "🚫 Ban User"
	btnUnbanFa      = "✅ آنبن کردن"
	btnUnbanEn      = "✅ Unban User"
	btnBroadcastFa  = "📢 پیام همگانی"
	btnBroadcastEn  = "📢 Broadcast"
)

type buttonAction int

const (
	actionNone buttonAction = iota
	actionOSINT
	actionStalk
	actionCleanup
	actionProfile
	actionLogin
	actionHelp
	actionAdmin
	actionBack
	actionAddCredits
	actionSetCredits
	actionLookup
	actionBan
	actionUnban
	actionBroadcast
)

var buttonActions = map[string]buttonAction{
	btnOSINTFa: actionOSINT, btnOSINTEn: actionOSINT,
	btnStalkFa: actionStalk, btnStalkEn: actionStalk,
	btnCleanupFa: actionCleanup, btnCleanupEn: actionCleanup,
	btnProfileFa: actionProfile, btnProfileEn: actionProfile,
	btnLoginFa: actionLogin, btnLoginEn: actionLogin,
	btnHelpFa: actionHelp, btnHelpEn: actionHelp,
	btnAdminFa: actionAdmin, btnAdminEn: actionAdmin,
	btnBackFa: actionBack, btnBackEn: actionBack,
	btnAddCreditsFa: actionAddCredits, btnAddCreditsEn: actionAddCredits,
	btnSetCreditsFa: actionSetCredits, btnSetCreditsEn: actionSetCredits,
	btnLookupFa: actionLookup, btnLookupEn: actionLookup,
	btnBanFa: actionBan, btnBanEn: actionBan,
	btnUnbanFa: actionUnban, btnUnbanEn: actionUnban,
	btnBroadcastFa: actionBroadcast, btnBroadcastEn: actionBroadcast,
}
