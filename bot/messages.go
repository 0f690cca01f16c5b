package bot

import (
	"fmt"
	"strings"

	"github.com/kwasu-works/lostfound-bot/models"
	"github.com/kwasu-works/lostfound-bot/telegram"
)

// Button ids understood by the dispatcher.
const (
	BtnReportLost  = "report_lost"
	BtnReportFound = "report_found"
	BtnSearch      = "search"
	BtnContact     = "contact"
	BtnMyReports   = "my_reports"
	BtnMenu        = "menu"

	ViewPrefix          = "view_"
	MarkClaimedPrefix   = "mark_claimed_"
	MarkRecoveredPrefix = "mark_recovered_"
)

const msgWelcome = "📋 *Welcome to Kwasu Lost And Found Bot!*\n" +
	"_v0.2 Designed & Developed by_ Rugged of ICT.\n\n" +
	"To proceed, select what you are here for from the menu:"

const msgUnknown = "❓ Invalid command. Reply \"menu\" for options."

const msgGenericError = "❌ An error occurred. Please try again."

const msgLostPrompt = "🔍 *Report Lost Item*\n\n" +
	"Please provide the following details:\n" +
	"ITEM, LOCATION, DESCRIPTION\n\n" +
	"Example: \"Water Bottle, Library, Blue with sticker\""

const msgLostFormatError = "⚠️ Format error. Please use: ITEM, LOCATION, DESCRIPTION"

const msgFoundPhotoPrompt = "🎁 *Report Found Item*\n\n" +
	"First, please send a *photo* of the item you found. It helps the owner recognize it."

const msgFoundPhotoRequired = "📷 Please send a *photo* of the found item to continue, or reply \"menu\" to cancel."

const msgFoundDetailsPrompt = "✅ Photo received!\n\n" +
	"Now provide the following details:\n" +
	"ITEM, LOCATION, CONTACT\\_PHONE, DESCRIPTION (optional)\n\n" +
	"Example: \"Keys, Cafeteria, 08012345678, Silver with red keyring\""

const msgFoundFormatError = "⚠️ Format error. Please use: ITEM, LOCATION, CONTACT\\_PHONE, DESCRIPTION (optional)"

const msgPhoneFormatError = "⚠️ The contact phone must be an 11-digit number (e.g. 08012345678). Please resend the details."

const msgSearchPrompt = "🔎 *Search Found Items*\n\n" +
	"Please reply with the exact name of your item:\n\n" +
	"Example: \"Water Bottle\", \"Keys\", \"Bag\""

const msgCodePrompt = "🔐 Please reply with the 6-character verification code you received when you created this report."

const msgCodeLengthError = "⚠️ The verification code is exactly 6 characters. Please check and resend it."

const msgCodeMismatch = "❌ That code does not match. Please check and resend it."

const msgContact = "📞 *Contact Developer*\n\n" +
	"For any issues or support, please contact the developer:\n\n" +
	"*WhatsApp:* 09038323588\n\n" +
	"*Note:* Please go straight to the point in your DM to avoid late response. " +
	"Be direct and clear about your issue or inquiry."

const msgSafetyNotice = "⚠️ *IMPORTANT SAFETY NOTICE:*\n\n" +
	"When someone contacts you to claim this item, please:\n\n" +
	"🔐 *Ask for verification* - Request specific details about the item such as:\n" +
	"• Exact color\n" +
	"• Shape or size\n" +
	"• Visible marks, scratches, or unique features\n\n" +
	"🚫 If someone provides incorrect details, do not return the item and report the claimant to KWASU WORKS.\n\n" +
	"🙏 *Thank you for your honesty and for helping others!*"

func mainMenuKeyboard() *telegram.InlineKeyboard {
	return telegram.Keyboard(
		telegram.Row(telegram.InlineButton{Text: "🔍 Report Lost Item", CallbackData: BtnReportLost}),
		telegram.Row(telegram.InlineButton{Text: "🎁 Report Found Item", CallbackData: BtnReportFound}),
		telegram.Row(telegram.InlineButton{Text: "🔎 Search Found Items", CallbackData: BtnSearch}),
		telegram.Row(telegram.InlineButton{Text: "📂 My Reports", CallbackData: BtnMyReports}),
		telegram.Row(telegram.InlineButton{Text: "📞 Contact Developer", CallbackData: BtnContact}),
	)
}

func menuButtonKeyboard() *telegram.InlineKeyboard {
	return telegram.Keyboard(
		telegram.Row(telegram.InlineButton{Text: "🏠 Main Menu", CallbackData: BtnMenu}),
	)
}

func lostConfirmation(report *models.Report, matches []*models.Report) string {
	var b strings.Builder
	b.WriteString("✅ *Lost Item Reported Successfully!*\n\n")
	fmt.Fprintf(&b, "📦 *Item:* %s\n", report.Item)
	fmt.Fprintf(&b, "📍 *Location:* %s\n", report.Location)
	if report.Description != "" {
		fmt.Fprintf(&b, "📝 *Description:* %s\n", report.Description)
	}
	fmt.Fprintf(&b, "🆔 *Report ID:* %s\n", report.ID)
	fmt.Fprintf(&b, "🔐 *Verification Code:* `%s`\n", report.VerificationCode)
	b.WriteString("Keep this code safe — you will need it to mark the item recovered.\n\n")

	if len(matches) > 0 {
		fmt.Fprintf(&b, "🎉 *Good news!* We found %d matching item(s) that were reported found:\n\n", len(matches))
		for i, m := range matches {
			fmt.Fprintf(&b, "%d. *%s*\n", i+1, m.Item)
			fmt.Fprintf(&b, "   📍 Location: %s\n", m.Location)
			fmt.Fprintf(&b, "   📞 Contact: %s\n", m.ContactPhone)
			fmt.Fprintf(&b, "   📝 %s\n\n", m.Description)
		}
		b.WriteString("💡 *Tip:* When contacting, please provide details about your lost item to verify ownership.")
	} else {
		b.WriteString("😔 *No matching found items yet.*\n\n")
		b.WriteString("💡 *What to do next:*\n")
		b.WriteString("• Check back regularly and search again\n")
		b.WriteString("• Spread the word about your lost item\n")
		b.WriteString("• Contact locations where you might have lost it")
	}
	return b.String()
}

func foundConfirmation(report *models.Report) string {
	var b strings.Builder
	b.WriteString("✅ *Found Item Reported Successfully!*\n\n")
	fmt.Fprintf(&b, "📦 *Item:* %s\n", report.Item)
	fmt.Fprintf(&b, "📍 *Location:* %s\n", report.Location)
	fmt.Fprintf(&b, "📞 *Contact:* %s\n", report.ContactPhone)
	fmt.Fprintf(&b, "📝 *Description:* %s\n", report.Description)
	fmt.Fprintf(&b, "🆔 *Report ID:* %s\n", report.ID)
	fmt.Fprintf(&b, "🔐 *Verification Code:* `%s`\n", report.VerificationCode)
	b.WriteString("Keep this code safe — you will need it to mark the item claimed.\n\n")
	b.WriteString(msgSafetyNotice)
	return b.String()
}

func reportSummary(report *models.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 *%s*\n", report.Item)
	fmt.Fprintf(&b, "📍 Location: %s\n", report.Location)
	if report.Description != "" {
		fmt.Fprintf(&b, "📝 %s\n", report.Description)
	}
	if report.Kind == models.KindFound && !report.Resolved {
		fmt.Fprintf(&b, "📞 Contact: %s\n", report.ContactPhone)
	}
	if report.Resolved {
		fmt.Fprintf(&b, "✔️ Already %s\n", report.ResolvedLabel())
	}
	fmt.Fprintf(&b, "⏰ %s", report.CreatedAt.Format("2 Jan 2006 15:04"))
	return b.String()
}

func myReportLine(report *models.Report) string {
	status := "⏳ open"
	if report.Resolved {
		status = "✔️ " + report.ResolvedLabel()
	}
	return fmt.Sprintf("📦 *%s* (%s)\n📍 %s\n🆔 %s\nStatus: %s", report.Item, report.Kind, report.Location, report.ID, status)
}
