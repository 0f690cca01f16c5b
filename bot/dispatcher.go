package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/kwasu-works/lostfound-bot/blob"
	"github.com/kwasu-works/lostfound-bot/models"
	"github.com/kwasu-works/lostfound-bot/telegram"
)

// Transport is the outbound slice of the chat API the dispatcher needs.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboard) error
	SendPhoto(ctx context.Context, chatID int64, photo, caption string, keyboard *telegram.InlineKeyboard) error
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
}

// Dispatcher drives the conversation state machine: one inbound update is
// processed end to end against the session, the report repository and the
// blob relay, producing outbound messages. It holds no state of its own.
//
// The session-read / validate / repository-mutate / session-write sequence
// is not transactional. A crash after report creation but before the
// session is cleared leaves the user in the same flow step, so updates are
// effectively delivered at least once and every flow tolerates
// resubmission.
type Dispatcher struct {
	Transport Transport
	Sessions  *SessionManager
	Reports   *ReportRepository
	Relay     blob.Relay
}

func NewDispatcher(transport Transport, sessions *SessionManager, reports *ReportRepository, relay blob.Relay) *Dispatcher {
	return &Dispatcher{
		Transport: transport,
		Sessions:  sessions,
		Reports:   reports,
		Relay:     relay,
	}
}

// HandleUpdate processes one webhook update. It never returns an error:
// failures are logged and answered with a user-facing message where
// possible, so a bad update cannot take the process down.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update *telegram.Update) {
	switch {
	case update.CallbackQuery != nil:
		d.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		d.handleMessage(ctx, update.Message)
	}
}

// send delivers text, logging transport failures instead of propagating
// them; a failed send never rolls back a committed mutation.
func (d *Dispatcher) send(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboard) {
	if err := d.Transport.SendMessage(ctx, chatID, text, keyboard); err != nil {
		log.Printf("sendMessage to chat %d failed: %v", chatID, err)
	}
}

func (d *Dispatcher) sendPhoto(ctx context.Context, chatID int64, photo, caption string, keyboard *telegram.InlineKeyboard) {
	if err := d.Transport.SendPhoto(ctx, chatID, photo, caption, keyboard); err != nil {
		log.Printf("sendPhoto to chat %d failed: %v", chatID, err)
	}
}

func (d *Dispatcher) sendMenu(ctx context.Context, chatID int64) {
	d.send(ctx, chatID, msgWelcome, mainMenuKeyboard())
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *telegram.Message) {
	if msg.From == nil {
		return
	}
	userID := strconv.FormatInt(msg.From.ID, 10)
	chatID := msg.Chat.ID

	if len(msg.Photo) > 0 {
		d.handlePhoto(ctx, userID, chatID, msg.Photo)
		return
	}

	text := strings.TrimSpace(msg.Text)
	lower := strings.ToLower(text)

	// The menu command preempts every flow state.
	if lower == "/start" || lower == "menu" {
		d.resetToMenu(ctx, userID, chatID)
		return
	}

	// Numeric shortcuts mirror the menu buttons for users who type.
	switch lower {
	case "1":
		d.startLostFlow(ctx, userID, chatID)
		return
	case "2":
		d.startFoundFlow(ctx, userID, chatID)
		return
	case "3":
		d.startSearchFlow(ctx, userID, chatID)
		return
	case "4":
		d.showContact(ctx, userID, chatID)
		return
	case "5":
		d.showMyReports(ctx, userID, chatID)
		return
	}

	session, err := d.Sessions.Get(ctx, userID)
	if err != nil {
		log.Printf("reading session for user %s failed: %v", userID, err)
		d.send(ctx, chatID, msgGenericError, menuButtonKeyboard())
		return
	}
	if session == nil {
		d.send(ctx, chatID, msgUnknown, menuButtonKeyboard())
		return
	}

	switch {
	case session.Flow == models.FlowReportLost && session.Step == models.StepAwaitingDetails:
		d.handleLostDetails(ctx, session, chatID, text)
	case session.Flow == models.FlowReportFound && session.Step == models.StepAwaitingImage:
		d.send(ctx, chatID, msgFoundPhotoRequired, nil)
	case session.Flow == models.FlowReportFound && session.Step == models.StepAwaitingDetails:
		d.handleFoundDetails(ctx, session, chatID, text)
	case session.Flow == models.FlowSearch && session.Step == models.StepAwaitingQuery:
		d.handleSearchQuery(ctx, session, chatID, text)
	case session.Flow == models.FlowVerifyCode && session.Step == models.StepAwaitingCode:
		d.handleVerifyCode(ctx, session, chatID, text)
	default:
		// Unknown session shape, likely from an older deploy. Start over.
		d.resetToMenu(ctx, userID, chatID)
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if err := d.Transport.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		log.Printf("answerCallbackQuery %s failed: %v", cb.ID, err)
	}
	if cb.Message == nil {
		return
	}
	userID := strconv.FormatInt(cb.From.ID, 10)
	chatID := cb.Message.Chat.ID

	switch data := cb.Data; {
	case data == BtnMenu:
		d.resetToMenu(ctx, userID, chatID)
	case data == BtnReportLost:
		d.startLostFlow(ctx, userID, chatID)
	case data == BtnReportFound:
		d.startFoundFlow(ctx, userID, chatID)
	case data == BtnSearch:
		d.startSearchFlow(ctx, userID, chatID)
	case data == BtnContact:
		d.showContact(ctx, userID, chatID)
	case data == BtnMyReports:
		d.showMyReports(ctx, userID, chatID)
	case strings.HasPrefix(data, ViewPrefix):
		d.showReport(ctx, userID, chatID, strings.TrimPrefix(data, ViewPrefix))
	case strings.HasPrefix(data, MarkClaimedPrefix):
		d.startVerifyFlow(ctx, userID, chatID, strings.TrimPrefix(data, MarkClaimedPrefix), models.ActionClaim)
	case strings.HasPrefix(data, MarkRecoveredPrefix):
		d.startVerifyFlow(ctx, userID, chatID, strings.TrimPrefix(data, MarkRecoveredPrefix), models.ActionRecover)
	default:
		d.send(ctx, chatID, msgUnknown, menuButtonKeyboard())
	}
}

func (d *Dispatcher) resetToMenu(ctx context.Context, userID string, chatID int64) {
	if err := d.Sessions.Clear(ctx, userID); err != nil {
		log.Printf("clearing session for user %s failed: %v", userID, err)
	}
	d.sendMenu(ctx, chatID)
}

func (d *Dispatcher) startFlow(ctx context.Context, session *models.Session, chatID int64, prompt string) {
	if err := d.Sessions.Set(ctx, session); err != nil {
		log.Printf("writing session for user %s failed: %v", session.UserID, err)
		d.send(ctx, chatID, msgGenericError, menuButtonKeyboard())
		return
	}
	d.send(ctx, chatID, prompt, nil)
}

func (d *Dispatcher) startLostFlow(ctx context.Context, userID string, chatID int64) {
	d.startFlow(ctx, &models.Session{
		UserID: userID,
		ChatID: chatID,
		Flow:   models.FlowReportLost,
		Step:   models.StepAwaitingDetails,
	}, chatID, msgLostPrompt)
}

func (d *Dispatcher) startFoundFlow(ctx context.Context, userID string, chatID int64) {
	d.startFlow(ctx, &models.Session{
		UserID: userID,
		ChatID: chatID,
		Flow:   models.FlowReportFound,
		Step:   models.StepAwaitingImage,
	}, chatID, msgFoundPhotoPrompt)
}

func (d *Dispatcher) startSearchFlow(ctx context.Context, userID string, chatID int64) {
	d.startFlow(ctx, &models.Session{
		UserID: userID,
		ChatID: chatID,
		Flow:   models.FlowSearch,
		Step:   models.StepAwaitingQuery,
	}, chatID, msgSearchPrompt)
}

func (d *Dispatcher) showContact(ctx context.Context, userID string, chatID int64) {
	if err := d.Sessions.Clear(ctx, userID); err != nil {
		log.Printf("clearing session for user %s failed: %v", userID, err)
	}
	d.send(ctx, chatID, msgContact, menuButtonKeyboard())
}

func (d *Dispatcher) showMyReports(ctx context.Context, userID string, chatID int64) {
	if err := d.Sessions.Clear(ctx, userID); err != nil {
		log.Printf("clearing session for user %s failed: %v", userID, err)
	}

	reports, err := d.Reports.FindByReporter(ctx, userID)
	if err != nil {
		log.Printf("listing reports for user %s failed: %v", userID, err)
		d.send(ctx, chatID, msgGenericError, menuButtonKeyboard())
		return
	}
	if len(reports) == 0 {
		d.send(ctx, chatID, "📂 You have no reports yet.", menuButtonKeyboard())
		return
	}

	d.send(ctx, chatID, fmt.Sprintf("📂 *My Reports* (%d)", len(reports)), nil)
	for _, report := range reports {
		var keyboard *telegram.InlineKeyboard
		if !report.Resolved {
			label, action := "✔️ Mark Recovered", MarkRecoveredPrefix
			if report.Kind == models.KindFound {
				label, action = "✔️ Mark Claimed", MarkClaimedPrefix
			}
			keyboard = telegram.Keyboard(
				telegram.Row(telegram.InlineButton{Text: label, CallbackData: action + report.ID}),
			)
		}
		d.send(ctx, chatID, myReportLine(report), keyboard)
	}
	d.send(ctx, chatID, "Reply \"menu\" to return to the main menu.", menuButtonKeyboard())
}

func (d *Dispatcher) handleLostDetails(ctx context.Context, session *models.Session, chatID int64, text string) {
	parts := strings.Split(text, ",")
	if len(parts) < 3 {
		d.send(ctx, chatID, msgLostFormatError, nil)
		return
	}

	description := strings.Join(parts[2:], ",")
	report, err := models.NewLostReport(session.UserID, parts[0], parts[1], description)
	if err != nil {
		d.send(ctx, chatID, msgLostFormatError, nil)
		return
	}

	if _, err := d.Reports.Create(ctx, report); err != nil {
		log.Printf("creating lost report for user %s failed: %v", session.UserID, err)
		d.send(ctx, chatID, msgGenericError, menuButtonKeyboard())
		return
	}

	all, err := d.Reports.GetAll(ctx)
	if err != nil {
		log.Printf("loading reports for matching failed: %v", err)
		all = nil
	}
	matches := FindMatchesForLostItem(report.Item, all)

	d.send(ctx, chatID, lostConfirmation(report, matches), menuButtonKeyboard())
	if err := d.Sessions.Clear(ctx, session.UserID); err != nil {
		log.Printf("clearing session for user %s failed: %v", session.UserID, err)
	}
}

func (d *Dispatcher) handlePhoto(ctx context.Context, userID string, chatID int64, photos []telegram.PhotoSize) {
	session, err := d.Sessions.Get(ctx, userID)
	if err != nil {
		log.Printf("reading session for user %s failed: %v", userID, err)
		d.send(ctx, chatID, msgGenericError, menuButtonKeyboard())
		return
	}
	if session == nil || session.Flow != models.FlowReportFound || session.Step != models.StepAwaitingImage {
		d.send(ctx, chatID, msgUnknown, menuButtonKeyboard())
		return
	}

	photo, ok := telegram.BestPhoto(photos)
	if !ok {
		d.send(ctx, chatID, msgFoundPhotoRequired, nil)
		return
	}

	ref, err := d.Relay.Acquire(ctx, photo.FileID)
	if err != nil {
		log.Printf("acquiring photo %s failed: %v", photo.FileID, err)
		d.send(ctx, chatID, "⚠️ We could not process that photo. Please send it again.", nil)
		return
	}

	session.Step = models.StepAwaitingDetails
	session.DraftImageRef = ref
	if err := d.Sessions.Set(ctx, session); err != nil {
		log.Printf("writing session for user %s failed: %v", userID, err)
		d.send(ctx, chatID, msgGenericError, menuButtonKeyboard())
		return
	}
	d.send(ctx, chatID, msgFoundDetailsPrompt, nil)
}

func (d *Dispatcher) handleFoundDetails(ctx context.Context, session *models.Session, chatID int64, text string) {
	parts := strings.Split(text, ",")
	if len(parts) < 3 {
		d.send(ctx, chatID, msgFoundFormatError, nil)
		return
	}
	if !models.ValidPhone(parts[2]) {
		d.send(ctx, chatID, msgPhoneFormatError, nil)
		return
	}

	if session.DraftImageRef == "" {
		// The draft photo is gone; restart the flow rather than store a
		// found report without one.
		if err := d.Sessions.Clear(ctx, session.UserID); err != nil {
			log.Printf("clearing session for user %s failed: %v", session.UserID, err)
		}
		d.send(ctx, chatID, "⚠️ Your photo went missing. Please start the report again.", menuButtonKeyboard())
		return
	}

	description := ""
	if len(parts) > 3 {
		description = strings.Join(parts[3:], ",")
	}
	report, err := models.NewFoundReport(session.UserID, parts[0], parts[1], parts[2], description, session.DraftImageRef)
	if err != nil {
		d.send(ctx, chatID, msgFoundFormatError, nil)
		return
	}

	if _, err := d.Reports.Create(ctx, report); err != nil {
		log.Printf("creating found report for user %s failed: %v", session.UserID, err)
		d.send(ctx, chatID, msgGenericError, menuButtonKeyboard())
		return
	}

	d.send(ctx, chatID, foundConfirmation(report), menuButtonKeyboard())
	if err := d.Sessions.Clear(ctx, session.UserID); err != nil {
		log.Printf("clearing session for user %s failed: %v", session.UserID, err)
	}
}

func (d *Dispatcher) handleSearchQuery(ctx context.Context, session *models.Session, chatID int64, query string) {
	if strings.TrimSpace(query) == "" {
		d.send(ctx, chatID, msgSearchPrompt, nil)
		return
	}

	results, err := d.Reports.FindByExactName(ctx, query, models.KindFound)
	if err != nil {
		log.Printf("searching reports failed: %v", err)
		d.send(ctx, chatID, msgGenericError, menuButtonKeyboard())
		return
	}

	// Single-shot search: the session ends whatever the result count.
	defer func() {
		if err := d.Sessions.Clear(ctx, session.UserID); err != nil {
			log.Printf("clearing session for user %s failed: %v", session.UserID, err)
		}
	}()

	if len(results) == 0 {
		d.send(ctx, chatID, fmt.Sprintf("❌ No found items matching \"%s\".\n\nCheck the spelling or try again later.", query), menuButtonKeyboard())
		return
	}

	d.send(ctx, chatID, fmt.Sprintf("🔎 *Search Results*\n\nFound items matching \"%s\":", query), nil)
	for _, report := range results {
		var keyboard *telegram.InlineKeyboard
		if !report.Resolved {
			keyboard = telegram.Keyboard(
				telegram.Row(telegram.InlineButton{Text: "👁 View Details", CallbackData: ViewPrefix + report.ID}),
			)
		}
		d.send(ctx, chatID, reportSummary(report), keyboard)
	}
	d.send(ctx, chatID, "Reply \"menu\" to return to the main menu.", menuButtonKeyboard())
}

func (d *Dispatcher) showReport(ctx context.Context, userID string, chatID int64, reportID string) {
	report, err := d.Reports.GetByID(ctx, reportID)
	if err == ErrReportNotFound {
		d.send(ctx, chatID, "❌ This report no longer exists.", menuButtonKeyboard())
		return
	}
	if err != nil {
		log.Printf("loading report %s failed: %v", reportID, err)
		d.send(ctx, chatID, msgGenericError, menuButtonKeyboard())
		return
	}

	caption := reportSummary(report)
	var keyboard *telegram.InlineKeyboard
	if !report.Resolved && report.ReporterID == userID {
		label, action := "✔️ Mark Recovered", MarkRecoveredPrefix
		if report.Kind == models.KindFound {
			label, action = "✔️ Mark Claimed", MarkClaimedPrefix
		}
		keyboard = telegram.Keyboard(
			telegram.Row(telegram.InlineButton{Text: label, CallbackData: action + report.ID}),
			telegram.Row(telegram.InlineButton{Text: "🏠 Main Menu", CallbackData: BtnMenu}),
		)
	} else {
		keyboard = menuButtonKeyboard()
	}

	if report.ImageRef != "" {
		if url, err := d.Relay.ResolveURL(report.ImageRef); err == nil {
			caption += fmt.Sprintf("\n🖼 [Photo](%s)", url)
		}
		d.sendPhoto(ctx, chatID, report.ImageRef, caption, keyboard)
		return
	}
	d.send(ctx, chatID, caption, keyboard)
}

func (d *Dispatcher) startVerifyFlow(ctx context.Context, userID string, chatID int64, reportID string, action models.PendingAction) {
	report, err := d.Reports.GetByID(ctx, reportID)
	if err == ErrReportNotFound {
		d.send(ctx, chatID, "❌ This report no longer exists.", menuButtonKeyboard())
		return
	}
	if err != nil {
		log.Printf("loading report %s failed: %v", reportID, err)
		d.send(ctx, chatID, msgGenericError, menuButtonKeyboard())
		return
	}

	wantKind := models.KindLost
	if action == models.ActionClaim {
		wantKind = models.KindFound
	}
	if report.Kind != wantKind {
		d.send(ctx, chatID, msgUnknown, menuButtonKeyboard())
		return
	}
	if report.Resolved {
		d.send(ctx, chatID, fmt.Sprintf("✔️ This item is already %s.", report.ResolvedLabel()), menuButtonKeyboard())
		return
	}

	d.startFlow(ctx, &models.Session{
		UserID:          userID,
		ChatID:          chatID,
		Flow:            models.FlowVerifyCode,
		Step:            models.StepAwaitingCode,
		PendingReportID: reportID,
		PendingAction:   action,
	}, chatID, msgCodePrompt)
}

func (d *Dispatcher) handleVerifyCode(ctx context.Context, session *models.Session, chatID int64, text string) {
	code := strings.ToUpper(strings.TrimSpace(text))
	if len(code) != 6 {
		d.send(ctx, chatID, msgCodeLengthError, nil)
		return
	}

	outcome, err := d.Reports.Resolve(ctx, session.PendingReportID, code, session.UserID)
	if err != nil {
		log.Printf("resolving report %s failed: %v", session.PendingReportID, err)
		d.send(ctx, chatID, msgGenericError, menuButtonKeyboard())
		return
	}

	switch outcome {
	case ResolveCodeMismatch:
		// Session stays put; the user may retry with the right code.
		d.send(ctx, chatID, msgCodeMismatch, nil)
	case ResolveNotFound:
		d.send(ctx, chatID, "❌ This report no longer exists.", menuButtonKeyboard())
		d.clearSession(ctx, session.UserID)
	case ResolveNotAuthorized:
		d.send(ctx, chatID, "⛔ Only the person who created this report can resolve it.", menuButtonKeyboard())
		d.clearSession(ctx, session.UserID)
	case ResolveOK:
		verb := "recovered"
		if session.PendingAction == models.ActionClaim {
			verb = "claimed"
		}
		d.send(ctx, chatID, fmt.Sprintf("🎉 *Done!* The item has been marked as %s. Thank you for updating the registry.", verb), menuButtonKeyboard())
		d.clearSession(ctx, session.UserID)
	}
}

func (d *Dispatcher) clearSession(ctx context.Context, userID string) {
	if err := d.Sessions.Clear(ctx, userID); err != nil {
		log.Printf("clearing session for user %s failed: %v", userID, err)
	}
}
