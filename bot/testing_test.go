package bot

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/kwasu-works/lostfound-bot/storage"
	"github.com/kwasu-works/lostfound-bot/telegram"
)

// fakeTransport records outbound traffic instead of calling Telegram.
type fakeTransport struct {
	messages []sentMessage
	photos   []sentPhoto
	answered []string
	failing  bool
}

type sentMessage struct {
	chatID   int64
	text     string
	keyboard *telegram.InlineKeyboard
}

type sentPhoto struct {
	chatID   int64
	photo    string
	caption  string
	keyboard *telegram.InlineKeyboard
}

func (f *fakeTransport) SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboard) error {
	if f.failing {
		return errors.New("transport down")
	}
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text, keyboard: keyboard})
	return nil
}

func (f *fakeTransport) SendPhoto(ctx context.Context, chatID int64, photo, caption string, keyboard *telegram.InlineKeyboard) error {
	if f.failing {
		return errors.New("transport down")
	}
	f.photos = append(f.photos, sentPhoto{chatID: chatID, photo: photo, caption: caption, keyboard: keyboard})
	return nil
}

func (f *fakeTransport) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	f.answered = append(f.answered, callbackID)
	return nil
}

func (f *fakeTransport) lastMessage() string {
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1].text
}

// fakeRelay hands back the file id unchanged, like the proxy strategy.
type fakeRelay struct {
	acquireErr error
}

func (f *fakeRelay) Acquire(ctx context.Context, fileID string) (string, error) {
	if f.acquireErr != nil {
		return "", f.acquireErr
	}
	return fileID, nil
}

func (f *fakeRelay) ResolveURL(ref string) (string, error) {
	return "https://bot.example.com/files/" + ref, nil
}

type testBot struct {
	dispatcher *Dispatcher
	transport  *fakeTransport
	sessions   *SessionManager
	reports    *ReportRepository
	store      *storage.MemoryStore
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()
	store := storage.NewMemoryStore()
	transport := &fakeTransport{}
	sessions := NewSessionManager(store)
	reports := NewReportRepository(store)
	return &testBot{
		dispatcher: NewDispatcher(transport, sessions, reports, &fakeRelay{}),
		transport:  transport,
		sessions:   sessions,
		reports:    reports,
		store:      store,
	}
}

func (b *testBot) sendText(userID int64, text string) {
	b.dispatcher.HandleUpdate(context.Background(), &telegram.Update{
		Message: &telegram.Message{
			From: &telegram.User{ID: userID},
			Chat: telegram.Chat{ID: userID},
			Text: text,
		},
	})
}

func (b *testBot) sendPhoto(userID int64, fileIDs ...string) {
	var sizes []telegram.PhotoSize
	for i, id := range fileIDs {
		sizes = append(sizes, telegram.PhotoSize{FileID: id, Width: 100 * (i + 1), Height: 100 * (i + 1)})
	}
	b.dispatcher.HandleUpdate(context.Background(), &telegram.Update{
		Message: &telegram.Message{
			From:  &telegram.User{ID: userID},
			Chat:  telegram.Chat{ID: userID},
			Photo: sizes,
		},
	})
}

func (b *testBot) pressButton(userID int64, data string) {
	b.dispatcher.HandleUpdate(context.Background(), &telegram.Update{
		CallbackQuery: &telegram.CallbackQuery{
			ID:   "cb-" + strconv.FormatInt(userID, 10),
			From: telegram.User{ID: userID},
			Message: &telegram.Message{
				Chat: telegram.Chat{ID: userID},
			},
			Data: data,
		},
	})
}
