package tgbot

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/matchrating/internal/cache/mem"
	"github.com/goserg/matchrating/internal/service"
	"github.com/goserg/matchrating/internal/storage"
	"github.com/goserg/matchrating/internal/storage/sqlite"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	fail bool
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return tgbotapi.Message{}, errors.New("network down")
	}
	msg := c.(tgbotapi.MessageConfig)
	f.sent = append(f.sent, sentMessage{chatID: msg.ChatID, text: msg.Text})
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type fixture struct {
	bot     *Bot
	sender  *fakeSender
	store   *sqlite.Storage
	matches *service.MatchService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	st := sqlite.New(l, db)
	require.NoError(t, st.Subscribe(context.Background(), 7, "seven"))

	ps := service.NewPlayerService(l, st, st, mem.New(), nil)
	ms := service.NewMatchService(l, st, st, st, ps, nil)
	sender := &fakeSender{}
	b, err := newBot(l, sender, "https://futbol.example/", ms, st)
	require.NoError(t, err)
	t.Cleanup(b.Stop)
	ms.SetNotifier(b)
	return fixture{bot: b, sender: sender, store: st, matches: ms}
}

func (f fixture) createMatch(t *testing.T) service.MatchDetails {
	t.Helper()
	d, err := f.matches.CreateMatch(context.Background(), service.CreateMatchInput{
		Name:      "Jueves",
		Date:      ptr(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)),
		Team1:     service.TeamInput{Name: "Blancos", Goals: 3, Players: []service.RosterEntry{{Name: "Ana"}, {Name: "Beto", Rating: ptr(8.0)}}},
		Team2:     service.TeamInput{Name: "Negros", Goals: 1, Players: []service.RosterEntry{{Name: "Caro", Rating: ptr(6.0)}}},
		RaterName: "Ana",
	})
	require.NoError(t, err)
	return d
}

func ptr[T any](v T) *T {
	return &v
}

func command(chatID int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: chatID},
			From:     &tgbotapi.User{ID: chatID, UserName: "user"},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		},
	}
}

func (f fixture) reply(t *testing.T, chatID int64, text string) string {
	t.Helper()
	before := len(f.sender.messages())
	f.bot.handleMessage(context.Background(), command(chatID, text))
	msgs := f.sender.messages()
	require.Len(t, msgs, before+1)
	assert.Equal(t, chatID, msgs[before].chatID)
	return msgs[before].text
}

func TestSubscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Contains(t, f.reply(t, 42, "/sub"), "/unsub")
	chats, err := f.store.ListSubscribers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 42}, chats)
	assert.Equal(t, []int64{7, 42}, f.bot.subs.ChatIDs())

	assert.Contains(t, f.reply(t, 7, "/unsub"), "/sub")
	chats, err = f.store.ListSubscribers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, chats)
	assert.Equal(t, []int64{42}, f.bot.subs.ChatIDs())
}

func TestMatchCreatedAnnouncement(t *testing.T) {
	f := newFixture(t)
	d := f.createMatch(t)
	f.bot.wg.Wait()

	msgs := f.sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(7), msgs[0].chatID)
	assert.Equal(t, "Nuevo partido: Jueves\nBlancos 3 - 1 Negros\nCalifica a tus compañeros: https://futbol.example/match/"+
		formatID(d.Match.ID)+"/join", msgs[0].text)
}

func TestMatchCreatedSurvivesSendFailure(t *testing.T) {
	f := newFixture(t)
	f.sender.fail = true
	f.createMatch(t)
	f.bot.wg.Wait()
	assert.Empty(t, f.sender.messages())
}

func TestMatchCreatedAfterStop(t *testing.T) {
	f := newFixture(t)
	f.bot.Stop()
	f.createMatch(t)
	f.bot.wg.Wait()
	assert.Empty(t, f.sender.messages())
}

func TestMatchCreatedConcurrentWithStop(t *testing.T) {
	f := newFixture(t)
	d := f.createMatch(t)
	f.bot.wg.Wait()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.bot.MatchCreated(context.Background(), d)
		}()
	}
	f.bot.Stop()
	wg.Wait()
	f.bot.wg.Wait()
	assert.LessOrEqual(t, len(f.sender.messages()), 21)
}

func TestCommands(t *testing.T) {
	f := newFixture(t)
	d := f.createMatch(t)
	id := formatID(d.Match.ID)

	tests := []struct {
		text string
		want string
	}{
		{text: "/help", want: "/matches - Últimos partidos con su nota"},
		{text: "/start", want: "Comandos disponibles:"},
		{text: "/help match", want: "Uso: /match"},
		{text: "/matches", want: "#" + id + " 07.03.2024 Jueves: Blancos 3 - 1 Negros (Victoria) ★ 7.0"},
		{text: "/match " + id, want: "Ana: 5.0\nBeto: 8.0\n\nNegros\nCaro: 6.0\n\nCalificaciones enviadas: 1"},
		{text: "/match #" + id, want: "Blancos\nAna: 5.0"},
		{text: "/match", want: "indica el número del partido"},
		{text: "/match abc", want: "no es válido"},
		{text: "/match 999", want: "no encontrado"},
		{text: "/dance", want: ErrBadRequest.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Contains(t, f.reply(t, 1, tt.text), tt.want)
		})
	}
}

func TestIgnoresPlainMessages(t *testing.T) {
	f := newFixture(t)
	f.bot.handleMessage(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{Text: "hola", Chat: &tgbotapi.Chat{ID: 1}},
	})
	f.bot.handleMessage(context.Background(), tgbotapi.Update{})
	assert.Empty(t, f.sender.messages())
}

func TestMatchesEmpty(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "Todavía no hay partidos", f.reply(t, 1, "/matches"))
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
