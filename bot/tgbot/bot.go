package tgbot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goserg/matchrating/internal/config"
	"github.com/goserg/matchrating/internal/service"
	"github.com/goserg/matchrating/internal/storage"
)

var ErrBadRequest = errors.New("comando desconocido, prueba /help")

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type matchReader interface {
	GetMatch(ctx context.Context, id int64, viewer mapset.Set[uuid.UUID]) (service.MatchDetails, error)
	ListMatches(ctx context.Context, scope, viewer mapset.Set[uuid.UUID]) ([]service.MatchDetails, error)
}

type Bot struct {
	api         *tgbotapi.BotAPI
	sender      sender
	subscribers storage.SubscriberStorage
	log         *logrus.Entry
	publicURL   string

	ctx    context.Context
	cancel func()

	// mu orders wg.Add in MatchCreated against Stop
	mu sync.Mutex
	wg sync.WaitGroup

	subs     subscriptions
	commands *Commands
}

var _ service.Notifier = (*Bot)(nil)

func New(
	l *logrus.Logger,
	cfg config.TgBot,
	publicURL string,
	matches matchReader,
	subscribers storage.SubscriberStorage,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramApiToken)
	if err != nil {
		return nil, fmt.Errorf("telegram api: %w", err)
	}
	api.Debug = cfg.Debug
	b, err := newBot(l, api, publicURL, matches, subscribers)
	if err != nil {
		return nil, err
	}
	b.api = api
	b.log.WithField("username", api.Self.UserName).Info("bot authorized")
	return b, nil
}

func newBot(
	l *logrus.Logger,
	s sender,
	publicURL string,
	matches matchReader,
	subscribers storage.SubscriberStorage,
) (*Bot, error) {
	chats, err := subscribers.ListSubscribers(context.Background())
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bot{
		ctx:         ctx,
		cancel:      cancel,
		sender:      s,
		subscribers: subscribers,
		publicURL:   publicURL,
		log: l.WithFields(map[string]interface{}{
			"from": "tg-bot",
		}),
		subs: newSubs(chats...),
	}
	b.commands = NewCommands(matches, subscribers, b.subs.Add, b.subs.Remove)
	return b, nil
}

// Run polls updates until Stop is called.
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-b.ctx.Done():
			return
		case update := <-updates:
			b.handleMessage(b.ctx, update)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}
	chat := Chat{ID: update.Message.Chat.ID}
	if from := update.SentFrom(); from != nil {
		chat.Username = from.UserName
	}
	log := b.log.WithFields(map[string]interface{}{
		"chat_id": chat.ID,
		"text":    update.Message.Text,
	})

	text, err := b.commands.RunCommand(ctx, chat, update.Message.Command(), update.Message.CommandArguments())
	if err != nil {
		log.WithError(err).Debug("command failed")
		text = userMessage(err)
	}
	if _, err := b.sender.Send(tgbotapi.NewMessage(chat.ID, text)); err != nil {
		log.WithError(err).Error("send error")
	}
}

// MatchCreated announces the match to every subscribed chat without blocking the caller.
func (b *Bot) MatchCreated(_ context.Context, d service.MatchDetails) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctx.Err() != nil {
		b.log.WithField("match", d.Match.ID).Debug("bot stopped, announcement skipped")
		return
	}
	text := formatAnnouncement(d, b.publicURL)
	chats := b.subs.ChatIDs()
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for _, chatID := range chats {
			if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
				b.log.WithError(err).WithField("chat_id", chatID).Warn("announcement not delivered")
			}
		}
	}()
}

// Stop ends the update loop and waits for pending announcements.
func (b *Bot) Stop() {
	b.mu.Lock()
	b.cancel()
	b.mu.Unlock()
	b.wg.Wait()
}
