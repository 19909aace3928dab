package tgbot

import (
	"context"
	"errors"
	"sort"

	"github.com/goserg/matchrating/internal/storage"
)

type Chat struct {
	ID       int64
	Username string
}

type Command interface {
	Run(ctx context.Context, chat Chat, args string) (string, error)
	Help() string
}

type Commands struct {
	list map[string]Command
}

func NewCommands(
	matches matchReader,
	subscribers storage.SubscriberStorage,
	subFn func(chatID int64),
	unsubFn func(chatID int64),
) *Commands {
	hc := &HelpCommand{}
	uc := Commands{
		list: map[string]Command{
			"help":  hc,
			"start": hc,
			"sub": &SubCommand{
				subscribers: subscribers,
				sub:         subFn,
			},
			"unsub": &UnsubCommand{
				subscribers: subscribers,
				unsub:       unsubFn,
			},
			"matches": &MatchesCommand{
				matches: matches,
			},
			"match": &MatchCommand{
				matches: matches,
			},
		},
	}
	hc.commands = uc.list
	return &uc
}

func (uc *Commands) RunCommand(ctx context.Context, chat Chat, cmd string, args string) (string, error) {
	command, ok := uc.list[cmd]
	if !ok {
		return "", ErrBadRequest
	}
	return command.Run(ctx, chat, args)
}

func (uc *Commands) names() []string {
	names := make([]string, 0, len(uc.list))
	for name := range uc.list {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// userMessage hides internal failures from the chat.
func userMessage(err error) string {
	var ue userError
	switch {
	case errors.As(err, &ue):
		return ue.Error()
	case errors.Is(err, ErrBadRequest):
		return err.Error()
	case errors.Is(err, storage.ErrNotFound):
		return "no encontrado"
	}
	return "error inesperado, inténtalo más tarde"
}

type userError string

func (e userError) Error() string {
	return string(e)
}
