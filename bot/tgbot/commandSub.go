package tgbot

import (
	"context"

	"github.com/goserg/matchrating/internal/storage"
)

type SubCommand struct {
	subscribers storage.SubscriberStorage
	sub         func(int64)
}

func (c *SubCommand) Run(ctx context.Context, chat Chat, _ string) (string, error) {
	err := c.subscribers.Subscribe(ctx, chat.ID, chat.Username)
	if err != nil {
		return "", err
	}
	c.sub(chat.ID)
	return "Suscripción activada. Para cancelarla: /unsub", nil
}

func (c *SubCommand) Help() string {
	return "Avisa de cada partido nuevo"
}
