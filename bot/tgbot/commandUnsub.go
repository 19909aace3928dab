package tgbot

import (
	"context"

	"github.com/goserg/matchrating/internal/storage"
)

type UnsubCommand struct {
	subscribers storage.SubscriberStorage
	unsub       func(int64)
}

func (c *UnsubCommand) Run(ctx context.Context, chat Chat, _ string) (string, error) {
	err := c.subscribers.Unsubscribe(ctx, chat.ID)
	if err != nil {
		return "", err
	}
	c.unsub(chat.ID)
	return "Suscripción cancelada. Para volver a activarla: /sub", nil
}

func (c *UnsubCommand) Help() string {
	return "Deja de avisar de partidos nuevos"
}
