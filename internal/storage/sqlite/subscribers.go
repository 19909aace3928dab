package sqlite

import (
	"context"
	"time"

	"github.com/go-jet/jet/v2/sqlite"

	"github.com/goserg/matchrating/gen/model"
	"github.com/goserg/matchrating/gen/table"
)

func (s *Storage) Subscribe(ctx context.Context, chatID int64, username string) error {
	_, err := table.BotSubscribers.
		INSERT(table.BotSubscribers.AllColumns).
		MODEL(model.BotSubscribers{
			ChatID:    chatID,
			Username:  username,
			CreatedAt: time.Now().UTC(),
		}).
		ON_CONFLICT(table.BotSubscribers.ChatID).
		DO_UPDATE(sqlite.SET(
			table.BotSubscribers.Username.SET(table.BotSubscribers.EXCLUDED.Username),
		)).
		ExecContext(ctx, s.conn(ctx))
	return mapError(err)
}

func (s *Storage) Unsubscribe(ctx context.Context, chatID int64) error {
	_, err := table.BotSubscribers.
		DELETE().
		WHERE(table.BotSubscribers.ChatID.EQ(sqlite.Int(chatID))).
		ExecContext(ctx, s.conn(ctx))
	return mapError(err)
}

func (s *Storage) ListSubscribers(ctx context.Context) ([]int64, error) {
	var dest []model.BotSubscribers
	err := table.BotSubscribers.
		SELECT(table.BotSubscribers.AllColumns).
		ORDER_BY(table.BotSubscribers.ChatID.ASC()).
		QueryContext(ctx, s.conn(ctx), &dest)
	if err != nil {
		return nil, mapError(err)
	}
	ids := make([]int64, 0, len(dest))
	for _, sub := range dest {
		ids = append(ids, sub.ChatID)
	}
	return ids, nil
}
