package sqlite

import (
	"context"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/google/uuid"

	"github.com/goserg/matchrating/gen/model"
	"github.com/goserg/matchrating/gen/table"
	"github.com/goserg/matchrating/internal/domain"
	"github.com/goserg/matchrating/internal/storage"
)

func (s *Storage) GetPlayer(ctx context.Context, id uuid.UUID) (domain.Player, error) {
	var dest model.Players
	err := table.Players.
		SELECT(table.Players.AllColumns).
		WHERE(table.Players.ID.EQ(sqlite.String(id.String()))).
		QueryContext(ctx, s.conn(ctx), &dest)
	if err != nil {
		return domain.Player{}, mapError(err)
	}
	return convertPlayerToDomain(dest)
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (domain.Player, error) {
	var dest model.Players
	err := table.Players.
		SELECT(table.Players.AllColumns).
		WHERE(table.Players.Name.EQ(sqlite.String(name))).
		QueryContext(ctx, s.conn(ctx), &dest)
	if err != nil {
		return domain.Player{}, mapError(err)
	}
	return convertPlayerToDomain(dest)
}

func (s *Storage) EnsurePlayer(ctx context.Context, player domain.Player) (domain.Player, error) {
	res, err := table.Players.
		INSERT(table.Players.AllColumns).
		MODEL(convertPlayerFromDomain(player)).
		ON_CONFLICT(table.Players.Name).
		DO_NOTHING().
		ExecContext(ctx, s.conn(ctx))
	if err != nil {
		return domain.Player{}, mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.log.WithField("name", player.Name).Debug("player created")
	}
	return s.GetPlayerByName(ctx, player.Name)
}

func (s *Storage) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	var dest []model.Players
	err := table.Players.
		SELECT(table.Players.AllColumns).
		ORDER_BY(table.Players.Name.ASC()).
		QueryContext(ctx, s.conn(ctx), &dest)
	if err != nil {
		return nil, mapError(err)
	}
	return convertPlayersToDomain(dest)
}

func (s *Storage) ListPlayersByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Player, error) {
	var dest []model.Players
	err := table.Players.
		SELECT(table.Players.AllColumns).
		WHERE(table.Players.OwnerUserID.EQ(sqlite.String(userID.String()))).
		ORDER_BY(table.Players.Name.ASC()).
		QueryContext(ctx, s.conn(ctx), &dest)
	if err != nil {
		return nil, mapError(err)
	}
	return convertPlayersToDomain(dest)
}

// SetPlayerOwner assigns an unowned player to the user. Repeating the call for the
// same user is a no-op, another owner yields storage.ErrConflict.
func (s *Storage) SetPlayerOwner(ctx context.Context, playerID uuid.UUID, userID uuid.UUID) (domain.Player, error) {
	var player domain.Player
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		res, err := table.Players.
			UPDATE(table.Players.OwnerUserID).
			SET(sqlite.String(userID.String())).
			WHERE(
				table.Players.ID.EQ(sqlite.String(playerID.String())).
					AND(table.Players.OwnerUserID.IS_NULL().
						OR(table.Players.OwnerUserID.EQ(sqlite.String(userID.String())))),
			).
			ExecContext(ctx, s.conn(ctx))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		player, err = s.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if n == 0 {
			return storage.ErrConflict
		}
		return nil
	})
	if err != nil {
		return domain.Player{}, err
	}
	return player, nil
}

func (s *Storage) EnsureUser(ctx context.Context, user domain.User) error {
	_, err := table.Users.
		INSERT(table.Users.AllColumns).
		MODEL(model.Users{
			ID:        user.ID.String(),
			CreatedAt: user.CreatedAt,
		}).
		ON_CONFLICT(table.Users.ID).
		DO_NOTHING().
		ExecContext(ctx, s.conn(ctx))
	return mapError(err)
}
