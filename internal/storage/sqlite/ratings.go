package sqlite

import (
	"context"
	"errors"

	"github.com/go-jet/jet/v2/sqlite"

	"github.com/goserg/matchrating/gen/model"
	"github.com/goserg/matchrating/gen/table"
	"github.com/goserg/matchrating/internal/domain"
	"github.com/goserg/matchrating/internal/storage"
)

// UpsertRating writes the rating keyed by (match, owner, destination), overwriting a previous value.
// The match must exist and the owner must be on its roster, otherwise nothing is written.
func (s *Storage) UpsertRating(ctx context.Context, rating domain.Rating) error {
	return s.WithinTx(ctx, func(ctx context.Context) error {
		var match model.Matches
		err := table.Matches.
			SELECT(table.Matches.ID).
			WHERE(table.Matches.ID.EQ(sqlite.Int(rating.MatchID))).
			QueryContext(ctx, s.conn(ctx), &match)
		if err != nil {
			return mapError(err)
		}

		var member model.TeamPlayers
		err = sqlite.
			SELECT(table.TeamPlayers.AllColumns).
			FROM(table.TeamPlayers.
				INNER_JOIN(table.Teams, table.Teams.ID.EQ(table.TeamPlayers.TeamID)),
			).
			WHERE(
				table.Teams.MatchID.EQ(sqlite.Int(rating.MatchID)).
					AND(table.TeamPlayers.PlayerID.EQ(sqlite.String(rating.OwnerPlayerID.String()))),
			).
			LIMIT(1).
			QueryContext(ctx, s.conn(ctx), &member)
		if err != nil {
			if errors.Is(mapError(err), storage.ErrNotFound) {
				return storage.ErrNotRosterMember
			}
			return err
		}

		_, err = table.Ratings.
			INSERT(table.Ratings.AllColumns).
			MODEL(convertRatingFromDomain(match.ID, rating)).
			ON_CONFLICT(table.Ratings.MatchID, table.Ratings.OwnerPlayerID, table.Ratings.DestinationPlayerID).
			DO_UPDATE(sqlite.SET(
				table.Ratings.Value.SET(table.Ratings.EXCLUDED.Value),
				table.Ratings.UpdatedAt.SET(table.Ratings.EXCLUDED.UpdatedAt),
			)).
			ExecContext(ctx, s.conn(ctx))
		return mapError(err)
	})
}

// ListRatings returns the ratings of the given matches. No ids means no ratings.
func (s *Storage) ListRatings(ctx context.Context, matchIDs ...int64) ([]domain.Rating, error) {
	if len(matchIDs) == 0 {
		return []domain.Rating{}, nil
	}
	ids := make([]sqlite.Expression, 0, len(matchIDs))
	for _, id := range matchIDs {
		ids = append(ids, sqlite.Int(id))
	}
	var dest []model.Ratings
	err := table.Ratings.
		SELECT(table.Ratings.AllColumns).
		WHERE(table.Ratings.MatchID.IN(ids...)).
		ORDER_BY(table.Ratings.MatchID.ASC(), table.Ratings.UpdatedAt.ASC()).
		QueryContext(ctx, s.conn(ctx), &dest)
	if err != nil {
		return nil, mapError(err)
	}
	return convertRatingsToDomain(dest)
}
