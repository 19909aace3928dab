package storage

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/goserg/matchrating/internal/domain"
)

type PlayerStorage interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (domain.Player, error)
	GetPlayerByName(ctx context.Context, name string) (domain.Player, error)
	// EnsurePlayer inserts the player unless its name is taken and returns the stored row.
	EnsurePlayer(ctx context.Context, player domain.Player) (domain.Player, error)
	ListPlayers(ctx context.Context) ([]domain.Player, error)
	ListPlayersByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Player, error)
	SetPlayerOwner(ctx context.Context, playerID uuid.UUID, userID uuid.UUID) (domain.Player, error)
}

type UserStorage interface {
	EnsureUser(ctx context.Context, user domain.User) error
}

type MatchStorage interface {
	CreateMatch(ctx context.Context, match domain.Match) (domain.Match, error)
	GetMatch(ctx context.Context, id int64) (domain.Match, error)
	// ListMatches returns matches newest first. A non-empty scope keeps only matches
	// where one of the scope players is on a roster.
	ListMatches(ctx context.Context, scope mapset.Set[uuid.UUID]) ([]domain.Match, error)
	UpdateMatchFields(ctx context.Context, id int64, fields domain.MatchFields) (domain.Match, error)
	DeleteMatch(ctx context.Context, id int64) (bool, error)
}

type RatingStorage interface {
	UpsertRating(ctx context.Context, rating domain.Rating) error
	ListRatings(ctx context.Context, matchIDs ...int64) ([]domain.Rating, error)
}

type SubscriberStorage interface {
	Subscribe(ctx context.Context, chatID int64, username string) error
	Unsubscribe(ctx context.Context, chatID int64) error
	ListSubscribers(ctx context.Context) ([]int64, error)
}

type TxFunc func(ctx context.Context) error

type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}
