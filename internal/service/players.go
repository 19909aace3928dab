package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/agnivade/levenshtein"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/goserg/matchrating/internal/cache/mem"
	"github.com/goserg/matchrating/internal/domain"
	"github.com/goserg/matchrating/internal/metrics"
	"github.com/goserg/matchrating/internal/normalize"
	"github.com/goserg/matchrating/internal/storage"
)

const defaultSuggestLimit = 10

type PlayerService struct {
	players storage.PlayerStorage
	users   storage.UserStorage
	cache   *mem.Cache
	metrics *metrics.Metrics
	log     *logrus.Entry

	resolving singleflight.Group
	now       func() time.Time
}

func NewPlayerService(
	l *logrus.Logger,
	players storage.PlayerStorage,
	users storage.UserStorage,
	cache *mem.Cache,
	m *metrics.Metrics,
) *PlayerService {
	return &PlayerService{
		players: players,
		users:   users,
		cache:   cache,
		metrics: m,
		log: l.WithFields(map[string]interface{}{
			"from": "player-service",
		}),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Viewer is the requesting identity with the players it owns.
type Viewer struct {
	UserID  uuid.UUID
	Players mapset.Set[uuid.UUID]
}

func (v Viewer) Known() bool {
	return v.UserID != uuid.Nil
}

// PlayerIDs returns nil for an anonymous viewer.
func (v Viewer) PlayerIDs() mapset.Set[uuid.UUID] {
	if !v.Known() {
		return nil
	}
	return v.Players
}

// Viewer registers the user on first sight and loads the players it owns.
func (s *PlayerService) Viewer(ctx context.Context, userID uuid.UUID) (Viewer, error) {
	err := s.users.EnsureUser(ctx, domain.User{ID: userID, CreatedAt: s.now()})
	if err != nil {
		return Viewer{}, fmt.Errorf("ensure user: %w", err)
	}
	owned, err := s.players.ListPlayersByOwner(ctx, userID)
	if err != nil {
		return Viewer{}, fmt.Errorf("list owned players: %w", err)
	}
	ids := mapset.NewSet[uuid.UUID]()
	for _, p := range owned {
		ids.Add(p.ID)
	}
	return Viewer{UserID: userID, Players: ids}, nil
}

// Resolve maps a display name to a player. The rosters are searched in order before
// the global lookup-or-create, so a name already on the match keeps its identity.
func (s *PlayerService) Resolve(ctx context.Context, name string, rosters ...[]domain.Player) (domain.Player, error) {
	name = normalize.Name(name)
	if name == "" {
		return domain.Player{}, NewInvalidInputError([]FieldError{{Field: "name", Message: "must not be empty"}})
	}
	for _, roster := range rosters {
		for _, p := range roster {
			if normalize.Name(p.Name) == name {
				return p, nil
			}
		}
	}
	if p, ok := s.cache.GetPlayerByName(name); ok {
		return p, nil
	}

	v, err, _ := s.resolving.Do(name, func() (interface{}, error) {
		player, err := s.players.EnsurePlayer(ctx, domain.Player{
			ID:           uuid.New(),
			Name:         name,
			RegisteredAt: s.now(),
		})
		if err != nil {
			return domain.Player{}, err
		}
		s.cache.Put(player)
		s.metrics.PlayerResolved()
		return player, nil
	})
	if err != nil {
		return domain.Player{}, fmt.Errorf("resolve %q: %w", name, err)
	}
	return v.(domain.Player), nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id uuid.UUID) (domain.Player, error) {
	return s.players.GetPlayer(ctx, id)
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	players, err := s.players.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Update(players)
	return players, nil
}

// Suggest ranks known players by edit distance to the query, ignoring case.
// An empty query lists players alphabetically.
func (s *PlayerService) Suggest(ctx context.Context, query string, limit int) ([]domain.Player, error) {
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	var players []domain.Player
	if s.cache.Valid() {
		players = s.cache.Players()
	} else {
		var err error
		players, err = s.ListPlayers(ctx)
		if err != nil {
			return nil, err
		}
	}

	key := normalize.Key(query)
	if key != "" {
		distances := make(map[uuid.UUID]int, len(players))
		for _, p := range players {
			distances[p.ID] = levenshtein.ComputeDistance(key, normalize.Key(p.Name))
		}
		sort.SliceStable(players, func(i, j int) bool {
			di, dj := distances[players[i].ID], distances[players[j].ID]
			if di != dj {
				return di < dj
			}
			return players[i].Name < players[j].Name
		})
	}
	if len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

// Claim makes the user the owner of an unowned player. Claiming an own player again is a no-op.
func (s *PlayerService) Claim(ctx context.Context, playerID, userID uuid.UUID) (domain.Player, error) {
	err := s.users.EnsureUser(ctx, domain.User{ID: userID, CreatedAt: s.now()})
	if err != nil {
		return domain.Player{}, err
	}
	player, err := s.players.SetPlayerOwner(ctx, playerID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return domain.Player{}, fmt.Errorf("player %s is owned by another user: %w", playerID, err)
		}
		return domain.Player{}, err
	}
	s.cache.Put(player)
	s.log.WithFields(logrus.Fields{
		"player": player.Name,
		"user":   userID,
	}).Info("player claimed")
	return player, nil
}
