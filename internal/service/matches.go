package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goserg/matchrating/internal/domain"
	"github.com/goserg/matchrating/internal/metrics"
	"github.com/goserg/matchrating/internal/normalize"
	"github.com/goserg/matchrating/internal/rating"
	"github.com/goserg/matchrating/internal/storage"
)

// Notifier is told about every committed match.
type Notifier interface {
	MatchCreated(ctx context.Context, match MatchDetails)
}

// MatchDetails is a match together with its aggregated ratings.
type MatchDetails struct {
	Match   domain.Match
	Ratings rating.Aggregate
}

// PlayerRating returns the aggregate of the player, falling back to the default rating.
func (d MatchDetails) PlayerRating(id uuid.UUID) float64 {
	if v, ok := d.Ratings.PerPlayer[id]; ok {
		return v
	}
	return rating.Default
}

type RosterEntry struct {
	Name   string
	Rating *float64
}

type TeamInput struct {
	Name    string
	Goals   int
	Players []RosterEntry
}

// PlayerRating is one rating of a batch. Team narrows the name lookup, zero means any team.
type PlayerRating struct {
	Name   string
	Rating float64
	Team   domain.TeamSide
}

type CreateMatchInput struct {
	Name      string
	Date      *time.Time
	Team1     TeamInput
	Team2     TeamInput
	RaterName string
	Ratings   []PlayerRating
	CreatedBy uuid.UUID
}

type SubmitRatingsInput struct {
	OwnerPlayerID uuid.UUID
	Ratings       []PlayerRating
}

// UpdateMatchInput is a partial update. Result and Rating are checked but the stored
// values are always derived from goals and ratings.
type UpdateMatchInput struct {
	Name   *string
	Date   *time.Time
	Result *domain.Result
	Rating *float64
}

type MatchService struct {
	matches  storage.MatchStorage
	ratings  storage.RatingStorage
	tx       storage.TxManager
	players  *PlayerService
	notifier Notifier
	metrics  *metrics.Metrics
	log      *logrus.Entry

	now func() time.Time
}

func NewMatchService(
	l *logrus.Logger,
	matches storage.MatchStorage,
	ratings storage.RatingStorage,
	tx storage.TxManager,
	players *PlayerService,
	m *metrics.Metrics,
) *MatchService {
	return &MatchService{
		matches: matches,
		ratings: ratings,
		tx:      tx,
		players: players,
		metrics: m,
		log: l.WithFields(map[string]interface{}{
			"from": "match-service",
		}),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// SetNotifier must be called before the service is used concurrently.
func (s *MatchService) SetNotifier(n Notifier) {
	s.notifier = n
}

type resolvedRating struct {
	destination domain.Player
	value       float64
}

func (s *MatchService) CreateMatch(ctx context.Context, in CreateMatchInput) (MatchDetails, error) {
	err := validateCreate(in)
	if err != nil {
		return MatchDetails{}, err
	}

	match := domain.Match{
		Name:      strings.TrimSpace(in.Name),
		Date:      s.today(),
		Result:    domain.ResultFromGoals(in.Team1.Goals, in.Team2.Goals),
		Rating:    rating.Default,
		CreatedBy: in.CreatedBy,
		CreatedAt: s.now(),
	}
	if in.Date != nil {
		match.Date = truncateDate(*in.Date)
	}
	var batch []resolvedRating
	for _, side := range []domain.TeamSide{domain.Team1, domain.Team2} {
		team := in.Team1
		if side == domain.Team2 {
			team = in.Team2
		}
		resolved := domain.Team{
			Name:    strings.TrimSpace(team.Name),
			Goals:   team.Goals,
			Players: make([]domain.Player, 0, len(team.Players)),
		}
		for _, entry := range team.Players {
			p, err := s.players.Resolve(ctx, entry.Name)
			if err != nil {
				return MatchDetails{}, err
			}
			resolved.Players = append(resolved.Players, p)
			if entry.Rating != nil {
				batch = append(batch, resolvedRating{destination: p, value: *entry.Rating})
			}
		}
		if side == domain.Team1 {
			match.Team1 = resolved
		} else {
			match.Team2 = resolved
		}
	}

	var rater domain.Player
	if in.RaterName != "" {
		rater, err = s.players.Resolve(ctx, in.RaterName, match.Roster())
		if err != nil {
			return MatchDetails{}, err
		}
	}
	extra, err := s.resolveBatch(ctx, match, in.Ratings)
	if err != nil {
		return MatchDetails{}, err
	}
	batch = append(batch, extra...)

	if in.CreatedBy != uuid.Nil {
		err = s.players.users.EnsureUser(ctx, domain.User{ID: in.CreatedBy, CreatedAt: s.now()})
		if err != nil {
			return MatchDetails{}, fmt.Errorf("ensure creator: %w", err)
		}
	}

	var created domain.Match
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.matches.CreateMatch(ctx, match)
		if err != nil {
			return fmt.Errorf("create match: %w", err)
		}
		if len(batch) > 0 {
			m, err = s.applyRatings(ctx, m, rater.ID, batch)
			if err != nil {
				return err
			}
		}
		created = m
		return nil
	})
	if err != nil {
		return MatchDetails{}, err
	}
	s.metrics.MatchCreated()
	s.metrics.RatingsSubmitted("create", len(batch))
	s.log.WithFields(logrus.Fields{
		"match":   created.ID,
		"name":    created.Name,
		"ratings": len(batch),
	}).Info("match created")

	if in.CreatedBy != uuid.Nil && rater.ID != uuid.Nil && !rater.HasOwner() {
		_, err = s.players.Claim(ctx, rater.ID, in.CreatedBy)
		if err != nil && !errors.Is(err, storage.ErrConflict) {
			s.log.WithError(err).Warn("claim rater")
		}
	}

	details, err := s.details(ctx, created, nil)
	if err != nil {
		return MatchDetails{}, err
	}
	if s.notifier != nil {
		s.notifier.MatchCreated(ctx, details)
	}
	return details, nil
}

func (s *MatchService) GetMatch(ctx context.Context, id int64, viewer mapset.Set[uuid.UUID]) (MatchDetails, error) {
	match, err := s.matches.GetMatch(ctx, id)
	if err != nil {
		return MatchDetails{}, err
	}
	return s.details(ctx, match, viewer)
}

// ListMatches returns matches newest first. scope limits them to matches of the given players.
func (s *MatchService) ListMatches(ctx context.Context, scope, viewer mapset.Set[uuid.UUID]) ([]MatchDetails, error) {
	if scope != nil && scope.Cardinality() == 0 {
		return []MatchDetails{}, nil
	}
	matches, err := s.matches.ListMatches(ctx, scope)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	ratings, err := s.ratings.ListRatings(ctx, ids...)
	if err != nil {
		return nil, err
	}
	byMatch := make(map[int64][]domain.Rating, len(matches))
	for _, r := range ratings {
		byMatch[r.MatchID] = append(byMatch[r.MatchID], r)
	}
	details := make([]MatchDetails, 0, len(matches))
	for _, m := range matches {
		details = append(details, MatchDetails{
			Match:   m,
			Ratings: rating.Calculate(m, byMatch[m.ID], viewer),
		})
	}
	return details, nil
}

// UpdateMatch overwrites name and date. Result and rating are re-derived from the stored
// goals and ratings so they never diverge.
func (s *MatchService) UpdateMatch(ctx context.Context, id int64, in UpdateMatchInput) (MatchDetails, error) {
	err := validateUpdate(in)
	if err != nil {
		return MatchDetails{}, err
	}
	var updated domain.Match
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		match, err := s.matches.GetMatch(ctx, id)
		if err != nil {
			return err
		}
		ratings, err := s.ratings.ListRatings(ctx, id)
		if err != nil {
			return err
		}
		result := domain.ResultFromGoals(match.Team1.Goals, match.Team2.Goals)
		derived := rating.Calculate(match, ratings, nil).Unscoped
		fields := domain.MatchFields{
			Result: &result,
			Rating: &derived,
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			fields.Name = &name
		}
		if in.Date != nil {
			date := truncateDate(*in.Date)
			fields.Date = &date
		}
		m, err := s.matches.UpdateMatchFields(ctx, id, fields)
		updated = m
		return err
	})
	if err != nil {
		return MatchDetails{}, err
	}
	return s.details(ctx, updated, nil)
}

func (s *MatchService) DeleteMatch(ctx context.Context, id int64) error {
	deleted, err := s.matches.DeleteMatch(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return storage.ErrNotFound
	}
	s.log.WithField("match", id).Info("match deleted")
	return nil
}

// SubmitRatings upserts a batch of ratings from one roster player and refreshes the stored match rating.
func (s *MatchService) SubmitRatings(ctx context.Context, id int64, in SubmitRatingsInput, viewer mapset.Set[uuid.UUID]) (MatchDetails, error) {
	err := validateSubmit(in)
	if err != nil {
		return MatchDetails{}, err
	}
	match, err := s.matches.GetMatch(ctx, id)
	if err != nil {
		return MatchDetails{}, err
	}
	if !match.HasPlayer(in.OwnerPlayerID) {
		return MatchDetails{}, storage.ErrNotRosterMember
	}
	batch, err := s.resolveBatch(ctx, match, in.Ratings)
	if err != nil {
		return MatchDetails{}, err
	}

	var updated domain.Match
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.applyRatings(ctx, match, in.OwnerPlayerID, batch)
		updated = m
		return err
	})
	if err != nil {
		return MatchDetails{}, err
	}
	s.metrics.RatingsSubmitted("batch", len(batch))
	s.log.WithFields(logrus.Fields{
		"match":   id,
		"owner":   in.OwnerPlayerID,
		"ratings": len(batch),
	}).Debug("ratings submitted")
	return s.details(ctx, updated, viewer)
}

// resolveBatch resolves rating destinations: the named team first, then the whole roster,
// then the global lookup-or-create.
func (s *MatchService) resolveBatch(ctx context.Context, match domain.Match, ratings []PlayerRating) ([]resolvedRating, error) {
	batch := make([]resolvedRating, 0, len(ratings))
	for _, r := range ratings {
		var rosters [][]domain.Player
		if r.Team == domain.Team1 || r.Team == domain.Team2 {
			rosters = append(rosters, match.Team(r.Team).Players)
		}
		rosters = append(rosters, match.Roster())
		p, err := s.players.Resolve(ctx, r.Name, rosters...)
		if err != nil {
			return nil, err
		}
		batch = append(batch, resolvedRating{destination: p, value: r.Rating})
	}
	return batch, nil
}

// applyRatings must run inside a transaction.
func (s *MatchService) applyRatings(ctx context.Context, match domain.Match, owner uuid.UUID, batch []resolvedRating) (domain.Match, error) {
	now := s.now()
	for _, r := range batch {
		err := s.ratings.UpsertRating(ctx, domain.Rating{
			MatchID:             match.ID,
			OwnerPlayerID:       owner,
			DestinationPlayerID: r.destination.ID,
			Value:               r.value,
			UpdatedAt:           now,
		})
		if err != nil {
			return domain.Match{}, fmt.Errorf("upsert rating of %s: %w", r.destination.Name, err)
		}
	}
	ratings, err := s.ratings.ListRatings(ctx, match.ID)
	if err != nil {
		return domain.Match{}, err
	}
	unscoped := rating.Calculate(match, ratings, nil).Unscoped
	return s.matches.UpdateMatchFields(ctx, match.ID, domain.MatchFields{Rating: &unscoped})
}

func (s *MatchService) details(ctx context.Context, match domain.Match, viewer mapset.Set[uuid.UUID]) (MatchDetails, error) {
	ratings, err := s.ratings.ListRatings(ctx, match.ID)
	if err != nil {
		return MatchDetails{}, err
	}
	return MatchDetails{
		Match:   match,
		Ratings: rating.Calculate(match, ratings, viewer),
	}, nil
}

func (s *MatchService) today() time.Time {
	return truncateDate(s.now())
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validRating(v float64) bool {
	return !math.IsNaN(v) && v >= rating.Min && v <= rating.Max
}

func validateCreate(in CreateMatchInput) error {
	var fe []FieldError
	if strings.TrimSpace(in.Name) == "" {
		fe = append(fe, FieldError{Field: "matchName", Message: "must not be empty"})
	}
	names := mapset.NewSet[string]()
	hasRatings := len(in.Ratings) > 0
	for i, team := range []TeamInput{in.Team1, in.Team2} {
		prefix := fmt.Sprintf("team%d", i+1)
		if strings.TrimSpace(team.Name) == "" {
			fe = append(fe, FieldError{Field: prefix + ".name", Message: "must not be empty"})
		}
		if team.Goals < 0 || team.Goals > domain.MaxGoals {
			fe = append(fe, FieldError{Field: prefix + ".goals", Message: fmt.Sprintf("must be between 0 and %d", domain.MaxGoals)})
		}
		for j, entry := range team.Players {
			field := fmt.Sprintf("%s.players[%d]", prefix, j)
			name := normalize.Name(entry.Name)
			if name == "" {
				fe = append(fe, FieldError{Field: field + ".name", Message: "must not be empty"})
			} else if !names.Add(name) {
				fe = append(fe, FieldError{Field: field + ".name", Message: "duplicate player " + name})
			}
			if entry.Rating != nil {
				hasRatings = true
				if !validRating(*entry.Rating) {
					fe = append(fe, FieldError{Field: field + ".rating", Message: "must be between 0 and 10"})
				}
			}
		}
	}
	fe = append(fe, validateRatings("playerRatings", in.Ratings)...)
	if hasRatings {
		rater := normalize.Name(in.RaterName)
		switch {
		case rater == "":
			fe = append(fe, FieldError{Field: "raterName", Message: "required when ratings are given"})
		case !names.Contains(rater):
			fe = append(fe, FieldError{Field: "raterName", Message: "must be on the roster"})
		}
	}
	return NewInvalidInputError(fe)
}

func validateSubmit(in SubmitRatingsInput) error {
	var fe []FieldError
	if in.OwnerPlayerID == uuid.Nil {
		fe = append(fe, FieldError{Field: "ownerPlayerId", Message: "must be a valid player id"})
	}
	if len(in.Ratings) == 0 {
		fe = append(fe, FieldError{Field: "ratings", Message: "must not be empty"})
	}
	fe = append(fe, validateRatings("ratings", in.Ratings)...)
	return NewInvalidInputError(fe)
}

func validateRatings(field string, ratings []PlayerRating) []FieldError {
	var fe []FieldError
	for i, r := range ratings {
		prefix := fmt.Sprintf("%s[%d]", field, i)
		if normalize.Name(r.Name) == "" {
			fe = append(fe, FieldError{Field: prefix + ".name", Message: "must not be empty"})
		}
		if !validRating(r.Rating) {
			fe = append(fe, FieldError{Field: prefix + ".rating", Message: "must be between 0 and 10"})
		}
		if r.Team != 0 && r.Team != domain.Team1 && r.Team != domain.Team2 {
			fe = append(fe, FieldError{Field: prefix + ".team", Message: "must be 1 or 2"})
		}
	}
	return fe
}

func validateUpdate(in UpdateMatchInput) error {
	var fe []FieldError
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		fe = append(fe, FieldError{Field: "name", Message: "must not be empty"})
	}
	if in.Result != nil && !in.Result.Valid() {
		fe = append(fe, FieldError{Field: "result", Message: "must be one of Victoria, Derrota, Empate"})
	}
	if in.Rating != nil && !validRating(*in.Rating) {
		fe = append(fe, FieldError{Field: "rating", Message: "must be between 0 and 10"})
	}
	return NewInvalidInputError(fe)
}
