package rating

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/goserg/matchrating/internal/domain"
)

const (
	Default = 5.0
	Min     = 0.0
	Max     = 10.0
)

type Aggregate struct {
	// PerPlayer holds the mean received rating for every roster player and every other rated player.
	PerPlayer map[uuid.UUID]float64
	// MatchRating is viewer-scoped when the viewer has players on the roster.
	MatchRating float64
	// Unscoped is the mean over all ratings of the match.
	Unscoped float64
	Raters   mapset.Set[uuid.UUID]
}

// Mean returns the arithmetic mean of values.
// NaN and Inf values are skipped. ok is false when nothing is left to average.
func Mean(values []float64) (mean float64, ok bool) {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Calculate aggregates ratings of a single match.
// match - the match with its roster; match.Rating is the fallback when nothing was rated yet.
// ratings - may contain ratings of other matches, those are ignored.
// viewer - player ids of the requesting identity, nil or empty for an anonymous view.
func Calculate(match domain.Match, ratings []domain.Rating, viewer mapset.Set[uuid.UUID]) Aggregate {
	received := make(map[uuid.UUID][]float64)
	all := make([]float64, 0, len(ratings))
	raters := mapset.NewSet[uuid.UUID]()
	for _, r := range ratings {
		if r.MatchID != match.ID {
			continue
		}
		received[r.DestinationPlayerID] = append(received[r.DestinationPlayerID], r.Value)
		all = append(all, r.Value)
		raters.Add(r.OwnerPlayerID)
	}

	perPlayer := make(map[uuid.UUID]float64, len(received))
	for _, p := range match.Roster() {
		perPlayer[p.ID] = Default
	}
	for id, values := range received {
		if mean, ok := Mean(values); ok {
			perPlayer[id] = mean
		}
	}

	unscoped, ok := Mean(all)
	if !ok {
		unscoped = fallback(match.Rating)
	}

	agg := Aggregate{
		PerPlayer:   perPlayer,
		MatchRating: unscoped,
		Unscoped:    unscoped,
		Raters:      raters,
	}

	own := ownPlayers(match, viewer)
	if own.Cardinality() == 0 {
		return agg
	}
	var mine []float64
	for id := range own.Iter() {
		mine = append(mine, received[id]...)
	}
	if mean, ok := Mean(mine); ok {
		agg.MatchRating = mean
	} else {
		agg.MatchRating = Default
	}
	return agg
}

func ownPlayers(match domain.Match, viewer mapset.Set[uuid.UUID]) mapset.Set[uuid.UUID] {
	own := mapset.NewSet[uuid.UUID]()
	if viewer == nil || viewer.Cardinality() == 0 {
		return own
	}
	for _, p := range match.Roster() {
		if viewer.Contains(p.ID) {
			own.Add(p.ID)
		}
	}
	return own
}

func fallback(stored float64) float64 {
	if stored <= Min || stored > Max || math.IsNaN(stored) {
		return Default
	}
	return stored
}
