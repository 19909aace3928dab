package domain

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

type Result string

const (
	Victoria Result = "Victoria"
	Derrota  Result = "Derrota"
	Empate   Result = "Empate"
)

// ResultFromGoals reports the outcome from team1's point of view.
func ResultFromGoals(team1Goals, team2Goals int) Result {
	switch {
	case team1Goals > team2Goals:
		return Victoria
	case team1Goals < team2Goals:
		return Derrota
	default:
		return Empate
	}
}

func (r Result) Valid() bool {
	switch r {
	case Victoria, Derrota, Empate:
		return true
	}
	return false
}

// MaxGoals bounds a team score.
const MaxGoals = 1000

type TeamSide int

const (
	Team1 TeamSide = 1
	Team2 TeamSide = 2
)

type Team struct {
	Name    string
	Goals   int
	Players []Player
}

type Match struct {
	ID        int64
	Date      time.Time
	Name      string
	Result    Result
	Rating    float64
	Team1     Team
	Team2     Team
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

func (m Match) Team(side TeamSide) Team {
	if side == Team2 {
		return m.Team2
	}
	return m.Team1
}

// Roster returns players of both teams, team1 first.
func (m Match) Roster() []Player {
	roster := make([]Player, 0, len(m.Team1.Players)+len(m.Team2.Players))
	roster = append(roster, m.Team1.Players...)
	return append(roster, m.Team2.Players...)
}

func (m Match) RosterIDs() mapset.Set[uuid.UUID] {
	ids := mapset.NewSet[uuid.UUID]()
	for _, p := range m.Roster() {
		ids.Add(p.ID)
	}
	return ids
}

func (m Match) HasPlayer(id uuid.UUID) bool {
	for _, p := range m.Roster() {
		if p.ID == id {
			return true
		}
	}
	return false
}

// MatchFields is a partial overwrite of the match metadata. Nil fields are left untouched.
type MatchFields struct {
	Name   *string
	Date   *time.Time
	Result *Result
	Rating *float64
}

type Rating struct {
	MatchID             int64
	OwnerPlayerID       uuid.UUID
	DestinationPlayerID uuid.UUID
	Value               float64
	UpdatedAt           time.Time
}
