package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResultFromGoals(t *testing.T) {
	tests := []struct {
		name  string
		team1 int
		team2 int
		want  Result
	}{
		{name: "team1 wins", team1: 3, team2: 1, want: Victoria},
		{name: "team1 loses", team1: 1, team2: 3, want: Derrota},
		{name: "draw", team1: 2, team2: 2, want: Empate},
		{name: "goalless draw", team1: 0, team2: 0, want: Empate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResultFromGoals(tt.team1, tt.team2))
		})
	}
}

func TestResult_Valid(t *testing.T) {
	assert.True(t, Victoria.Valid())
	assert.True(t, Derrota.Valid())
	assert.True(t, Empate.Valid())
	assert.False(t, Result("Win").Valid())
	assert.False(t, Result("").Valid())
}

func TestMatch_Roster(t *testing.T) {
	a := Player{ID: uuid.New(), Name: "Ana"}
	b := Player{ID: uuid.New(), Name: "Beto"}
	c := Player{ID: uuid.New(), Name: "Caro"}
	m := Match{
		Team1: Team{Players: []Player{a, b}},
		Team2: Team{Players: []Player{c}},
	}

	assert.Equal(t, []Player{a, b, c}, m.Roster())
	assert.True(t, m.HasPlayer(c.ID))
	assert.False(t, m.HasPlayer(uuid.New()))
	assert.True(t, m.RosterIDs().Contains(a.ID, b.ID, c.ID))
	assert.Equal(t, c, m.Team(Team2).Players[0])
}
