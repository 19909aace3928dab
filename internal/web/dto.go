package web

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/goserg/matchrating/internal/domain"
	"github.com/goserg/matchrating/internal/service"
)

const dateLayout = "2006-01-02"

const (
	defaultTeam1Name = "Equipo 1"
	defaultTeam2Name = "Equipo 2"
)

type playerDTO struct {
	ID     string  `json:"id" validate:"required,uuid"`
	Name   string  `json:"name" validate:"required"`
	Rating float64 `json:"rating" validate:"min=0,max=10"`
}

type teamDTO struct {
	Name    string      `json:"name" validate:"required"`
	Goals   int         `json:"goals" validate:"min=0,max=1000"`
	Players []playerDTO `json:"players" validate:"dive"`
}

type matchDTO struct {
	ID                         int64    `json:"id" validate:"gt=0"`
	Date                       string   `json:"date" validate:"required,datetime=2006-01-02"`
	Name                       string   `json:"name" validate:"required"`
	Result                     string   `json:"result" validate:"oneof=Victoria Derrota Empate"`
	Rating                     float64  `json:"rating" validate:"min=0,max=10"`
	Team1                      teamDTO  `json:"team1"`
	Team2                      teamDTO  `json:"team2"`
	PlayersWhoSubmittedRatings []string `json:"playersWhoSubmittedRatings" validate:"dive,uuid"`
}

func toMatchDTO(d service.MatchDetails) matchDTO {
	raters := make([]string, 0, d.Ratings.Raters.Cardinality())
	for _, id := range d.Ratings.Raters.ToSlice() {
		raters = append(raters, id.String())
	}
	sort.Strings(raters)
	return matchDTO{
		ID:                         d.Match.ID,
		Date:                       d.Match.Date.Format(dateLayout),
		Name:                       d.Match.Name,
		Result:                     string(d.Match.Result),
		Rating:                     d.Ratings.MatchRating,
		Team1:                      toTeamDTO(d, d.Match.Team1),
		Team2:                      toTeamDTO(d, d.Match.Team2),
		PlayersWhoSubmittedRatings: raters,
	}
}

func toTeamDTO(d service.MatchDetails, team domain.Team) teamDTO {
	players := make([]playerDTO, 0, len(team.Players))
	for _, p := range team.Players {
		players = append(players, playerDTO{
			ID:     p.ID.String(),
			Name:   p.Name,
			Rating: d.PlayerRating(p.ID),
		})
	}
	return teamDTO{
		Name:    team.Name,
		Goals:   team.Goals,
		Players: players,
	}
}

type playerInfoDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Claimed bool   `json:"claimed"`
}

func toPlayerInfoDTO(p domain.Player) playerInfoDTO {
	return playerInfoDTO{
		ID:      p.ID.String(),
		Name:    p.Name,
		Claimed: p.HasOwner(),
	}
}

type rosterEntryRequest struct {
	Name   string   `json:"name" validate:"required"`
	Rating *float64 `json:"rating" validate:"omitempty,min=0,max=10"`
}

type playerRatingRequest struct {
	Name   string  `json:"name" validate:"required"`
	Rating float64 `json:"rating" validate:"min=0,max=10"`
	Team   string  `json:"team" validate:"omitempty,oneof=team1 team2"`
}

func (r playerRatingRequest) convert() service.PlayerRating {
	return service.PlayerRating{
		Name:   r.Name,
		Rating: r.Rating,
		Team:   parseTeam(r.Team),
	}
}

func parseTeam(team string) domain.TeamSide {
	switch team {
	case "team1":
		return domain.Team1
	case "team2":
		return domain.Team2
	}
	return 0
}

type createMatchRequest struct {
	MatchName     string                `json:"matchName" validate:"required"`
	Date          string                `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Team1Name     string                `json:"team1Name"`
	Team2Name     string                `json:"team2Name"`
	Team1Goals    int                   `json:"team1Goals" validate:"min=0,max=1000"`
	Team2Goals    int                   `json:"team2Goals" validate:"min=0,max=1000"`
	Team1Players  []rosterEntryRequest  `json:"team1Players" validate:"dive"`
	Team2Players  []rosterEntryRequest  `json:"team2Players" validate:"dive"`
	RaterName     string                `json:"raterName"`
	PlayerRatings []playerRatingRequest `json:"playerRatings" validate:"dive"`
}

func (r createMatchRequest) convert(createdBy uuid.UUID) service.CreateMatchInput {
	in := service.CreateMatchInput{
		Name:      r.MatchName,
		Team1:     convertTeam(r.Team1Name, defaultTeam1Name, r.Team1Goals, r.Team1Players),
		Team2:     convertTeam(r.Team2Name, defaultTeam2Name, r.Team2Goals, r.Team2Players),
		RaterName: r.RaterName,
		CreatedBy: createdBy,
	}
	if r.Date != "" {
		// already checked by the datetime tag
		if date, err := time.Parse(dateLayout, r.Date); err == nil {
			in.Date = &date
		}
	}
	for _, pr := range r.PlayerRatings {
		in.Ratings = append(in.Ratings, pr.convert())
	}
	return in
}

func convertTeam(name, fallback string, goals int, players []rosterEntryRequest) service.TeamInput {
	if name == "" {
		name = fallback
	}
	team := service.TeamInput{
		Name:    name,
		Goals:   goals,
		Players: make([]service.RosterEntry, 0, len(players)),
	}
	for _, p := range players {
		team.Players = append(team.Players, service.RosterEntry{Name: p.Name, Rating: p.Rating})
	}
	return team
}

type updateMatchRequest struct {
	Name   *string  `json:"name" validate:"omitempty,min=1"`
	Date   *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Result *string  `json:"result" validate:"omitempty,oneof=Victoria Derrota Empate"`
	Rating *float64 `json:"rating" validate:"omitempty,min=0,max=10"`
}

func (r updateMatchRequest) convert() service.UpdateMatchInput {
	in := service.UpdateMatchInput{
		Name:   r.Name,
		Rating: r.Rating,
	}
	if r.Date != nil {
		if date, err := time.Parse(dateLayout, *r.Date); err == nil {
			in.Date = &date
		}
	}
	if r.Result != nil {
		result := domain.Result(*r.Result)
		in.Result = &result
	}
	return in
}

type submitRatingsRequest struct {
	OwnerPlayerID string                `json:"ownerPlayerId" validate:"required,uuid"`
	Ratings       []playerRatingRequest `json:"ratings" validate:"required,min=1,dive"`
}

func (r submitRatingsRequest) convert() service.SubmitRatingsInput {
	// a malformed id stays uuid.Nil and is rejected by the service
	owner, _ := uuid.Parse(r.OwnerPlayerID)
	in := service.SubmitRatingsInput{
		OwnerPlayerID: owner,
		Ratings:       make([]service.PlayerRating, 0, len(r.Ratings)),
	}
	for _, pr := range r.Ratings {
		in.Ratings = append(in.Ratings, pr.convert())
	}
	return in
}
