package web

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/goserg/matchrating/internal/domain"
	"github.com/goserg/matchrating/internal/rating"
	"github.com/goserg/matchrating/internal/service"
)

const ratingFieldPrefix = "rating_"

type rateForm struct {
	owner   uuid.UUID
	ratings []service.PlayerRating
}

// parseRateForm reads the owner and one optional rating input per roster player.
// Blank inputs are skipped.
func parseRateForm(ctx *fiber.Ctx, match domain.Match) (rateForm, error) {
	var err error
	owner, parseErr := uuid.Parse(ctx.FormValue("owner"))
	if parseErr != nil {
		err = errors.Join(err, errors.New("choose who you are first"))
	}

	var ratings []service.PlayerRating
	for _, side := range []domain.TeamSide{domain.Team1, domain.Team2} {
		for _, p := range match.Team(side).Players {
			raw := strings.TrimSpace(ctx.FormValue(ratingFieldPrefix + p.ID.String()))
			if raw == "" {
				continue
			}
			value, convErr := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
			if convErr != nil || value < rating.Min || value > rating.Max {
				err = errors.Join(err, errors.New("rating of "+p.Name+" must be a number between 0 and 10"))
				continue
			}
			ratings = append(ratings, service.PlayerRating{Name: p.Name, Rating: value, Team: side})
		}
	}
	if len(ratings) == 0 && err == nil {
		err = errors.New("rate at least one player")
	}
	if err != nil {
		return rateForm{}, err
	}
	return rateForm{
		owner:   owner,
		ratings: ratings,
	}, nil
}
