package sqlite

import (
	"github.com/google/uuid"

	"github.com/goserg/matchrating/gen/model"
	"github.com/goserg/matchrating/internal/domain"
)

func convertPlayerToDomain(player model.Players) (domain.Player, error) {
	id, err := uuid.Parse(player.ID)
	if err != nil {
		return domain.Player{}, err
	}
	converted := domain.Player{
		ID:           id,
		Name:         player.Name,
		RegisteredAt: player.CreatedAt,
	}
	if player.OwnerUserID != nil {
		converted.OwnerUserID, err = uuid.Parse(*player.OwnerUserID)
		if err != nil {
			return domain.Player{}, err
		}
	}
	return converted, nil
}

func convertPlayersToDomain(players []model.Players) ([]domain.Player, error) {
	converted := make([]domain.Player, 0, len(players))
	for _, player := range players {
		p, err := convertPlayerToDomain(player)
		if err != nil {
			return nil, err
		}
		converted = append(converted, p)
	}
	return converted, nil
}

func convertPlayerFromDomain(player domain.Player) model.Players {
	return model.Players{
		ID:          player.ID.String(),
		Name:        player.Name,
		OwnerUserID: optionalID(player.OwnerUserID),
		CreatedAt:   player.RegisteredAt,
	}
}

func convertMatchFromDomain(match domain.Match) model.Matches {
	return model.Matches{
		Name:      match.Name,
		PlayedAt:  match.Date,
		Result:    string(match.Result),
		Rating:    match.Rating,
		CreatedBy: optionalID(match.CreatedBy),
		CreatedAt: match.CreatedAt,
	}
}

// convertMatchToDomain fills the match metadata. Teams are attached separately.
func convertMatchToDomain(match model.Matches) (domain.Match, error) {
	converted := domain.Match{
		ID:        int64(match.ID),
		Date:      match.PlayedAt,
		Name:      match.Name,
		Result:    domain.Result(match.Result),
		Rating:    match.Rating,
		CreatedAt: match.CreatedAt,
	}
	if match.CreatedBy != nil {
		id, err := uuid.Parse(*match.CreatedBy)
		if err != nil {
			return domain.Match{}, err
		}
		converted.CreatedBy = id
	}
	return converted, nil
}

// convertRatingFromDomain takes matchID as read back from the matches row.
func convertRatingFromDomain(matchID int32, rating domain.Rating) model.Ratings {
	return model.Ratings{
		MatchID:             matchID,
		OwnerPlayerID:       rating.OwnerPlayerID.String(),
		DestinationPlayerID: rating.DestinationPlayerID.String(),
		Value:               rating.Value,
		UpdatedAt:           rating.UpdatedAt,
	}
}

func convertRatingsToDomain(ratings []model.Ratings) ([]domain.Rating, error) {
	converted := make([]domain.Rating, 0, len(ratings))
	for _, r := range ratings {
		owner, err := uuid.Parse(r.OwnerPlayerID)
		if err != nil {
			return nil, err
		}
		dest, err := uuid.Parse(r.DestinationPlayerID)
		if err != nil {
			return nil, err
		}
		converted = append(converted, domain.Rating{
			MatchID:             int64(r.MatchID),
			OwnerPlayerID:       owner,
			DestinationPlayerID: dest,
			Value:               r.Value,
			UpdatedAt:           r.UpdatedAt,
		})
	}
	return converted, nil
}

func optionalID(id uuid.UUID) *string {
	if id == uuid.Nil {
		return nil
	}
	s := id.String()
	return &s
}
