package web

import (
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/goserg/matchrating/internal/auth"
	"github.com/goserg/matchrating/internal/service"
)

const scopeMine = "mine"

func parseMatchID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a positive integer"}})
	}
	return id, nil
}

// respondMatch validates the outgoing representation before writing it.
func (s *Server) respondMatch(c *fiber.Ctx, status int, d service.MatchDetails) error {
	dto := toMatchDTO(d)
	if err := s.validate.Struct(dto); err != nil {
		s.log.WithError(err).WithField("match", d.Match.ID).Error("invalid match representation")
		return c.Status(fiber.StatusInternalServerError).JSON(errorPayload{Error: "internal_error"})
	}
	return c.Status(status).JSON(dto)
}

func (s *Server) handleListMatches(c *fiber.Ctx) error {
	viewer := viewerFrom(c)
	var scope mapset.Set[uuid.UUID]
	if c.Query("scope") == scopeMine {
		if !viewer.Known() {
			return s.writeError(c, auth.ErrNotAuthorized)
		}
		scope = viewer.Players
	}
	list, err := s.matches.ListMatches(c.UserContext(), scope, viewer.PlayerIDs())
	if err != nil {
		return s.writeError(c, err)
	}
	dtos := make([]matchDTO, 0, len(list))
	for _, d := range list {
		dto := toMatchDTO(d)
		if err := s.validate.Struct(dto); err != nil {
			s.log.WithError(err).WithField("match", d.Match.ID).Error("invalid match representation")
			return c.Status(fiber.StatusInternalServerError).JSON(errorPayload{Error: "internal_error"})
		}
		dtos = append(dtos, dto)
	}
	return c.JSON(dtos)
}

func (s *Server) handleGetMatch(c *fiber.Ctx) error {
	id, err := parseMatchID(c)
	if err != nil {
		return s.writeError(c, err)
	}
	d, err := s.matches.GetMatch(c.UserContext(), id, viewerFrom(c).PlayerIDs())
	if err != nil {
		return s.writeError(c, err)
	}
	return s.respondMatch(c, fiber.StatusOK, d)
}

func (s *Server) handleCreateMatch(c *fiber.Ctx) error {
	var req createMatchRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.writeError(c, err)
	}
	viewer := viewerFrom(c)
	d, err := s.matches.CreateMatch(c.UserContext(), req.convert(viewer.UserID))
	if err != nil {
		return s.writeError(c, err)
	}
	return s.respondMatch(c, fiber.StatusCreated, d)
}

func (s *Server) handleUpdateMatch(c *fiber.Ctx) error {
	id, err := parseMatchID(c)
	if err != nil {
		return s.writeError(c, err)
	}
	var req updateMatchRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.writeError(c, err)
	}
	d, err := s.matches.UpdateMatch(c.UserContext(), id, req.convert())
	if err != nil {
		return s.writeError(c, err)
	}
	return s.respondMatch(c, fiber.StatusOK, d)
}

func (s *Server) handleDeleteMatch(c *fiber.Ctx) error {
	id, err := parseMatchID(c)
	if err != nil {
		return s.writeError(c, err)
	}
	if err := s.matches.DeleteMatch(c.UserContext(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleSubmitRatings(c *fiber.Ctx) error {
	id, err := parseMatchID(c)
	if err != nil {
		return s.writeError(c, err)
	}
	var req submitRatingsRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.writeError(c, err)
	}
	d, err := s.matches.SubmitRatings(c.UserContext(), id, req.convert(), viewerFrom(c).PlayerIDs())
	if err != nil {
		return s.writeError(c, err)
	}
	return s.respondMatch(c, fiber.StatusOK, d)
}

func (s *Server) handleSuggestPlayers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	players, err := s.players.Suggest(c.UserContext(), c.Query("q"), limit)
	if err != nil {
		return s.writeError(c, err)
	}
	dtos := make([]playerInfoDTO, 0, len(players))
	for _, p := range players {
		dtos = append(dtos, toPlayerInfoDTO(p))
	}
	return c.JSON(dtos)
}

func (s *Server) handleClaimPlayer(c *fiber.Ctx) error {
	viewer := viewerFrom(c)
	if !viewer.Known() {
		return s.writeError(c, auth.ErrNotAuthorized)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return s.writeError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid id"}}))
	}
	p, err := s.players.Claim(c.UserContext(), id, viewer.UserID)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(toPlayerInfoDTO(p))
}
