package web

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/goserg/matchrating/internal/domain"
	"github.com/goserg/matchrating/internal/service"
	"github.com/goserg/matchrating/internal/storage"
	"github.com/goserg/matchrating/internal/web/webpath"
)

type playerRow struct {
	ID     string
	Name   string
	Rating float64
}

type teamView struct {
	Name    string
	Goals   int
	Players []playerRow
}

type matchView struct {
	ID        int64
	Name      string
	Date      time.Time
	Result    string
	Rating    float64
	Raters    int
	Team1     teamView
	Team2     teamView
	Link      string
	JoinLink  string
	RateLink  string
	ShareLink string
}

func toMatchView(d service.MatchDetails) matchView {
	team := func(t domain.Team) teamView {
		rows := make([]playerRow, 0, len(t.Players))
		for _, p := range t.Players {
			rows = append(rows, playerRow{ID: p.ID.String(), Name: p.Name, Rating: d.PlayerRating(p.ID)})
		}
		return teamView{Name: t.Name, Goals: t.Goals, Players: rows}
	}
	return matchView{
		ID:        d.Match.ID,
		Name:      d.Match.Name,
		Date:      d.Match.Date,
		Result:    string(d.Match.Result),
		Rating:    d.Ratings.MatchRating,
		Raters:    d.Ratings.Raters.Cardinality(),
		Team1:     team(d.Match.Team1),
		Team2:     team(d.Match.Team2),
		Link:      webpath.MatchPath(d.Match.ID),
		JoinLink:  webpath.JoinPath(d.Match.ID),
		RateLink:  webpath.RatePath(d.Match.ID),
		ShareLink: webpath.SharePath(d.Match.ID),
	}
}

func (s *Server) render(c *fiber.Ctx, name string, d data) error {
	return c.Render(name, d.WithViewer(viewerFrom(c)), "layouts/main")
}

func (s *Server) renderError(c *fiber.Ctx, err error) error {
	status, payload := mapError(err)
	page := newData("Error").
		With("Status", status).
		With("Code", payload.Error)
	if status >= fiber.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.Path()).Error("page failed")
	} else {
		page = page.WithErrors(err)
	}
	c.Status(status)
	return s.render(c, "error", page)
}

func (s *Server) pageMatch(c *fiber.Ctx) (service.MatchDetails, error) {
	id, err := parseMatchID(c)
	if err != nil {
		return service.MatchDetails{}, err
	}
	return s.matches.GetMatch(c.UserContext(), id, viewerFrom(c).PlayerIDs())
}

func (s *Server) handleIndexPage(c *fiber.Ctx) error {
	viewer := viewerFrom(c)
	list, err := s.matches.ListMatches(c.UserContext(), nil, viewer.PlayerIDs())
	if err != nil {
		return s.renderError(c, err)
	}
	return s.render(c, "index", newData("Partidos").WithViewer(viewer).WithMatches(list))
}

func (s *Server) handleMatchPage(c *fiber.Ctx) error {
	d, err := s.pageMatch(c)
	if err != nil {
		return s.renderError(c, err)
	}
	return s.render(c, "match", newData("").WithMatch(d))
}

func (s *Server) handleJoinPage(c *fiber.Ctx) error {
	d, err := s.pageMatch(c)
	if err != nil {
		return s.renderError(c, err)
	}
	return s.render(c, "join", newData("¿Quién eres?").WithMatch(d))
}

func (s *Server) handleRatePage(c *fiber.Ctx) error {
	d, err := s.pageMatch(c)
	if err != nil {
		return s.renderError(c, err)
	}
	owner, err := uuid.Parse(c.Query("player"))
	if err != nil || !d.Match.HasPlayer(owner) {
		return c.Redirect(webpath.JoinPath(d.Match.ID))
	}
	return s.renderRate(c, d, owner, nil)
}

func (s *Server) renderRate(c *fiber.Ctx, d service.MatchDetails, owner uuid.UUID, formErr error) error {
	var ownerName string
	for _, p := range d.Match.Roster() {
		if p.ID == owner {
			ownerName = p.Name
		}
	}
	page := newData("Calificar").
		WithMatch(d).
		With("Owner", owner.String()).
		With("OwnerName", ownerName).
		With("FieldPrefix", ratingFieldPrefix)
	if formErr != nil {
		c.Status(fiber.StatusBadRequest)
		page = page.WithErrors(formErr)
	}
	return s.render(c, "rate", page)
}

func (s *Server) handleRatePagePost(c *fiber.Ctx) error {
	d, err := s.pageMatch(c)
	if err != nil {
		return s.renderError(c, err)
	}
	form, err := parseRateForm(c, d.Match)
	if err != nil {
		owner, _ := uuid.Parse(c.FormValue("owner"))
		return s.renderRate(c, d, owner, err)
	}
	viewer := viewerFrom(c)
	_, err = s.matches.SubmitRatings(c.UserContext(), d.Match.ID, service.SubmitRatingsInput{
		OwnerPlayerID: form.owner,
		Ratings:       form.ratings,
	}, viewer.PlayerIDs())
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return s.renderRate(c, d, form.owner, err)
		}
		return s.renderError(c, err)
	}
	if s.auth.Enabled() && !viewer.Known() {
		s.rememberRater(c, form.owner)
	}
	return c.Redirect(webpath.MatchPath(d.Match.ID))
}

// rememberRater hands an anonymous rater a token for a new user owning the rated-as player,
// so later visits see their own ratings. Players owned by someone else are left alone.
func (s *Server) rememberRater(c *fiber.Ctx, playerID uuid.UUID) {
	userID := uuid.New()
	_, err := s.players.Claim(c.UserContext(), playerID, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			s.log.WithError(err).Warn("claim rater")
		}
		return
	}
	cookie, err := s.auth.GenerateJWTCookie(userID)
	if err != nil {
		s.log.WithError(err).Warn("issue token")
		return
	}
	c.Cookie(cookie)
}

func (s *Server) handleSharePage(c *fiber.Ctx) error {
	d, err := s.pageMatch(c)
	if err != nil {
		return s.renderError(c, err)
	}
	base := strings.TrimSuffix(s.cfg.PublicURL, "/")
	if base == "" {
		base = c.BaseURL()
	}
	return s.render(c, "share", newData("Compartir").
		WithMatch(d).
		With("JoinURL", base+webpath.JoinPath(d.Match.ID)))
}
