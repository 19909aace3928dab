package web

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/goserg/matchrating/internal/auth"
	"github.com/goserg/matchrating/internal/service"
)

const viewerKey = "viewer"

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		if herr := s.handleError(c, err); herr != nil {
			return herr
		}
	}
	elapsed := time.Since(start)
	status := c.Response().StatusCode()
	route := c.Route().Path
	s.metrics.ObserveRequest(c.Method(), route, status, elapsed)
	s.log.WithFields(map[string]interface{}{
		"method":  c.Method(),
		"path":    c.Path(),
		"status":  status,
		"latency": elapsed,
	}).Debug("request")
	return nil
}

// identify puts the viewer into the request context. Missing or invalid tokens make an
// anonymous viewer.
func (s *Server) identify(c *fiber.Ctx) error {
	var viewer service.Viewer
	token := auth.TokenFromRequest(c.Cookies(auth.CookieName), c.Get(fiber.HeaderAuthorization))
	if token != "" && s.auth.Enabled() {
		userID, err := s.auth.Verify(token)
		if err != nil {
			s.log.WithError(err).Debug("token rejected")
		} else {
			viewer, err = s.players.Viewer(c.UserContext(), userID)
			if err != nil {
				return s.writeError(c, err)
			}
		}
	}
	c.Context().SetUserValue(viewerKey, viewer)
	return c.Next()
}

// requireViewer rejects anonymous writes while authentication is enabled.
func (s *Server) requireViewer(c *fiber.Ctx) error {
	if s.auth.Enabled() && !viewerFrom(c).Known() {
		return s.writeError(c, auth.ErrNotAuthorized)
	}
	return c.Next()
}

func viewerFrom(c *fiber.Ctx) service.Viewer {
	viewer, _ := c.Context().UserValue(viewerKey).(service.Viewer)
	return viewer
}
