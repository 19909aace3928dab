package web

import (
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	embedded "github.com/goserg/matchrating"
	"github.com/goserg/matchrating/internal/auth"
	"github.com/goserg/matchrating/internal/config"
	"github.com/goserg/matchrating/internal/metrics"
	"github.com/goserg/matchrating/internal/rating"
	"github.com/goserg/matchrating/internal/service"
	"github.com/goserg/matchrating/internal/web/webpath"
)

type Server struct {
	app      *fiber.App
	cfg      config.Server
	log      *logrus.Entry
	players  *service.PlayerService
	matches  *service.MatchService
	auth     *auth.Service
	metrics  *metrics.Metrics
	validate *validator.Validate
}

func New(
	l *logrus.Logger,
	cfg config.Server,
	ps *service.PlayerService,
	ms *service.MatchService,
	authService *auth.Service,
	m *metrics.Metrics,
) (*Server, error) {
	server := Server{
		cfg:     cfg,
		players: ps,
		matches: ms,
		auth:    authService,
		metrics: m,
		log: l.WithFields(map[string]interface{}{
			"from": "web",
		}),
		validate: newValidator(),
	}

	fsFS, err := fs.Sub(embedded.Views, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(fsFS), ".html")
	engine.Reload(cfg.Debug)
	engine.Debug(cfg.Debug)
	engine.AddFunc("FormatDate", formatDate)
	engine.AddFunc("FormatRating", formatRating)

	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
		ErrorHandler:          server.handleError,
	})
	app.Use(server.requestLogger, server.identify)

	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(m.Handler())
	app.Get(webpath.Metrics, func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	app.Get(webpath.Matches, server.handleListMatches)
	app.Post(webpath.Matches, server.requireViewer, server.handleCreateMatch)
	app.Get(webpath.Match, server.handleGetMatch)
	app.Put(webpath.Match, server.requireViewer, server.handleUpdateMatch)
	app.Delete(webpath.Match, server.requireViewer, server.handleDeleteMatch)
	app.Put(webpath.MatchRatings, server.handleSubmitRatings)
	app.Get(webpath.Players, server.handleSuggestPlayers)
	app.Post(webpath.PlayerClaim, server.handleClaimPlayer)

	app.Get(webpath.Home, server.handleIndexPage)
	app.Get(webpath.MatchPage, server.handleMatchPage)
	app.Get(webpath.JoinPage, server.handleJoinPage)
	app.Get(webpath.RatePage, server.handleRatePage)
	app.Post(webpath.RatePage, server.handleRatePagePost)
	app.Get(webpath.SharePage, server.handleSharePage)

	server.app = app
	return &server, nil
}

func (s *Server) Serve() error {
	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	s.log.WithField("addr", addr).Info("listening")
	if s.cfg.TLSEnabled() {
		return s.app.ListenTLS(addr, s.cfg.CertFile, s.cfg.KeyFile)
	}
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleError renders errors that escaped the handlers, such as unknown routes.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	return s.writeError(c, err)
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

func formatRating(v float64) string {
	if v < rating.Min || v > rating.Max {
		v = rating.Default
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
