// README: HTTP front end; registers the planner routes and delegates to module services.
package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nomad/internal/http/handlers"
	"nomad/internal/http/middleware"
	"nomad/internal/metrics"
	"nomad/internal/modules/places"
	"nomad/internal/modules/planner"
	"nomad/internal/modules/workspace"
	"nomad/internal/web"
)

type ServerDeps struct {
	Log            *zap.Logger
	Registry       *workspace.Registry
	Planner        *planner.Service
	Places         *places.Service
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	CookieMaxAge   time.Duration
	SecureCookies  bool
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Server{deps: deps}
}

func (s *Server) Routes() (http.Handler, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("http: parse templates: %w", err)
	}

	r := gin.New()
	r.Use(middleware.Recovery(s.deps.Log), middleware.Logging(s.deps.Log))
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))

	pages := handlers.NewPageHandler()
	r.GET("/", pages.Welcome)

	ui := r.Group("/", middleware.Workspace(s.deps.Registry, int(s.deps.CookieMaxAge.Seconds()), s.deps.SecureCookies))
	ui.GET("/plan", pages.Plan)
	ui.GET("/ui/state", pages.State)
	ui.GET("/ui/feed", pages.Feed)

	sel := handlers.NewSelectionHandler()
	ui.POST("/ui/panels/toggle", sel.TogglePanel)
	ui.POST("/ui/selection/dates", sel.Dates)
	ui.POST("/ui/selection/activities/toggle", sel.ToggleActivity)
	ui.POST("/ui/selection/travelers", sel.Travelers)
	ui.POST("/ui/selection/text", sel.Text)
	ui.POST("/ui/selection/remove", sel.Remove)
	ui.POST("/ui/selection/raw", sel.Raw)

	chat := handlers.NewChatHandler(s.deps.Planner, s.deps.Log)
	ui.POST("/ui/submit", chat.Submit)
	ui.POST("/ui/download", chat.Download)

	placesHandler := handlers.NewPlacesHandler(s.deps.Places, s.deps.Log)
	ui.GET("/ui/places", placesHandler.Suggest)

	socket := handlers.NewFeedSocketHandler(s.deps.AllowedOrigins, s.deps.Log)
	ui.GET("/ui/feed/ws", socket.Serve)

	return r, nil
}
