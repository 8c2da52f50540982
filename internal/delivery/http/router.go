package http

import (
	"fmt"
	"io/fs"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	httpH "github.com/aliskhannn/finpath/internal/delivery/http/handlers"
	httpMW "github.com/aliskhannn/finpath/internal/delivery/http/middleware"
	"github.com/aliskhannn/finpath/web"
)

type RouterConfig struct {
	PageHandler   *httpH.PageHandler
	QuizHandler   *httpH.QuizHandler
	HealthHandler *httpH.HealthHandler

	Logger      *zap.Logger
	Tracing     bool
	ServiceName string
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestLogger(cfg.Logger))

	tmpl, err := httpH.LoadTemplates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	r.StaticFS("/static", nethttp.FS(static))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Pages
	if cfg.PageHandler != nil {
		r.GET("/", cfg.PageHandler.Home)
		r.GET("/lessons", cfg.PageHandler.Lessons)
		r.NoRoute(cfg.PageHandler.NotFound)
	}

	// Quiz
	if cfg.QuizHandler != nil {
		r.GET("/quiz", cfg.QuizHandler.Start)
		r.POST("/quiz/answer", cfg.QuizHandler.Answer)
	}

	return r, nil
}
