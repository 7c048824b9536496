package web

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/scienceol/chemstock/docs"
	"github.com/scienceol/chemstock/internal/config"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/middleware/metrics"
	"github.com/scienceol/chemstock/pkg/web/views/bottle"
	"github.com/scienceol/chemstock/pkg/web/views/chemical"
	"github.com/scienceol/chemstock/pkg/web/views/feed"
	"github.com/scienceol/chemstock/pkg/web/views/health"
	"github.com/scienceol/chemstock/pkg/web/views/location"
	"github.com/scienceol/chemstock/pkg/web/views/lookup"
	"github.com/scienceol/chemstock/pkg/web/views/sse"
	"github.com/scienceol/chemstock/pkg/web/views/stats"
)

// NewRouter installs middleware and routes; the returned func releases
// long-lived handler resources.
func NewRouter(ctx context.Context, g *gin.Engine) context.CancelFunc {
	installMiddleware(g)
	return installURL(ctx, g)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	server := config.Global().Server
	g.Use(cors.Default())
	g.Use(otelgin.Middleware(fmt.Sprintf("%s-%s", server.Platform, server.Service)))
	g.Use(logger.LogWithWriter())
	if err := RegisterValidators(); err != nil {
		logger.Errorf(context.Background(), "register validators err: %+v", err)
	}
}

func installURL(ctx context.Context, g *gin.Engine) context.CancelFunc {
	g.GET("/metrics", metrics.Handler())

	api := g.Group("/api")
	api.GET("/health", health.Health)
	api.GET("/health/live", health.Live)
	api.GET("/health/ready", health.Ready)
	docs.SwaggerInfo.BasePath = "/api/v1"
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	fHandle := feed.NewFeedHandle(ctx)

	v1 := api.Group("/v1")
	{
		h := chemical.NewHandle()
		r := v1.Group("/chemicals")
		r.GET("", h.List)
		r.POST("", h.Create)
		r.GET("/:id", h.Get)
		r.PUT("/:id", h.Update)
		r.DELETE("/:id", h.Delete)
	}
	{
		h := bottle.NewHandle()
		r := v1.Group("/bottles")
		r.GET("", h.List)
		r.POST("", h.Create)
		r.POST("/bulk-status", h.BulkStatus)
		r.GET("/:id", h.Get)
		r.PUT("/:id", h.Update)
		r.DELETE("/:id", h.Delete)
	}
	{
		h := location.NewHandle()
		r := v1.Group("/locations")
		r.GET("", h.List)
		r.POST("", h.Create)
		r.GET("/:id", h.Get)
		r.PUT("/:id", h.Update)
		r.DELETE("/:id", h.Delete)
	}
	{
		h := lookup.NewHandle()
		r := v1.Group("/lookup")
		r.GET("/cas/:casNumber", h.CAS)
		r.GET("/search", h.Search)
		r.GET("/sds/:casNumber", h.SDS)
	}
	v1.GET("/stats", stats.NewHandle().Get)
	v1.GET("/ws/inventory", fHandle.Inventory)
	v1.GET("/events/inventory", sse.NewHandle(fHandle.Service()).Notify)

	return func() {
		if err := fHandle.Close(ctx); err != nil {
			logger.Errorf(ctx, "close inventory feed err: %+v", err)
		}
	}
}
