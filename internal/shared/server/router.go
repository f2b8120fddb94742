package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timetable-backend/internal/extract"
	"timetable-backend/internal/shared/config"
	"timetable-backend/internal/shared/server/middleware"
	"timetable-backend/internal/shared/server/respond"
	"timetable-backend/internal/timetables"
)

// RouterDeps carries the wired handlers the router needs.
type RouterDeps struct {
	Config           config.Config
	TimetableHandler *timetables.Handler
	Extractors       *extract.Factory
	UsingDatabase    bool
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		storage := "memory"
		if deps.UsingDatabase {
			storage = "postgres"
		}
		respond.JSON(c, http.StatusOK, gin.H{
			"ok":              true,
			"storage":         storage,
			"defaultProvider": string(deps.Extractors.DefaultProvider()),
			"extractors":      deps.Extractors.Status(),
		})
	})
	deps.TimetableHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
