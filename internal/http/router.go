package http

import (
	"net/http"
	"time"

	"github.com/geocoder89/vacationhub/internal/cache"
	"github.com/geocoder89/vacationhub/internal/http/handlers"
	"github.com/geocoder89/vacationhub/internal/http/middlewares"
	"github.com/geocoder89/vacationhub/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	serviceName = "vacationhub"
	jsonMaxBody = 1 << 20
)

type TokenService interface {
	middlewares.TokenVerifier
	handlers.TokenIssuer
}

type AccountService interface {
	handlers.Authenticator
	handlers.UserAdmin
	middlewares.UserResolver
}

type LikeService interface {
	handlers.LikesManager
	handlers.LikedLister
}

// Deps is everything the router wires into handlers. Metrics, Prom, Cache and
// Clock are optional.
type Deps struct {
	Env            string
	AllowedOrigins []string
	ImagesDir      string
	MaxUploadBytes int64

	Prom    *observability.Prom
	Metrics http.Handler
	Checks  map[string]handlers.Check

	Tokens    TokenService
	Accounts  AccountService
	Users     handlers.UserLister
	Roles     handlers.RolesStore
	Countries handlers.CountriesStore
	Vacations handlers.VacationsStore
	Likes     LikeService
	Images    handlers.ImageStore
	Cache     cache.Store
	Clock     func() time.Time
}

func NewRouter(d Deps) *gin.Engine {
	if d.Env != "dev" && d.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-Id", "If-None-Match"},
			ExposeHeaders:    []string{"X-Request-Id", "ETag"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middlewares.MaxBodyBytes(jsonMaxBody, d.MaxUploadBytes+jsonMaxBody))

	// operational
	health := handlers.NewHealthHandler(d.Checks)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}
	if d.ImagesDir != "" {
		r.Static("/images", d.ImagesDir)
	}

	guard := middlewares.NewAuthMiddleware(d.Tokens, d.Accounts, d.Prom)
	jsonOnly := middlewares.RequireContentType("application/json")
	jsonOrForm := middlewares.RequireContentType("application/json", "multipart/form-data", "application/x-www-form-urlencoded")

	authH := handlers.NewAuthHandler(d.Accounts, d.Tokens)
	countriesH := handlers.NewCountriesHandler(d.Countries, d.Cache)
	rolesH := handlers.NewRolesHandler(d.Roles)
	usersH := handlers.NewUsersHandler(d.Accounts, d.Users)
	vacationsH := handlers.NewVacationsHandler(d.Vacations, d.Likes, d.Images)
	if d.Clock != nil {
		vacationsH.SetClock(d.Clock)
	}
	likesH := handlers.NewLikesHandler(d.Likes)

	// public
	r.POST("/register", jsonOnly, authH.Register)
	r.POST("/login", jsonOnly, authH.Login)
	r.POST("/logout", authH.Logout)
	r.GET("/countries", countriesH.List)
	r.GET("/countries/:id", countriesH.Get)

	// authenticated
	authed := r.Group("/")
	authed.Use(guard.RequireAuth())
	{
		authed.GET("/me", authH.Me)

		authed.GET("/vacations", vacationsH.List)
		authed.GET("/vacations/liked", vacationsH.Liked)
		authed.GET("/vacations/:id", vacationsH.Get)

		authed.POST("/likes", jsonOnly, likesH.Like)
		authed.DELETE("/likes", likesH.Unlike)
		authed.DELETE("/likes/:vacationId", likesH.Unlike)
	}

	// admin
	admin := r.Group("/")
	admin.Use(guard.RequireAuth(), guard.RequireAdmin())
	{
		admin.POST("/countries", jsonOnly, countriesH.Create)
		admin.PUT("/countries/:id", jsonOnly, countriesH.Update)
		admin.DELETE("/countries/:id", countriesH.Delete)

		admin.GET("/roles", rolesH.List)
		admin.GET("/roles/:id", rolesH.Get)
		admin.POST("/roles", jsonOnly, rolesH.Create)
		admin.PUT("/roles/:id", jsonOnly, rolesH.Update)
		admin.DELETE("/roles/:id", rolesH.Delete)

		admin.GET("/users", usersH.List)
		admin.GET("/users/:id", usersH.Get)
		admin.POST("/users", jsonOnly, usersH.Create)
		admin.PUT("/users/:id", jsonOnly, usersH.Update)
		admin.DELETE("/users/:id", usersH.Delete)

		admin.POST("/vacations", jsonOrForm, vacationsH.Create)
		admin.PUT("/vacations/:id", jsonOrForm, vacationsH.Update)
		admin.DELETE("/vacations/:id", vacationsH.Delete)
	}

	return r
}
