package routes

import (
	"net/url"

	"github.com/AgusMolinaCode/usuarios-api/internal/config"
	"github.com/AgusMolinaCode/usuarios-api/internal/middleware"
	"github.com/AgusMolinaCode/usuarios-api/internal/repository"
	"github.com/AgusMolinaCode/usuarios-api/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Config      *config.Config
	Store       repository.UserStore
	Credentials *services.Credentials
	Logger      zerolog.Logger
}

// NewRouter monta o gin.Engine com a cadeia de middlewares e as rotas de /users.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecureHeaders())

	// Configurar CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = deps.Config.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-XSRF-TOKEN", "X-Request-ID"}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.CSRF(middleware.CSRFConfig{
		Key:            []byte(deps.Config.CSRFKey),
		Secure:         deps.Config.CookieSecure,
		TrustedOrigins: originHosts(deps.Config.CORSOrigins),
	}))

	RegisterRoutes(router, deps)
	return router
}

// originHosts converte as origens do CORS para o formato host[:porta] do CSRF.
func originHosts(origins []string) []string {
	var hosts []string
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}

func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	users := middleware.NewUserHandlers(deps.Store, deps.Credentials)

	router.GET("/health", users.Health)

	group := router.Group("/users")
	{
		group.POST("", users.Create)
		group.POST("/login", users.Login)
		group.GET("", users.List)
	}

	protected := group.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Credentials))
	{
		protected.PUT("/:id", users.Update)
		protected.DELETE("/:id", users.Delete)
	}
}
