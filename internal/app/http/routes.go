package routes

import (
	"net/http"

	authapi "kit-inventory/internal/api/auth"
	colorsapi "kit-inventory/internal/api/colors"
	i18napi "kit-inventory/internal/api/i18n"
	kitpartsapi "kit-inventory/internal/api/kitparts"
	kitsapi "kit-inventory/internal/api/kits"
	requirementsapi "kit-inventory/internal/api/requirements"
	runnersapi "kit-inventory/internal/api/runners"
	steamapi "kit-inventory/internal/api/steam"
	subassembliesapi "kit-inventory/internal/api/subassemblies"
	usersapi "kit-inventory/internal/api/users"
	"kit-inventory/internal/app/http/middleware"
	"kit-inventory/internal/auth"
	"kit-inventory/internal/store"

	"github.com/gin-gonic/gin"
)

const APIPrefix = "/v2/api"

type Deps struct {
	Store   *store.Store
	Issuer  *auth.Issuer
	Prices  steamapi.PriceLookup
	Google  *authapi.GoogleConfig
	I18nDir string // empty leaves /i18n unmounted
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		if err := d.Store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.I18nDir != "" {
		i18napi.NewHandler(d.I18nDir).Register(r.Group("/i18n"))
	}

	api := r.Group(APIPrefix)
	api.Use(middleware.SanitizeAndCleanInputMiddleware())

	authHandler := authapi.NewHandler(d.Store, d.Issuer, d.Google)
	usersHandler := usersapi.NewHandler(d.Store)
	authHandler.Register(api.Group("/auth"))

	// Authenticated
	private := api.Group("/")
	private.Use(middleware.AuthMiddleware(d.Issuer))

	private.GET("/auth/me", usersHandler.GetCurrentUser)
	private.PATCH("/users/me", usersHandler.UpdateProfile)

	kitsapi.NewHandler(d.Store).Register(private.Group("/kits"))
	subassembliesapi.NewHandler(d.Store).Register(private.Group("/sub_assemblies"))
	kitpartsapi.NewHandler(d.Store).Register(private.Group("/kit_parts"))
	requirementsapi.NewHandler(d.Store).Register(private.Group("/requirements"))
	runnersapi.NewHandler(d.Store).Register(private.Group("/runners"))
	colorsapi.NewHandler(d.Store).Register(private.Group("/colors"))
	steamapi.NewHandler(d.Store, d.Prices).Register(private.Group("/steam"))
}
