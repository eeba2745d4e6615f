package steam

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"kit-inventory/internal/api/apiutil"
	"kit-inventory/internal/domain/steam"
	steamclient "kit-inventory/internal/infra/steam"
	"kit-inventory/internal/logger"
	"kit-inventory/internal/store"

	"github.com/gin-gonic/gin"
)

// PriceLookup is the part of the Steam client the handlers need.
type PriceLookup interface {
	Price(ctx context.Context, appID int64) (steam.Price, error)
}

type Handler struct {
	store  *store.Store
	prices PriceLookup
}

func NewHandler(s *store.Store, prices PriceLookup) *Handler {
	return &Handler{store: s, prices: prices}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/prices/:appid", h.GetPrice)

	rg.POST("/games", h.CreateGame)
	rg.GET("/games", h.ListGames)
	rg.GET("/games/:id", h.GetGame)
	rg.PATCH("/games/:id", h.UpdateGame)
	rg.DELETE("/games/:id", h.DeleteGame)
}

// GET /steam/prices/:appid
func (h *Handler) GetPrice(c *gin.Context) {
	appID, err := strconv.ParseInt(c.Param("appid"), 10, 64)
	if err != nil || appID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appid"})
		return
	}

	price, err := h.prices.Price(c.Request.Context(), appID)
	switch {
	case errors.Is(err, steamclient.ErrGameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found on steam"})
	case err != nil:
		logger.FromContext(c.Request.Context()).WithError(err).WithField("app_id", appID).Warn("steam price lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "steam store unavailable"})
	default:
		c.JSON(http.StatusOK, price)
	}
}

func (h *Handler) CreateGame(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	var in steam.CreateGame
	if !apiutil.BindJSON(c, &in) {
		return
	}
	game, err := h.store.SteamGames.Create(c.Request.Context(), userID, in)
	apiutil.Respond(c, http.StatusCreated, game, err)
}

func (h *Handler) ListGames(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	list, err := h.store.SteamGames.List(c.Request.Context(), userID, nil)
	apiutil.Respond(c, http.StatusOK, list, err)
}

func (h *Handler) GetGame(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	game, err := h.store.SteamGames.Get(c.Request.Context(), userID, id)
	apiutil.Respond(c, http.StatusOK, game, err)
}

func (h *Handler) UpdateGame(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	var in steam.UpdateGame
	if !apiutil.BindJSON(c, &in) {
		return
	}
	game, err := h.store.SteamGames.Update(c.Request.Context(), userID, id, in)
	apiutil.Respond(c, http.StatusOK, game, err)
}

func (h *Handler) DeleteGame(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	apiutil.NoContent(c, h.store.SteamGames.Delete(c.Request.Context(), userID, id))
}
