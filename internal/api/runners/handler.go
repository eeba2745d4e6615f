package runners

import (
	"net/http"

	"kit-inventory/internal/api/apiutil"
	"kit-inventory/internal/domain/kits"
	"kit-inventory/internal/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store *store.Store
}

func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PATCH("/:id/status", h.SetUsed)
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	var in kits.CreateRunner
	if !apiutil.BindJSON(c, &in) {
		return
	}
	runner, err := h.store.Runners.Create(c.Request.Context(), userID, in)
	apiutil.Respond(c, http.StatusCreated, runner, err)
}

// GET /runners?kit_id=&color_id=
func (h *Handler) List(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	kitID, ok := apiutil.QueryID(c, "kit_id")
	if !ok {
		return
	}
	colorID, ok := apiutil.QueryID(c, "color_id")
	if !ok {
		return
	}
	list, err := h.store.Runners.List(c.Request.Context(), userID, kits.RunnerFilter{KitID: kitID, ColorID: colorID})
	apiutil.Respond(c, http.StatusOK, list, err)
}

func (h *Handler) Get(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	runner, err := h.store.Runners.Get(c.Request.Context(), userID, id)
	apiutil.Respond(c, http.StatusOK, runner, err)
}

func (h *Handler) Update(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	var in kits.UpdateRunner
	if !apiutil.BindJSON(c, &in) {
		return
	}
	runner, err := h.store.Runners.Update(c.Request.Context(), userID, id, in)
	apiutil.Respond(c, http.StatusOK, runner, err)
}

func (h *Handler) Delete(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	apiutil.NoContent(c, h.store.Runners.Delete(c.Request.Context(), userID, id))
}

// PATCH /runners/:id/status marks the runner used or unused.
func (h *Handler) SetUsed(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	var body struct {
		IsUsed *bool `json:"is_used" binding:"required"`
	}
	if !apiutil.BindJSON(c, &body) {
		return
	}
	runner, err := h.store.SetRunnerUsed(c.Request.Context(), userID, id, *body.IsUsed)
	apiutil.Respond(c, http.StatusOK, runner, err)
}
