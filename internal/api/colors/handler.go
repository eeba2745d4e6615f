package colors

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
}

// POST /colors answers 409 when the code is already taken.
func (h *Handler) Create(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	var in kits.CreateColor
	if !apiutil.BindJSON(c, &in) {
		return
	}
	color, err := h.store.Colors.Create(c.Request.Context(), userID, in)
	apiutil.Respond(c, http.StatusCreated, color, err)
}

func (h *Handler) List(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	list, err := h.store.Colors.List(c.Request.Context(), userID, nil)
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
	color, err := h.store.Colors.Get(c.Request.Context(), userID, id)
	apiutil.Respond(c, http.StatusOK, color, err)
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
	var in kits.UpdateColor
	if !apiutil.BindJSON(c, &in) {
		return
	}
	color, err := h.store.Colors.Update(c.Request.Context(), userID, id, in)
	apiutil.Respond(c, http.StatusOK, color, err)
}

// DELETE /colors/:id answers 409 while a runner still uses the color.
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	apiutil.NoContent(c, h.store.Colors.Delete(c.Request.Context(), userID, id))
}
