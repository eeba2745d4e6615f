package subassemblies

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

func (h *Handler) Create(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	var in kits.CreateSubAssembly
	if !apiutil.BindJSON(c, &in) {
		return
	}
	sub, err := h.store.SubAssemblies.Create(c.Request.Context(), userID, in)
	apiutil.Respond(c, http.StatusCreated, sub, err)
}

// GET /sub_assemblies?kit_id=
func (h *Handler) List(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	kitID, ok := apiutil.QueryID(c, "kit_id")
	if !ok {
		return
	}
	list, err := h.store.SubAssemblies.List(c.Request.Context(), userID, kits.SubAssemblyFilter{KitID: kitID})
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
	sub, err := h.store.SubAssemblies.Get(c.Request.Context(), userID, id)
	apiutil.Respond(c, http.StatusOK, sub, err)
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
	var in kits.UpdateSubAssembly
	if !apiutil.BindJSON(c, &in) {
		return
	}
	sub, err := h.store.SubAssemblies.Update(c.Request.Context(), userID, id, in)
	apiutil.Respond(c, http.StatusOK, sub, err)
}

// DELETE /sub_assemblies/:id also removes the parts filed under it.
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	apiutil.NoContent(c, h.store.SubAssemblies.Delete(c.Request.Context(), userID, id))
}
