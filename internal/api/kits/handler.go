package kits

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
	rg.POST("", h.CreateKit)
	rg.GET("", h.ListKits)
	rg.GET("/:id", h.GetKit)
	rg.PATCH("/:id", h.UpdateKit)
	rg.DELETE("/:id", h.DeleteKit)
	rg.PATCH("/:id/status", h.UpdateStatus)

	rg.GET("/:id/runners", h.ListRunners)
	rg.GET("/:id/runner_colors", h.ListRunnersWithColor)
	rg.GET("/:id/sub_assemblies", h.ListSubAssemblies)
	rg.GET("/:id/kit_parts", h.ListKitParts)
}

// POST /kits
func (h *Handler) CreateKit(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	var in kits.CreateKit
	if !apiutil.BindJSON(c, &in) {
		return
	}
	kit, err := h.store.Kits.Create(c.Request.Context(), userID, in)
	apiutil.Respond(c, http.StatusCreated, kit, err)
}

// GET /kits?status=
func (h *Handler) ListKits(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	list, err := h.store.ListKitsByStatus(c.Request.Context(), userID, c.Query("status"))
	apiutil.Respond(c, http.StatusOK, list, err)
}

// GET /kits/:id returns the kit together with its runners.
func (h *Handler) GetKit(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	kit, err := h.store.KitWithRunners(c.Request.Context(), userID, id)
	apiutil.Respond(c, http.StatusOK, kit, err)
}

func (h *Handler) UpdateKit(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	var in kits.UpdateKit
	if !apiutil.BindJSON(c, &in) {
		return
	}
	kit, err := h.store.Kits.Update(c.Request.Context(), userID, id, in)
	apiutil.Respond(c, http.StatusOK, kit, err)
}

func (h *Handler) DeleteKit(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	apiutil.NoContent(c, h.store.Kits.Delete(c.Request.Context(), userID, id))
}

// PATCH /kits/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status kits.Status `json:"status" binding:"required"`
	}
	if !apiutil.BindJSON(c, &body) {
		return
	}
	kit, err := h.store.UpdateKitStatus(c.Request.Context(), userID, id, body.Status)
	apiutil.Respond(c, http.StatusOK, kit, err)
}

func (h *Handler) ListRunners(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	list, err := h.store.Runners.List(c.Request.Context(), userID, kits.RunnerFilter{KitID: &id})
	apiutil.Respond(c, http.StatusOK, list, err)
}

func (h *Handler) ListRunnersWithColor(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	list, err := h.store.RunnersWithColor(c.Request.Context(), userID, id)
	apiutil.Respond(c, http.StatusOK, list, err)
}

func (h *Handler) ListSubAssemblies(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	list, err := h.store.SubAssemblies.List(c.Request.Context(), userID, kits.SubAssemblyFilter{KitID: &id})
	apiutil.Respond(c, http.StatusOK, list, err)
}

// GET /kits/:id/kit_parts lists the parts with their sub assembly.
func (h *Handler) ListKitParts(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	list, err := h.store.KitPartsWithSubAssembly(c.Request.Context(), userID, id)
	apiutil.Respond(c, http.StatusOK, list, err)
}
