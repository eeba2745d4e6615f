package kitparts

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
	rg.PATCH("/:id/is_cut", h.SetCut)

	rg.GET("/:id/with_requirements", h.GetWithRequirements)
	rg.GET("/:id/requirements", h.ListRequirements)
	rg.GET("/:id/requirements_with_runners", h.ListRequirementsWithRunner)
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	var in kits.CreateKitPart
	if !apiutil.BindJSON(c, &in) {
		return
	}
	part, err := h.store.KitParts.Create(c.Request.Context(), userID, in)
	apiutil.Respond(c, http.StatusCreated, part, err)
}

// GET /kit_parts?kit_id=&sub_assembly_id=
func (h *Handler) List(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	kitID, ok := apiutil.QueryID(c, "kit_id")
	if !ok {
		return
	}
	subID, ok := apiutil.QueryID(c, "sub_assembly_id")
	if !ok {
		return
	}
	list, err := h.store.KitParts.List(c.Request.Context(), userID, kits.KitPartFilter{KitID: kitID, SubAssemblyID: subID})
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
	part, err := h.store.KitParts.Get(c.Request.Context(), userID, id)
	apiutil.Respond(c, http.StatusOK, part, err)
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
	var in kits.UpdateKitPart
	if !apiutil.BindJSON(c, &in) {
		return
	}
	part, err := h.store.KitParts.Update(c.Request.Context(), userID, id, in)
	apiutil.Respond(c, http.StatusOK, part, err)
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
	apiutil.NoContent(c, h.store.KitParts.Delete(c.Request.Context(), userID, id))
}

// PATCH /kit_parts/:id/is_cut
func (h *Handler) SetCut(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	var body struct {
		IsCut *bool `json:"is_cut" binding:"required"`
	}
	if !apiutil.BindJSON(c, &body) {
		return
	}
	part, err := h.store.SetKitPartCut(c.Request.Context(), userID, id, *body.IsCut)
	apiutil.Respond(c, http.StatusOK, part, err)
}

func (h *Handler) GetWithRequirements(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	part, err := h.store.KitPartWithRequirements(c.Request.Context(), userID, id)
	apiutil.Respond(c, http.StatusOK, part, err)
}

func (h *Handler) ListRequirements(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	list, err := h.store.Requirements.List(c.Request.Context(), userID, kits.RequirementFilter{KitPartID: &id})
	apiutil.Respond(c, http.StatusOK, list, err)
}

func (h *Handler) ListRequirementsWithRunner(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	list, err := h.store.RequirementsWithRunner(c.Request.Context(), userID, id)
	apiutil.Respond(c, http.StatusOK, list, err)
}
