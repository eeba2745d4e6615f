package requirements

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

	rg.POST("/bulk", h.BulkCreate)
	rg.PATCH("/bulk", h.BulkUpdate)
	rg.POST("/bulk_delete", h.BulkDelete)
	rg.PATCH("/sync", h.Sync)
	rg.PATCH("/compare_sync", h.CompareSync)
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	var in kits.CreateRequirement
	if !apiutil.BindJSON(c, &in) {
		return
	}
	req, err := h.store.Requirements.Create(c.Request.Context(), userID, in)
	apiutil.Respond(c, http.StatusCreated, req, err)
}

// GET /requirements?kit_part_id=&runner_id=
func (h *Handler) List(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	partID, ok := apiutil.QueryID(c, "kit_part_id")
	if !ok {
		return
	}
	runnerID, ok := apiutil.QueryID(c, "runner_id")
	if !ok {
		return
	}
	list, err := h.store.Requirements.List(c.Request.Context(), userID, kits.RequirementFilter{KitPartID: partID, RunnerID: runnerID})
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
	req, err := h.store.Requirements.Get(c.Request.Context(), userID, id)
	apiutil.Respond(c, http.StatusOK, req, err)
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
	var in kits.UpdateRequirement
	if !apiutil.BindJSON(c, &in) {
		return
	}
	req, err := h.store.Requirements.Update(c.Request.Context(), userID, id, in)
	apiutil.Respond(c, http.StatusOK, req, err)
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
	apiutil.NoContent(c, h.store.Requirements.Delete(c.Request.Context(), userID, id))
}

// POST /requirements/bulk
func (h *Handler) BulkCreate(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	var in kits.BulkCreateRequirements
	if !apiutil.BindJSON(c, &in) {
		return
	}
	created, err := h.store.BulkCreateRequirements(c.Request.Context(), userID, in)
	apiutil.Respond(c, http.StatusCreated, created, err)
}

// PATCH /requirements/bulk
func (h *Handler) BulkUpdate(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	var in kits.BulkUpdateRequirements
	if !apiutil.BindJSON(c, &in) {
		return
	}
	updated, err := h.store.BulkUpdateRequirements(c.Request.Context(), userID, in)
	apiutil.Respond(c, http.StatusOK, updated, err)
}

// POST /requirements/bulk_delete
func (h *Handler) BulkDelete(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	var in kits.BulkDeleteRequirements
	if !apiutil.BindJSON(c, &in) {
		return
	}
	n, err := h.store.BulkDeleteRequirements(c.Request.Context(), userID, in)
	apiutil.Respond(c, http.StatusOK, gin.H{"deleted": n}, err)
}

// PATCH /requirements/sync applies explicit create, update and delete lists.
func (h *Handler) Sync(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	var in kits.SyncRequirements
	if !apiutil.BindJSON(c, &in) {
		return
	}
	res, err := h.store.SyncRequirements(c.Request.Context(), userID, in)
	apiutil.Respond(c, http.StatusOK, res, err)
}

// PATCH /requirements/compare_sync replaces the part's requirements with the given list.
func (h *Handler) CompareSync(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}
	var in kits.CompareSyncRequirements
	if !apiutil.BindJSON(c, &in) {
		return
	}
	res, err := h.store.CompareSyncRequirements(c.Request.Context(), userID, in)
	apiutil.Respond(c, http.StatusOK, res, err)
}
