package users

import (
	"net/http"

	"kit-inventory/internal/api/apiutil"
	"kit-inventory/internal/domain/users"
	"kit-inventory/internal/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store *store.Store
}

func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// GET /auth/me
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}

	user, err := h.store.UserByID(c.Request.Context(), userID)
	if err != nil {
		apiutil.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, buildMeResponse(user))
}

// PATCH /users/me
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := apiutil.MustUserID(c)
	if !ok {
		return
	}

	var in users.UpdateProfile
	if !apiutil.BindJSON(c, &in) {
		return
	}

	user, err := h.store.UpdateProfile(c.Request.Context(), userID, in)
	if err != nil {
		apiutil.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, buildMeResponse(user))
}
