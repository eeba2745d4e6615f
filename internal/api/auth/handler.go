package auth

import (
	"errors"
	"net/http"
	"strings"

	"kit-inventory/internal/api/apiutil"
	"kit-inventory/internal/auth"
	"kit-inventory/internal/domain/users"
	"kit-inventory/internal/logger"
	"kit-inventory/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

type Handler struct {
	store  *store.Store
	issuer *auth.Issuer
	google *GoogleConfig
}

// NewHandler builds the account handlers. google may be nil, which turns the Google
// sign-in routes off.
func NewHandler(s *store.Store, issuer *auth.Issuer, google *GoogleConfig) *Handler {
	return &Handler{store: s, issuer: issuer, google: google}
}

// Register mounts the public routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/register", h.SignUp)
	rg.POST("/login", h.Login)
	if h.google != nil {
		rg.GET("/google", h.GoogleStart)
		rg.GET("/google/callback", h.GoogleCallback)
	}
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string     `json:"token"`
	User  users.User `json:"user"`
}

// POST /auth/register
func (h *Handler) SignUp(c *gin.Context) {
	var input credentials
	if !apiutil.BindJSON(c, &input) {
		return
	}
	input.Username = strings.TrimSpace(input.Username)

	if len(input.Username) < minUsernameLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be at least 3 characters long"})
		return
	}
	if len(input.Password) < minPasswordLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long"})
		return
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		logger.FromContext(c.Request.Context()).WithError(err).Error("hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), users.User{
		Username:     input.Username,
		PasswordHash: &hashed,
		AuthProvider: users.ProviderLocal,
	})
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}
	if err != nil {
		apiutil.Fail(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var input credentials
	if !apiutil.BindJSON(c, &input) {
		return
	}

	user, err := h.store.UserByUsername(c.Request.Context(), strings.TrimSpace(input.Username))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		apiutil.Fail(c, err)
		return
	}

	if user.PasswordHash == nil || *user.PasswordHash == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This account uses Google sign-in"})
		return
	}
	if !auth.CheckPassword(*user.PasswordHash, input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, user users.User) {
	token, err := h.issuer.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		logger.FromContext(c.Request.Context()).WithError(err).Error("sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}
	c.JSON(status, tokenResponse{Token: token, User: user})
}
