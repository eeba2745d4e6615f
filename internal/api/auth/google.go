package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"

	"kit-inventory/config"
	"kit-inventory/internal/api/apiutil"
	"kit-inventory/internal/domain/users"
	"kit-inventory/internal/logger"
	"kit-inventory/internal/store"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleIssuer    = "https://accounts.google.com"
	stateCookie     = "oauth_state"
	stateCookieTTL  = 300
	stateRandomSize = 32
)

type GoogleConfig struct {
	OAuth            *oauth2.Config
	FrontendRedirect string
}

// NewGoogleConfig returns nil when Google sign-in is not configured.
func NewGoogleConfig(cfg config.Config) *GoogleConfig {
	if !cfg.GoogleEnabled() {
		return nil
	}
	return &GoogleConfig{
		OAuth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		FrontendRedirect: cfg.GoogleFrontendRedirect,
	}
}

func randomState() (string, error) {
	b := make([]byte, stateRandomSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieTTL, "/", "", c.Request.TLS != nil, true)

	c.Redirect(http.StatusFound, h.google.OAuth.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GET /auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie(stateCookie)
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	ctx := c.Request.Context()
	tok, err := h.google.OAuth.Exchange(ctx, code)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warn("google code exchange failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to exchange code"})
		return
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing id_token"})
		return
	}

	claims, err := h.verifyGoogleIDToken(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.findOrCreateGoogleUser(ctx, claims)
	if err != nil {
		apiutil.Fail(c, err)
		return
	}

	if h.google.FrontendRedirect == "" {
		h.respondWithToken(c, http.StatusOK, user)
		return
	}
	token, err := h.issuer.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create token"})
		return
	}
	c.Redirect(http.StatusFound, h.google.FrontendRedirect+"?token="+url.QueryEscape(token))
}

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (h *Handler) verifyGoogleIDToken(ctx context.Context, rawIDToken string) (*googleIDClaims, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, errors.New("failed to init google oidc provider")
	}

	idToken, err := provider.Verifier(&oidc.Config{ClientID: h.google.OAuth.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.New("invalid id_token")
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.New("failed to decode token claims")
	}
	if claims.Sub == "" || claims.Email == "" {
		return nil, errors.New("token missing required claims")
	}
	return &claims, nil
}

// findOrCreateGoogleUser resolves the Google subject to an account. A local account
// whose username is the Google email gets linked; otherwise a new account is created.
func (h *Handler) findOrCreateGoogleUser(ctx context.Context, gc *googleIDClaims) (users.User, error) {
	user, err := h.store.UserByGoogleSubject(ctx, gc.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return users.User{}, err
	}

	user, err = h.store.UserByUsername(ctx, gc.Email)
	switch {
	case err == nil && user.GoogleSub == nil && gc.EmailVerified:
		return h.store.LinkGoogleSubject(ctx, user.ID, gc.Sub)
	case err == nil:
		return users.User{}, &store.Error{Kind: store.KindConflict, Resource: "user", Msg: "username already taken by another account"}
	case !errors.Is(err, store.ErrNotFound):
		return users.User{}, err
	}

	sub, email := gc.Sub, gc.Email
	u := users.User{
		Username:     gc.Email,
		AuthProvider: users.ProviderGoogle,
		GoogleSub:    &sub,
		Email:        &email,
	}
	if gc.Name != "" {
		name := gc.Name
		u.FullName = &name
	}
	if gc.Picture != "" {
		pic := gc.Picture
		u.AvatarURL = &pic
	}
	return h.store.CreateUser(ctx, u)
}
