package apiutil

import (
	"errors"
	"net/http"
	"strconv"

	"kit-inventory/internal/logger"
	"kit-inventory/internal/store"

	"github.com/gin-gonic/gin"
)

// MustUserID returns the principal set by the auth middleware. It answers 401 and
// returns false when there is none.
func MustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// ParamID parses a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// QueryID parses an optional numeric query parameter. A missing value is nil.
func QueryID(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// BindJSON decodes the request body and answers 400 on failure.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// StatusOf maps a store error kind to an HTTP status.
func StatusOf(err error) int {
	switch store.KindOf(err) {
	case store.KindNotFound:
		return http.StatusNotFound
	case store.KindConflict:
		return http.StatusConflict
	case store.KindValidation:
		return http.StatusBadRequest
	case store.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes err as a JSON error. Server side failures are logged with the request
// logger and their details are not sent to the client.
func Fail(c *gin.Context, err error) {
	status := StatusOf(err)
	msg := err.Error()

	switch {
	case status == http.StatusServiceUnavailable:
		logger.FromContext(c.Request.Context()).WithError(err).Warn("storage temporarily unavailable")
		msg = "storage temporarily unavailable, retry later"
	case status >= http.StatusInternalServerError:
		logger.FromContext(c.Request.Context()).WithError(err).Error("storage failure")
		msg = "internal error"
	}

	var serr *store.Error
	if errors.As(err, &serr) && status < http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": msg, "resource": serr.Resource})
		return
	}
	c.JSON(status, gin.H{"error": msg})
}

// Respond writes v with status, or the error when err is set.
func Respond(c *gin.Context, status int, v any, err error) {
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(status, v)
}

// NoContent answers 204, or the error when err is set.
func NoContent(c *gin.Context, err error) {
	if err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
