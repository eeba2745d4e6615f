package i18n

import (
	"net/http"
	"regexp"
	"strings"

	"kit-inventory/internal/logger"

	"github.com/gin-gonic/gin"
)

var segment = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Handler serves translation namespaces laid out as <dir>/<lng>/<ns>.json.
type Handler struct {
	fs http.FileSystem
}

func NewHandler(dir string) *Handler {
	return &Handler{fs: http.Dir(dir)}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/:lng/:ns", h.Serve)
}

// GET /i18n/:lng/:ns
func (h *Handler) Serve(c *gin.Context) {
	lng := c.Param("lng")
	ns := strings.TrimSuffix(c.Param("ns"), ".json")
	if !segment.MatchString(lng) || !segment.MatchString(ns) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Translation not found"})
		return
	}

	name := lng + "/" + ns + ".json"
	f, err := h.fs.Open(name)
	if err != nil {
		logger.FromContext(c.Request.Context()).WithError(err).WithField("file", name).Debug("translation missing")
		c.JSON(http.StatusNotFound, gin.H{"error": "Translation not found"})
		return
	}
	f.Close()

	c.Header("Cache-Control", "public, max-age=300")
	c.FileFromFS(name, h.fs)
}
