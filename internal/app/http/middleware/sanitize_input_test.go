package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoThroughSanitizer(t *testing.T, method, body string) (int, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.Handle(method, "/echo", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(b))
	})

	req := httptest.NewRequest(method, "/echo", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code, w.Body.String()
}

func TestSanitizeNestedStrings(t *testing.T) {
	code, out := echoThroughSanitizer(t, http.MethodPost,
		`{"name":"<script>x</script>Zaku","qty":3,"items":[{"gate":["<i>A1</i>","A2"]}],"password":"<p>kept</p>"}`)
	require.Equal(t, http.StatusOK, code)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Zaku", got["name"])
	assert.Equal(t, float64(3), got["qty"])
	assert.Equal(t, "<p>kept</p>", got["password"])

	items := got["items"].([]any)
	gate := items[0].(map[string]any)["gate"].([]any)
	assert.Equal(t, []any{"A1", "A2"}, gate)
}

func TestSanitizeKeepsLiteralText(t *testing.T) {
	code, out := echoThroughSanitizer(t, http.MethodPatch,
		`{"name":"Char's Zaku & Gouf","items":[{"gate":["B&C","A<1>","3 > 2"]}],"note":"&lt;script&gt;x&lt;/script&gt;ok"}`)
	require.Equal(t, http.StatusOK, code)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Char's Zaku & Gouf", got["name"])

	items := got["items"].([]any)
	gate := items[0].(map[string]any)["gate"].([]any)
	assert.Equal(t, []any{"B&C", "A<1>", "3 > 2"}, gate)

	// entity-encoded markup does not come back as live markup
	assert.NotContains(t, got["note"], "<script")
	assert.Contains(t, got["note"], "ok")
}

func TestSanitizeRejectsMalformedJSON(t *testing.T) {
	code, _ := echoThroughSanitizer(t, http.MethodPatch, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSanitizeSkipsReads(t *testing.T) {
	code, out := echoThroughSanitizer(t, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, out)
}
