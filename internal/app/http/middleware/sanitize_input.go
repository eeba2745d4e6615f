package middleware

import (
	"bytes"
	"html"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"
)

// sanitize passes before an entity-laden string is given up on and returned escaped
const maxSanitizePasses = 4

// fields that are never rewritten
var rawFields = map[string]bool{
	"password": true,
}

// SanitizeAndCleanInputMiddleware strips markup from every string of a JSON body,
// nested objects and arrays included.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		var body any
		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}

		newBody, err := json.Marshal(sanitize(policy, body))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}

func sanitize(policy *bluemonday.Policy, v any) any {
	switch t := v.(type) {
	case string:
		return sanitizeText(policy, t)
	case map[string]any:
		for k, inner := range t {
			if rawFields[k] {
				continue
			}
			t[k] = sanitize(policy, inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = sanitize(policy, inner)
		}
		return t
	default:
		return v
	}
}

// sanitizeText strips markup but returns plain text as typed. bluemonday escapes the text
// it keeps, so the result is unescaped and run again until it stops changing; markup
// smuggled in as entities is stripped on the next pass.
func sanitizeText(policy *bluemonday.Policy, s string) string {
	for range maxSanitizePasses {
		clean := html.UnescapeString(policy.Sanitize(s))
		if clean == s {
			return s
		}
		s = clean
	}
	return policy.Sanitize(s)
}
