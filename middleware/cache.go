package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"blogmetrics/utils"
)

// bodyCapture tees the response body so a successful answer can be stored
// after the handler ran.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheKey builds the request cache key from the normalized path and the
// sorted query string, so parameter order never splits the cache.
func CacheKey(path string, query url.Values) string {
	pairs := make([]string, 0, len(query))
	for k, vals := range query {
		for _, v := range vals {
			pairs = append(pairs, k+"="+v)
		}
	}
	sort.Strings(pairs)
	return "analytics:" + path + ":" + strings.Join(pairs, "&")
}

// ResponseCache replays cached analytics responses and stores fresh ones.
// Requests narrowed to a single user are not cached to keep the key space
// bounded. Cache writes are best-effort: a body that is not valid JSON is
// skipped, store errors never block the response.
func ResponseCache(cache utils.ResponseCache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()
		cacheable := !query.Has("user")
		key := CacheKey(c.Request.URL.Path, query)

		if cacheable {
			if body, ok := cache.Get(c.Request.Context(), key); ok {
				c.Set(CtxCacheHit, true)
				c.Data(http.StatusOK, "application/json; charset=utf-8", body)
				c.Abort()
				return
			}
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()

		if !cacheable || c.Writer.Status() != http.StatusOK {
			return
		}
		body := capture.buf.Bytes()
		if !json.Valid(body) {
			return
		}
		cache.Set(c.Request.Context(), key, body, ttl)
	}
}
