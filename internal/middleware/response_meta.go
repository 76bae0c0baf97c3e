package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// MetaKey names a field of the response envelope's meta object.
type MetaKey string

const (
	MetaCacheHit       MetaKey = "cache_hit"
	MetaCount          MetaKey = "count"
	MetaProcessingTime MetaKey = "processing_time_ms"
	MetaEntrySaved     MetaKey = "entry_saved"
	MetaSummaryUpdated MetaKey = "summary_updated"
	MetaSummaryError   MetaKey = "summary_error"
	MetaRecordedBy     MetaKey = "recorded_by"
)

const responseMetaKey = "response_meta"

type responseMeta struct {
	start  time.Time
	fields map[MetaKey]interface{}
}

// WithResponseMeta starts the request clock and meta storage. Handlers read
// the collected fields through ExtractMeta right before writing the envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, &responseMeta{start: time.Now(), fields: map[MetaKey]interface{}{}})
		c.Next()
	}
}

// SetMeta records one meta field for the current response.
func SetMeta(c *gin.Context, key MetaKey, value interface{}) {
	if c == nil {
		return
	}
	metaFor(c).fields[key] = value
}

// SetCacheHit records whether the roster was served from Redis.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, MetaCacheHit, hit)
}

// SetCount records the number of items in the response data.
func SetCount(c *gin.Context, n int) {
	SetMeta(c, MetaCount, n)
}

// ExtractMeta returns a copy of the collected fields, plus the elapsed
// processing time when WithResponseMeta is mounted. Nil means nothing was set.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	value, exists := c.Get(responseMetaKey)
	if !exists {
		return nil
	}
	meta, ok := value.(*responseMeta)
	if !ok {
		return nil
	}
	out := make(map[string]interface{}, len(meta.fields)+1)
	for k, v := range meta.fields {
		out[string(k)] = v
	}
	if !meta.start.IsZero() {
		out[string(MetaProcessingTime)] = time.Since(meta.start).Milliseconds()
	}
	return out
}

func metaFor(c *gin.Context) *responseMeta {
	if value, exists := c.Get(responseMetaKey); exists {
		if meta, ok := value.(*responseMeta); ok {
			return meta
		}
	}
	meta := &responseMeta{fields: map[MetaKey]interface{}{}}
	c.Set(responseMetaKey, meta)
	return meta
}
