package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/issue-insights-api/internal/middleware"
)

// middlewareMeta returns the response meta collected for this request, or nil when the
// meta middleware is not installed.
func middlewareMeta(c *gin.Context) map[string]interface{} {
	return middleware.ExtractMeta(c)
}

func respondCached(c *gin.Context, data interface{}, cacheHit bool) {
	middleware.SetCacheHit(c, cacheHit)
	respond(c, data)
}
