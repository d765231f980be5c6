package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireContentType rejects write requests whose body is not one of the
// given media types, e.g. "application/json" or "multipart/form-data".
func RequireContentType(types ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			ct := strings.ToLower(c.GetHeader("Content-Type"))
			for _, t := range types {
				// allow "application/json; charset=utf-8"
				if strings.HasPrefix(ct, t) {
					c.Next()
					return
				}
			}
			abortWithError(c, http.StatusUnsupportedMediaType, "unsupported_media_type",
				"Content-Type must be one of: "+strings.Join(types, ", "))
			return
		}
		c.Next()
	}
}
