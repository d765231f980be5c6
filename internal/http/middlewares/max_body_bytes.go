package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps request bodies; multipart uploads get the larger limit.
func MaxBodyBytes(jsonMax, uploadMax int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		limit := jsonMax
		if ctx.ContentType() == "multipart/form-data" {
			limit = uploadMax
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit)
		ctx.Next()
	}
}
