package middlewares

import (
	"github.com/gin-gonic/gin"
)

// abortWithError writes the standard error envelope and stops the chain.
func abortWithError(ctx *gin.Context, status int, code, message string) {
	reqID, _ := ctx.Get(CtxRequestID)
	id, _ := reqID.(string)

	ctx.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":      code,
			"message":   message,
			"requestId": id,
		},
	})
}
