package utils

import "github.com/gin-gonic/gin"

// Success writes a 200 response with the standard success envelope, merging
// the given payload keys next to "success": true.
func Success(ctx *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	ctx.JSON(200, body)
}

// Fail writes an error response with the standard failure envelope.
func Fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"success": false, "error": message})
}

// FailWithDetails writes a failure envelope carrying a machine-readable
// details payload, used for field-level validation errors.
func FailWithDetails(ctx *gin.Context, status int, message string, details interface{}) {
	ctx.JSON(status, gin.H{"success": false, "error": message, "details": details})
}
