package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response helpers matching the wire contract: every error body carries
// a "message", server faults additionally carry the underlying "error"
// detail.

func RespondMessage(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"message": message})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"message": message,
		"details": details,
	})
}

func RespondServerFault(ctx *gin.Context, message string, err error) {
	detail := ""

	if err != nil {
		detail = err.Error()
	}

	ctx.JSON(http.StatusInternalServerError, gin.H{
		"message": message,
		"error":   detail,
	})
}
