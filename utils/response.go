package utils

import "github.com/gin-gonic/gin"

// ErrorResponse is the body of every non-200 answer from the analytics API.
type ErrorResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// ClientError writes a structured client error and stops the handler chain.
func ClientError(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// ServerError writes a 500 without leaking collaborator error details.
func ServerError(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(500, ErrorResponse{Error: message})
}

// RateLimited writes the throttling response with a retry hint in seconds.
func RateLimited(ctx *gin.Context, retryAfter int) {
	ctx.AbortWithStatusJSON(429, ErrorResponse{
		Error:      "Rate limit exceeded. Please try again later.",
		RetryAfter: retryAfter,
	})
}
