package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
)

// NotFound answers requests that matched no route with the JSON error envelope.
func NotFound(c *gin.Context) {
	dto.AbortWithErrorCode(c, dto.ErrorCodeNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
}

// MethodNotAllowed answers requests whose path exists under another method.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(
		dto.ErrorCodeBadRequest,
		"method "+c.Request.Method+" not allowed",
	).WithTraceID(dto.GetTraceID(c)))
}
