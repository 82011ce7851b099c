package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Description string `json:"description"`
	Data        any    `json:"data"`
}

func respondOK(c *gin.Context, message, description string, data any) {
	c.JSON(http.StatusOK, Response{
		Status:      "success",
		Message:     message,
		Description: description,
		Data:        data,
	})
}
