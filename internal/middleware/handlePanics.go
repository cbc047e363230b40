package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HandlePanics converts a handler panic into a 500 without leaking internals
// to the client.
func HandlePanics() gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).
			Msg("Recovered from handler panic")
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
