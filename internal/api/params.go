package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// intQuery parses an integer query parameter, falling back to the
// default on absence or garbage.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
