package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/response"
)

// MustGetUserID extracts user_id from the Gin context. If the JWT middleware
// did not inject it, writes a 401 and returns false; callers should return
// immediately on ok=false.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "não autenticado")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "não autenticado")
		return "", false
	}
	return s, true
}

// MustGetRole extracts role from the Gin context.
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "não autenticado")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "não autenticado")
		return "", false
	}
	return s, true
}

// MustGetUnitID extracts unit_id from the Gin context.
func MustGetUnitID(c *gin.Context) (string, bool) {
	v, exists := c.Get("unit_id")
	if !exists {
		response.Unauthorized(c, 10002, "não autenticado")
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		response.Unauthorized(c, 10002, "não autenticado")
		return "", false
	}
	return s, true
}
