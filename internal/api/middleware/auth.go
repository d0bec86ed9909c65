package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/jwt"
	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/redis"
	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/response"
)

// JWTAuth validates the Authorization: Bearer <token> header and injects the
// claims into the context. rdb may be nil; the blacklist check is skipped
// then.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "cabeçalho de autenticação ausente")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "cabeçalho de autenticação inválido")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token inválido ou expirado")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "tipo de token inválido")
			c.Abort()
			return
		}

		if rdb != nil {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && blacklisted {
				response.Unauthorized(c, 10002, "token revogado")
				c.Abort()
				return
			}
			// Redis errors degrade to letting the token through; the
			// signature check above already ran.
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("unit_id", claims.UnitID)
		c.Set("claims", claims)

		c.Next()
	}
}

// RoleAuth allows the request through only when the authenticated role is
// one of allowedRoles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "não autenticado")
			c.Abort()
			return
		}

		userRole := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "sem permissão de acesso")
		c.Abort()
	}
}
