package middlewares

import (
	"net/http"
	"strings"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/auth"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/authz"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Gate resolves the caller from a bearer token and checks the
// permission table before the handler runs.
//
// Status mapping is inherited from the system this replaces and is part
// of the wire contract: missing or invalid token answers 403, a valid
// token with an unpermitted role answers 401.
type Gate struct {
	jwt TokenVerifier
}

func NewGate(jwt TokenVerifier) *Gate {
	return &Gate{jwt: jwt}
}

func (g *Gate) Require(op authz.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "token required",
			})
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "token required",
			})
			return
		}

		claims, err := g.jwt.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "invalid token",
			})
			return
		}

		if !authz.Allowed(op, claims.Rol) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "No autorized",
			})
			return
		}

		// Stash the resolved actor on the context
		c.Set(ctxActorIDKey, claims.UserID)
		c.Set(ctxActorRolKey, claims.Rol)

		c.Next()
	}
}

// ActorFromContext returns the identity the gate resolved, so handlers
// don't need to know the magic keys.
func ActorFromContext(c *gin.Context) (authz.Actor, bool) {
	idVal, ok := c.Get(ctxActorIDKey)
	if !ok {
		return authz.Actor{}, false
	}

	rolVal, ok := c.Get(ctxActorRolKey)
	if !ok {
		return authz.Actor{}, false
	}

	id, ok1 := idVal.(int64)
	rol, ok2 := rolVal.(string)

	if !ok1 || !ok2 {
		return authz.Actor{}, false
	}

	return authz.Actor{ID: id, Rol: rol}, true
}
