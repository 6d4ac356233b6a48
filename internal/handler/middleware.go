package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
)

const actorKey = "actor"

// Claims is what the external auth provider signs into the bearer token.
// The core never manages sessions itself; it only maps claims to an Actor.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id,omitempty"`
	Role     string `json:"role"`
}

// Auth parses the Bearer token and stores the explicit Actor on the request
// context. Every core operation receives the Actor as a parameter.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			return
		}

		actor := booking.Actor{
			UserID: userID,
			Role:   model.UserRole(claims.Role),
		}
		if claims.TenantID != "" {
			if tenantID, err := uuid.Parse(claims.TenantID); err == nil {
				actor.TenantID = &tenantID
			}
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the Actor set by Auth.
func ActorFrom(c *gin.Context) booking.Actor {
	v, _ := c.Get(actorKey)
	actor, _ := v.(booking.Actor)
	return actor
}
