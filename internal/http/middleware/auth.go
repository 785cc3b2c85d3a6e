package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/interface/http/response"
	"github.com/ignatzorin/rental-backend/internal/logger"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

// ContextActorKey — ключ gin.Context, под которым лежит valueobject.Actor.
const ContextActorKey = "actor"

// TokenParser проверяет access токен провайдера идентификации.
type TokenParser interface {
	Parse(token string) (valueobject.Actor, error)
}

// AuthMiddleware проверяет Bearer токен. Для WebSocket токен принимается
// в query-параметре token, браузер не умеет выставлять заголовки при upgrade.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			response.Error(c, apperror.ErrUnauthorized)
			return
		}

		actor, err := tokens.Parse(raw)
		if err != nil {
			logger.Log.WithFields(logrus.Fields{"path": c.Request.URL.Path, "error": err}).Debug("auth: токен отклонён")
			response.Error(c, apperror.New(apperror.ErrCodeUnauthorized, "токен невалиден"))
			return
		}

		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return c.Query("token")
}

// CurrentActor достаёт пользователя, положенного AuthMiddleware.
func CurrentActor(c *gin.Context) (valueobject.Actor, bool) {
	raw, exists := c.Get(ContextActorKey)
	if !exists {
		return valueobject.Actor{}, false
	}
	actor, ok := raw.(valueobject.Actor)
	return actor, ok
}

// RequireRole пропускает только пользователей с одной из ролей.
func RequireRole(roles ...valueobject.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			response.Error(c, apperror.ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		response.Error(c, apperror.ErrForbidden)
	}
}
