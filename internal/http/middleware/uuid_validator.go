package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/interface/http/response"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

// UUIDValidator проверяет, что параметр пути является UUID.
// Использование: router.GET("/applications/:id", UUIDValidator("id"), h.Get)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param(paramName)); err != nil {
			response.Error(c, apperror.Newf(apperror.ErrCodeValidation, "параметр %s должен быть валидным UUID", paramName).
				WithDetail("fields", []string{paramName}))
			return
		}
		c.Next()
	}
}
