package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/http/middleware"
	"github.com/ignatzorin/rental-backend/internal/interface/http/response"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// currentActor пишет 401 и возвращает false, если пользователь не определён.
func currentActor(c *gin.Context) (valueobject.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
	}
	return actor, ok
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperror.Newf(apperror.ErrCodeValidation, "параметр %s должен быть валидным UUID", name).
			WithDetail("fields", []string{name}))
		return uuid.Nil, false
	}
	return id, true
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = parseIntQuery(c, "limit", defaultLimit)
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset = parseIntQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// bindJSON принимает пустое тело, обязательность полей проверяют usecase.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "некорректные данные запроса")
		return false
	}
	return true
}
