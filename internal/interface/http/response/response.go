package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rental-backend/internal/logger"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// Fields отдаёт 200 с именованными полями на верхнем уровне рядом с success.
func Fields(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		if k != "success" {
			body[k] = v
		}
	}
	c.JSON(http.StatusOK, body)
}

func Paginated(c *gin.Context, data interface{}, count, limit, offset int) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Success:    true,
		Data:       data,
		Pagination: Pagination{Limit: limit, Offset: offset, Count: count},
	})
}

// Error отдаёт {success:false, error, code, ...details}. Для 5xx клиент получает
// общее сообщение, подробности уходят в лог.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.Wrap(err, apperror.ErrCodeDependencyFailure, "внутренняя ошибка сервера")
	}

	body := gin.H{
		"success": false,
		"error":   appErr.Message,
		"code":    string(appErr.Code),
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"code":   appErr.Code,
			"error":  err.Error(),
		}).Error("http: ошибка обработки запроса")
		body["error"] = "внутренняя ошибка сервера"
	} else {
		for k, v := range appErr.Details {
			if _, reserved := body[k]; !reserved {
				body[k] = v
			}
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus, body)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, apperror.New(apperror.ErrCodeValidation, message))
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, apperror.New(apperror.ErrCodeUnauthorized, message))
}

func Forbidden(c *gin.Context, message string) {
	Error(c, apperror.New(apperror.ErrCodeForbidden, message))
}
