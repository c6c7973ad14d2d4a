package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/riddim-exe/riddim/domain"
)

func ErrorResponse(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, domain.ErrorResponse{Code: code, Message: message})
}

func SuccessResponse(c *gin.Context, key string, data interface{}, count int) {
	c.JSON(http.StatusOK, gin.H{
		"riddim-response": gin.H{
			"status": "ok",
			key:      data,
			"count":  count,
		},
	})
}

// ErrorStatus 领域错误到 HTTP 状态码与错误码的映射
func ErrorStatus(err error) (int, string) {
	var pe *domain.ProcessError
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, "INVALID_ID"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDefaultFileNotFound):
		return http.StatusNotFound, "DEFAULT_FILE_NOT_FOUND"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, domain.ErrGeneratorNotConfigured):
		return http.StatusServiceUnavailable, "GENERATOR_NOT_CONFIGURED"
	case errors.Is(err, domain.ErrToolNotInstalled):
		return http.StatusServiceUnavailable, "TOOL_NOT_INSTALLED"
	case errors.Is(err, domain.ErrCorruptedFile):
		return http.StatusUnprocessableEntity, "CORRUPTED_FILE"
	case errors.As(err, &pe):
		return http.StatusBadGateway, "PROCESS_FAILED"
	}
	return http.StatusInternalServerError, "SERVER_ERROR"
}

func DomainErrorResponse(c *gin.Context, err error) {
	status, code := ErrorStatus(err)
	ErrorResponse(c, status, code, err.Error())
}
