package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/repository/sheets"
	"github.com/mamadbah2/salesbook/internal/service/sales"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var invalid *sales.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": invalid.Error(), "field": invalid.Field})
	case errors.Is(err, sheets.ErrFileAccess):
		logger.Error("sales sheet unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sales sheet is not accessible"})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
