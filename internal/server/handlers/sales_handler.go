package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/domain/models"
	"github.com/mamadbah2/salesbook/internal/service/reporting"
	"github.com/mamadbah2/salesbook/internal/service/sales"
)

// SalesService is the application logic behind the sales endpoints.
type SalesService interface {
	Submit(ctx context.Context, form sales.Form) (sales.Result, error)
	Lookup(ctx context.Context, date string) (models.SalesRecord, bool, error)
	Summary(ctx context.Context, year, month int) (models.MonthlySummary, error)
}

// BusinessDays resolves the previous business day.
type BusinessDays interface {
	LastBusinessDay(ctx context.Context) (time.Time, error)
}

// SalesHandler exposes record lookup, submission and monthly summaries.
type SalesHandler struct {
	svc      SalesService
	calendar BusinessDays
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewSalesHandler constructs the HTTP handler adapter.
func NewSalesHandler(svc SalesService, calendar BusinessDays, location *time.Location, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &SalesHandler{svc: svc, calendar: calendar, location: location, logger: logger, now: time.Now}
}

// GetRecord returns the record stored for the :date path parameter.
func (h *SalesHandler) GetRecord(c *gin.Context) {
	record, found, err := h.svc.Lookup(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if !found {
		c.JSON(http.StatusOK, lookupResponse{Exists: false})
		return
	}

	c.JSON(http.StatusOK, lookupResponse{Exists: true, RecordPayload: newRecordPayload(record)})
}

// SubmitRecord creates or overwrites the record for the submitted date.
func (h *SalesHandler) SubmitRecord(c *gin.Context) {
	form, err := readForm(c)
	if err != nil {
		h.logger.Warn("invalid record payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	body := gin.H{
		"status":     "success",
		"created":    result.Created,
		"email_sent": result.EmailSent,
		"record":     newRecordPayload(result.Record),
	}
	if result.EmailErr != nil {
		h.logger.Warn("record saved without notification", zap.String("date", result.Record.Key()), zap.Error(result.EmailErr))
		body["warning"] = "record saved but the notification email could not be sent"
	}

	c.JSON(http.StatusOK, body)
}

type businessDayRequest struct {
	BusinessDay string `json:"businessDay"`
}

// CheckBusinessDay reports whether figures exist for the posted businessDay.
func (h *SalesHandler) CheckBusinessDay(c *gin.Context) {
	var req businessDayRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.BusinessDay) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "businessDay is required"})
		return
	}

	record, found, err := h.svc.Lookup(c.Request.Context(), req.BusinessDay)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if !found {
		h.logger.Info("no figures for business day", zap.String("date", req.BusinessDay))
		c.JSON(http.StatusOK, gin.H{"status": "not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": newRecordPayload(record)})
}

// LastBusinessDay returns the previous business day and whether it has been entered.
func (h *SalesHandler) LastBusinessDay(c *gin.Context) {
	day, err := h.calendar.LastBusinessDay(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	key := day.Format(models.DateLayout)
	_, found, err := h.svc.Lookup(c.Request.Context(), key)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"businessDay": key, "exists": found})
}

// Summary returns the aggregate of ?month=YYYY-MM, defaulting to the current month.
func (h *SalesHandler) Summary(c *gin.Context) {
	now := h.now().In(h.location)
	year, month := now.Year(), int(now.Month())

	if raw := c.Query("month"); raw != "" {
		var err error
		year, month, err = reporting.ParseMonth(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
			return
		}
	}

	summary, err := h.svc.Summary(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newSummaryResponse(summary))
}

// readForm accepts either a JSON object or a url-encoded/multipart form.
func readForm(c *gin.Context) (sales.Form, error) {
	if c.ContentType() != gin.MIMEJSON {
		return sales.FormFromValues(c.PostForm), nil
	}

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		return sales.Form{}, err
	}

	return sales.FormFromValues(func(field string) string {
		switch v := raw[field].(type) {
		case nil:
			return ""
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			// Other JSON types are passed on as text.
			return strings.TrimSpace(fmt.Sprint(v))
		}
	}), nil
}
