package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/salesbook/internal/domain/models"
	"github.com/mamadbah2/salesbook/internal/repository/sheets"
	"github.com/mamadbah2/salesbook/internal/service/notify"
	"github.com/mamadbah2/salesbook/internal/service/sales"
)

type fakeSales struct {
	records  map[string]models.SalesRecord
	form     sales.Form
	err      error
	emailErr error
	year     int
	month    int
}

func (f *fakeSales) Submit(ctx context.Context, form sales.Form) (sales.Result, error) {
	f.form = form
	if f.err != nil {
		return sales.Result{}, f.err
	}
	record, err := form.Record()
	if err != nil {
		return sales.Result{}, err
	}
	_, exists := f.records[record.Key()]
	f.records[record.Key()] = record
	return sales.Result{Record: record, Created: !exists, EmailSent: f.emailErr == nil, EmailErr: f.emailErr}, nil
}

func (f *fakeSales) Lookup(ctx context.Context, date string) (models.SalesRecord, bool, error) {
	if f.err != nil {
		return models.SalesRecord{}, false, f.err
	}
	if _, err := sales.ParseDay(date); err != nil {
		return models.SalesRecord{}, false, err
	}
	r, ok := f.records[date]
	return r, ok, nil
}

func (f *fakeSales) Summary(ctx context.Context, year, month int) (models.MonthlySummary, error) {
	f.year, f.month = year, month
	if f.err != nil {
		return models.MonthlySummary{}, f.err
	}
	var summary models.MonthlySummary
	summary.Year, summary.Month = year, month
	for _, r := range f.records {
		summary.Rows = append(summary.Rows, models.SummaryRow{Record: r, AverageSpend: r.AverageSpend()})
		summary.TotalPriceSum += r.TotalPrice.IntPart()
	}
	return summary, nil
}

type fixedCalendar time.Time

func (f fixedCalendar) LastBusinessDay(ctx context.Context) (time.Time, error) {
	return time.Time(f), nil
}

func may1() models.SalesRecord {
	return models.SalesRecord{
		Date:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Sets:       4,
		Customers:  10,
		TotalPrice: decimal.NewFromInt(500),
	}
}

func newSalesEngine(svc *fakeSales) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSalesHandler(svc, fixedCalendar(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)), time.UTC, nil)
	h.now = func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.GET("/records/:date", h.GetRecord)
	r.POST("/records", h.SubmitRecord)
	r.GET("/business-day", h.LastBusinessDay)
	r.POST("/business-day", h.CheckBusinessDay)
	r.GET("/summary", h.Summary)
	return r
}

func perform(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGetRecord(t *testing.T) {
	svc := &fakeSales{records: map[string]models.SalesRecord{"2024-05-01": may1()}}
	r := newSalesEngine(svc)

	w, body := perform(r, httptest.NewRequest(http.MethodGet, "/records/2024-05-01", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["exists"])
	assert.Equal(t, "2024-05-01", body["date"])
	assert.Equal(t, float64(10), body["customers"])
	assert.Equal(t, "500", body["total_price"])
	assert.Equal(t, "50", body["average_spend"])

	w, body = perform(r, httptest.NewRequest(http.MethodGet, "/records/2024-05-02", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"exists": false}, body)

	w, body = perform(r, httptest.NewRequest(http.MethodGet, "/records/tomorrow", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, sales.FieldDate, body["field"])
}

func TestSubmitRecordJSON(t *testing.T) {
	svc := &fakeSales{records: map[string]models.SalesRecord{}}
	r := newSalesEngine(svc)

	w, body := perform(r, jsonRequest(http.MethodPost, "/records",
		`{"date":"2024-05-01","sets":4,"customers":"10","total_price":500.5,"remarks":null}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, true, body["created"])
	assert.Equal(t, true, body["email_sent"])
	assert.NotContains(t, body, "warning")
	assert.Equal(t, "4", svc.form.Sets)
	assert.Equal(t, "500.5", svc.form.TotalPrice)
	assert.Equal(t, "", svc.form.Remarks)
}

func TestSubmitRecordForm(t *testing.T) {
	svc := &fakeSales{records: map[string]models.SalesRecord{"2024-05-01": may1()}}
	r := newSalesEngine(svc)

	form := url.Values{"date": {"2024-05-01"}, "customers": {"12"}, "total_price": {"600"}}
	req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w, body := perform(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["created"])
	assert.Equal(t, 12, svc.records["2024-05-01"].Customers)
}

func TestSubmitRecordEmailFailureIsWarning(t *testing.T) {
	svc := &fakeSales{
		records:  map[string]models.SalesRecord{},
		emailErr: fmt.Errorf("%w: dial tcp: timeout", notify.ErrEmailDelivery),
	}
	r := newSalesEngine(svc)

	w, body := perform(r, jsonRequest(http.MethodPost, "/records", `{"date":"2024-05-01"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["email_sent"])
	assert.Contains(t, body, "warning")
	assert.Contains(t, svc.records, "2024-05-01")
}

func TestSubmitRecordErrors(t *testing.T) {
	svc := &fakeSales{records: map[string]models.SalesRecord{}}
	r := newSalesEngine(svc)

	w, body := perform(r, jsonRequest(http.MethodPost, "/records", `{"date":"2024-05-01","customers":-3}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, sales.FieldCustomers, body["field"])

	w, _ = perform(r, jsonRequest(http.MethodPost, "/records", `{"date":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = fmt.Errorf("open workbook: %w", sheets.ErrFileAccess)
	w, _ = perform(r, jsonRequest(http.MethodPost, "/records", `{"date":"2024-05-01"}`))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	svc.err = errors.New("boom")
	w, _ = perform(r, jsonRequest(http.MethodPost, "/records", `{"date":"2024-05-01"}`))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCheckBusinessDay(t *testing.T) {
	svc := &fakeSales{records: map[string]models.SalesRecord{"2024-05-01": may1()}}
	r := newSalesEngine(svc)

	w, body := perform(r, jsonRequest(http.MethodPost, "/business-day", `{"businessDay":"2024-05-01"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", body["status"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2024-05-01", data["date"])

	w, body = perform(r, jsonRequest(http.MethodPost, "/business-day", `{"businessDay":"2024-05-02"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"status": "not found"}, body)

	w, _ = perform(r, jsonRequest(http.MethodPost, "/business-day", `{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLastBusinessDayEndpoint(t *testing.T) {
	svc := &fakeSales{records: map[string]models.SalesRecord{}}
	r := newSalesEngine(svc)

	w, body := perform(r, httptest.NewRequest(http.MethodGet, "/business-day", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-05-02", body["businessDay"])
	assert.Equal(t, false, body["exists"])
}

func TestSummaryEndpoint(t *testing.T) {
	svc := &fakeSales{records: map[string]models.SalesRecord{"2024-05-01": may1()}}
	r := newSalesEngine(svc)

	w, body := perform(r, httptest.NewRequest(http.MethodGet, "/summary?month=2024-05", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(500), body["total_price_sum"])
	rows, ok := body["rows"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "50", rows[0].(map[string]interface{})["average_spend"])

	_, _ = perform(r, httptest.NewRequest(http.MethodGet, "/summary", nil))
	assert.Equal(t, 2024, svc.year)
	assert.Equal(t, 6, svc.month)

	w, _ = perform(r, httptest.NewRequest(http.MethodGet, "/summary?month=May", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
