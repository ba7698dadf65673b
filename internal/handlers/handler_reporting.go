package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/middleware"
)

// reportingHandler handles HTTP requests for read-side reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers routes related to reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/financial", h.getFinancialReport)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/cash-flow", h.getCashFlowStatement)
	}
}

func parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing from"})
		return time.Time{}, time.Time{}, false
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing to"})
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not precede from"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// getFinancialReport godoc
// @Summary Generate the period financial report
// @Tags reports
// @Produce  json
// @Param   from query string true "Period start (RFC3339 or date)"
// @Param   to query string true "Period end (RFC3339 or date)"
// @Success 200 {object} dto.FinancialReport
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /reports/financial [get]
func (h *reportingHandler) getFinancialReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}
	report, err := h.reportingService.GenerateFinancialReport(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to generate financial report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// getIncomeStatement godoc
// @Summary Generate the calendar-year income statement
// @Tags reports
// @Produce  json
// @Param   year query int true "Calendar year"
// @Success 200 {object} dto.IncomeStatement
// @Failure 400 {object} map[string]string "Invalid year"
// @Failure 500 {object} map[string]string "Failed to generate income statement"
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing year"})
		return
	}
	statement, err := h.reportingService.GenerateIncomeStatement(c.Request.Context(), year)
	if err != nil {
		logger.Error("Failed to generate income statement", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate income statement"})
		return
	}
	c.JSON(http.StatusOK, statement)
}

// getBalanceSheet godoc
// @Summary Generate the balance sheet
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Cutoff date (RFC3339 or date), defaults to now"
// @Success 200 {object} dto.BalanceSheet
// @Failure 400 {object} map[string]string "Invalid asOf"
// @Failure 500 {object} map[string]string "Failed to generate balance sheet"
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf := time.Now().UTC()
	if v := c.Query("asOf"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf: " + err.Error()})
			return
		}
		asOf = t
	}
	sheet, err := h.reportingService.GenerateBalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to generate balance sheet", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate balance sheet"})
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// getCashFlowStatement godoc
// @Summary Generate the cash flow statement
// @Tags reports
// @Produce  json
// @Param   from query string true "Period start (RFC3339 or date)"
// @Param   to query string true "Period end (RFC3339 or date)"
// @Success 200 {object} dto.CashFlowStatement
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 500 {object} map[string]string "Failed to generate cash flow statement"
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlowStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}
	statement, err := h.reportingService.GenerateCashFlowStatement(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to generate cash flow statement", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate cash flow statement"})
		return
	}
	c.JSON(http.StatusOK, statement)
}
