package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chapterfin/chapterledger/internal/core/domain"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/dto"
	"github.com/chapterfin/chapterledger/internal/middleware"
)

const defaultReminderDays = 30

// duesHandler handles HTTP requests related to the dues renewal cycle.
type duesHandler struct {
	duesService portssvc.DuesSvcFacade
}

func newDuesHandler(ds portssvc.DuesSvcFacade) *duesHandler {
	return &duesHandler{duesService: ds}
}

// registerDuesRoutes registers routes related to dues.
func registerDuesRoutes(rg *gin.RouterGroup, duesService portssvc.DuesSvcFacade) {
	h := newDuesHandler(duesService)

	duesGroup := rg.Group("/dues")
	{
		duesGroup.POST("/renewals/:year", h.initiateRenewal)
		duesGroup.GET("/renewals/:year", h.getRenewalStatus)
		duesGroup.POST("/renewals/:year/reminders", h.sendReminders)
		duesGroup.GET("/members", h.getMembersDuesList)
	}
}

func parseYearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 || year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return 0, false
	}
	return year, true
}

// initiateRenewal godoc
// @Summary Run the annual dues renewal for a year
// @Description Generates pending dues transactions for members who had cleared dues the prior year. Per-member eligibility failures are collected, not fatal. Safe to re-run.
// @Tags dues
// @Produce  json
// @Param   year path int true "Renewal year"
// @Success 200 {object} dto.RenewalSummary
// @Failure 400 {object} map[string]string "Invalid year"
// @Failure 500 {object} map[string]string "Failed to initiate renewal"
// @Router /dues/renewals/{year} [post]
func (h *duesHandler) initiateRenewal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	year, ok := parseYearParam(c)
	if !ok {
		return
	}
	actor := middleware.GetActorFromContext(c)

	summary, err := h.duesService.InitiateRenewal(c.Request.Context(), year, actor)
	if err != nil {
		logger.Error("Failed to initiate dues renewal", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate renewal"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getRenewalStatus godoc
// @Summary Summarise a year's dues transactions
// @Tags dues
// @Produce  json
// @Param   year path int true "Renewal year"
// @Success 200 {object} dto.RenewalStatus
// @Failure 400 {object} map[string]string "Invalid year"
// @Failure 500 {object} map[string]string "Failed to get renewal status"
// @Router /dues/renewals/{year} [get]
func (h *duesHandler) getRenewalStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	status, err := h.duesService.GetRenewalStatus(c.Request.Context(), year)
	if err != nil {
		logger.Error("Failed to get renewal status", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get renewal status"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// sendReminders godoc
// @Summary Send dues reminders for a year
// @Description Notifies members whose dues transactions have been pending longer than daysOverdue. Senators are excluded.
// @Tags dues
// @Produce  json
// @Param   year path int true "Renewal year"
// @Param   daysOverdue query int false "Days pending before a reminder goes out" default(30)
// @Success 200 {object} dto.RemindersResult
// @Failure 400 {object} map[string]string "Invalid year or daysOverdue"
// @Failure 500 {object} map[string]string "Failed to send reminders"
// @Router /dues/renewals/{year}/reminders [post]
func (h *duesHandler) sendReminders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	year, ok := parseYearParam(c)
	if !ok {
		return
	}
	days := defaultReminderDays
	if v := c.Query("daysOverdue"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid daysOverdue"})
			return
		}
		days = parsed
	}
	actor := middleware.GetActorFromContext(c)

	result, err := h.duesService.SendReminders(c.Request.Context(), year, days, actor)
	if err != nil {
		logger.Error("Failed to send dues reminders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send reminders"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// getMembersDuesList godoc
// @Summary List members joined with their dues state for a year
// @Tags dues
// @Produce  json
// @Param   year query int true "Dues year"
// @Param   membershipType query string false "Membership type filter"
// @Param   duesStatus query string false "Dues status filter"
// @Success 200 {array} dto.MemberDues
// @Failure 400 {object} map[string]string "Invalid query parameter"
// @Failure 500 {object} map[string]string "Failed to list member dues"
// @Router /dues/members [get]
func (h *duesHandler) getMembersDuesList(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing year"})
		return
	}

	params := dto.MembersDuesParams{}
	if v := c.Query("membershipType"); v != "" {
		mt := domain.MembershipType(v)
		params.MembershipType = &mt
	}
	if v := c.Query("duesStatus"); v != "" {
		ds := domain.DuesStatus(v)
		params.DuesStatus = &ds
	}

	list, err := h.duesService.GetMembersDuesList(c.Request.Context(), year, params)
	if err != nil {
		logger.Error("Failed to list member dues", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list member dues"})
		return
	}
	c.JSON(http.StatusOK, list)
}
