package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	"github.com/chapterfin/chapterledger/internal/core/domain"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/core/services"
	"github.com/chapterfin/chapterledger/internal/dto"
	"github.com/chapterfin/chapterledger/internal/middleware"
)

// accountHandler handles HTTP requests related to bank accounts, balances and
// reconciliation.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	balanceService portssvc.BalanceSvcFacade
	reconService   portssvc.ReconciliationSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade, bs portssvc.BalanceSvcFacade, rs portssvc.ReconciliationSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		balanceService: bs,
		reconService:   rs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, balanceService portssvc.BalanceSvcFacade, reconService portssvc.ReconciliationSvcFacade) {
	h := newAccountHandler(accountService, balanceService, reconService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/balance", h.getBalance)
		accounts.POST("/:id/reconcile", h.reconcile)
		accounts.POST("/:id/discrepancies", h.detectDiscrepancies)
		accounts.GET("/:id/reconciliations", h.getReconciliationHistory)
	}
}

// createAccount godoc
// @Summary Create a new bank account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateBankAccountRequest true "Account details"
// @Success 201 {object} domain.BankAccount
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor := middleware.GetActorFromContext(c)

	account, err := h.accountService.CreateBankAccount(c.Request.Context(), req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create account in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}
	c.JSON(http.StatusCreated, account)
}

// getAccount godoc
// @Summary Get a bank account with its derived balance
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, err := h.accountService.GetBankAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to get account from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		}
		return
	}
	c.JSON(http.StatusOK, account)
}

// listAccounts godoc
// @Summary List bank accounts with derived balances
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.BankAccountResponse
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accounts, err := h.accountService.ListBankAccounts(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list accounts from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// getBalance godoc
// @Summary Reconstruct an account balance
// @Description Recomputes the balance from transactions and splits as of a date, broken down by bucket
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   asOf query string false "Cutoff date (RFC3339), defaults to now"
// @Param   bucket query string false "Restrict the total to one bucket"
// @Success 200 {object} domain.Balance
// @Failure 400 {object} map[string]string "Invalid query parameter"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
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
	var bucketFilter *domain.Bucket
	if v := c.Query("bucket"); v != "" {
		bucket := domain.Bucket(v)
		if !domain.ValidBucket(bucket) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bucket: " + v})
			return
		}
		bucketFilter = &bucket
	}

	balance, err := h.balanceService.ComputeBalance(c.Request.Context(), c.Param("id"), asOf, bucketFilter)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to compute balance in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		}
		return
	}
	c.JSON(http.StatusOK, balance)
}

// reconcile godoc
// @Summary Reconcile an account against a statement balance
// @Description Commits a reconciliation record; transactions sweep to Reconciled only when no discrepancies are found
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   request body dto.ReconcileRequest true "Statement balance and cutoff date"
// @Success 200 {object} domain.ReconciliationRecord
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to reconcile account"
// @Router /accounts/{id}/reconcile [post]
func (h *accountHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor := middleware.GetActorFromContext(c)

	record, err := h.reconService.Reconcile(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to reconcile account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile account"})
		}
		return
	}
	c.JSON(http.StatusOK, record)
}

// detectDiscrepancies godoc
// @Summary Detect discrepancies without committing
// @Description Dry-run discrepancy detection against a statement balance
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   request body dto.DetectDiscrepanciesRequest true "Statement balance and cutoff date"
// @Success 200 {array} domain.ReconciliationDiscrepancy
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to detect discrepancies"
// @Router /accounts/{id}/discrepancies [post]
func (h *accountHandler) detectDiscrepancies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DetectDiscrepanciesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	discrepancies, err := h.reconService.DetectDiscrepancies(c.Request.Context(), c.Param("id"), req.StatementBalance, req.Date)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to detect discrepancies in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detect discrepancies"})
		}
		return
	}
	c.JSON(http.StatusOK, discrepancies)
}

// getReconciliationHistory godoc
// @Summary List an account's reconciliation history
// @Tags reconciliation
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {array} domain.ReconciliationRecord
// @Failure 500 {object} map[string]string "Failed to retrieve reconciliation history"
// @Router /accounts/{id}/reconciliations [get]
func (h *accountHandler) getReconciliationHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	records, err := h.reconService.GetReconciliationHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Error("Failed to retrieve reconciliation history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reconciliation history"})
		return
	}
	c.JSON(http.StatusOK, records)
}
