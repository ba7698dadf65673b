package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chapterfin/chapterledger/internal/apperrors"
	portssvc "github.com/chapterfin/chapterledger/internal/core/ports/services"
	"github.com/chapterfin/chapterledger/internal/core/services"
	"github.com/chapterfin/chapterledger/internal/dto"
	"github.com/chapterfin/chapterledger/internal/middleware"
)

// splitHandler handles HTTP requests related to transaction splits.
type splitHandler struct {
	splitService portssvc.SplitSvcFacade
}

func newSplitHandler(ss portssvc.SplitSvcFacade) *splitHandler {
	return &splitHandler{splitService: ss}
}

// registerSplitRoutes registers routes related to splits.
func registerSplitRoutes(rg *gin.RouterGroup, splitService portssvc.SplitSvcFacade) {
	h := newSplitHandler(splitService)

	rg.PUT("/transactions/:id/splits", h.upsertSplits)
	rg.GET("/transactions/:id/splits", h.getSplits)

	splits := rg.Group("/splits")
	{
		splits.PUT("/:id", h.updateSplit)
		splits.DELETE("/:id", h.deleteSplit)
	}
}

// upsertSplits godoc
// @Summary Replace a transaction's split set
// @Description Present ids update, new entries create, missing existing splits delete. The set must sum to the parent amount.
// @Tags splits
// @Accept  json
// @Produce  json
// @Param   id path string true "Parent transaction ID"
// @Param   request body dto.UpsertSplitsRequest true "Split set"
// @Success 200 {array} domain.TransactionSplit
// @Failure 400 {object} map[string]string "Invalid input or sum mismatch"
// @Failure 404 {object} map[string]string "Parent transaction not found"
// @Failure 500 {object} map[string]string "Failed to upsert splits"
// @Router /transactions/{id}/splits [put]
func (h *splitHandler) upsertSplits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertSplitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor := middleware.GetActorFromContext(c)

	splits, err := h.splitService.UpsertSplits(c.Request.Context(), c.Param("id"), req.Splits, actor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSplitSumMismatch), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrParentNotFound), errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Parent transaction not found"})
		default:
			logger.Error("Failed to upsert splits in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upsert splits"})
		}
		return
	}
	c.JSON(http.StatusOK, splits)
}

// getSplits godoc
// @Summary List a transaction's splits
// @Tags splits
// @Produce  json
// @Param   id path string true "Parent transaction ID"
// @Success 200 {array} domain.TransactionSplit
// @Failure 500 {object} map[string]string "Failed to list splits"
// @Router /transactions/{id}/splits [get]
func (h *splitHandler) getSplits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	splits, err := h.splitService.GetSplits(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Error("Failed to list splits from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list splits"})
		return
	}
	c.JSON(http.StatusOK, splits)
}

// updateSplit godoc
// @Summary Update one split
// @Description An amount change re-validates the full-parent sum invariant.
// @Tags splits
// @Accept  json
// @Produce  json
// @Param   id path string true "Split ID"
// @Param   request body dto.UpdateSplitRequest true "Fields to update"
// @Success 200 {object} domain.TransactionSplit
// @Failure 400 {object} map[string]string "Invalid input or sum mismatch"
// @Failure 404 {object} map[string]string "Split not found"
// @Failure 500 {object} map[string]string "Failed to update split"
// @Router /splits/{id} [put]
func (h *splitHandler) updateSplit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor := middleware.GetActorFromContext(c)

	split, err := h.splitService.UpdateSplit(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSplitSumMismatch), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Split not found"})
		default:
			logger.Error("Failed to update split in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update split"})
		}
		return
	}
	c.JSON(http.StatusOK, split)
}

// deleteSplit godoc
// @Summary Delete one split
// @Description Deleting the last split restores the parent's original category.
// @Tags splits
// @Produce  json
// @Param   id path string true "Split ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Split not found"
// @Failure 500 {object} map[string]string "Failed to delete split"
// @Router /splits/{id} [delete]
func (h *splitHandler) deleteSplit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor := middleware.GetActorFromContext(c)
	if err := h.splitService.DeleteSplit(c.Request.Context(), c.Param("id"), actor); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Split not found"})
		} else {
			logger.Error("Failed to delete split in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete split"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
