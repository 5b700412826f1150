package ea

import (
	"errors"
	"net/http"
	"time"

	"signalbridge/internal/dao"
	"signalbridge/internal/middleware"
	"signalbridge/internal/model"
	"signalbridge/internal/service"
	"signalbridge/pkg/logger"

	"github.com/gin-gonic/gin"
)

// EA侧是MQL4/5写的http客户端，响应保持裸结构，字段名是协议的一部分

type Handler struct {
	processor *service.SignalProcessor
}

func NewHandler(sp *service.SignalProcessor) *Handler {
	return &Handler{processor: sp}
}

// GetPendingSignals EA轮询入口，领到的信号原子翻成sent，同一条不会发给两个轮询方
func (h *Handler) GetPendingSignals() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		account := middleware.AccountFromCtx(ctx)
		if account == nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		claimed, err := h.processor.ClaimPending(ctx.Request.Context(), account)
		if err != nil {
			logger.Errorf("claim pending signals failed for account %s: %v", account.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
			return
		}

		signals := make([]model.PendingSignal, 0, len(claimed))
		for i := range claimed {
			signals = append(signals, model.NewPendingSignal(&claimed[i]))
		}
		ctx.JSON(http.StatusOK, model.PendingSignalsResponse{
			Signals:    signals,
			ServerTime: time.Now().UTC(),
		})
	}
}

// ReportResult EA回报执行结果，只接受sent状态的信号
func (h *Handler) ReportResult() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		account := middleware.AccountFromCtx(ctx)
		if account == nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		signalID := ctx.Param("id")
		var result model.SignalResult
		if err := ctx.ShouldBindJSON(&result); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid result payload: " + err.Error()})
			return
		}
		if !result.Success && result.ErrorMessage == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "error_message is required for failed executions"})
			return
		}

		signal, err := h.processor.ReportResult(ctx.Request.Context(), account, signalID, &result)
		if err != nil {
			switch {
			case errors.Is(err, dao.ErrNotFound):
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Signal not found"})
			case errors.Is(err, dao.ErrPermission):
				ctx.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Signal does not belong to this account"})
			case errors.Is(err, dao.ErrStateConflict):
				ctx.JSON(http.StatusConflict, gin.H{"success": false, "message": "Signal is not awaiting a result"})
			default:
				logger.Errorf("apply result failed for signal %s: %v", signalID, err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
			}
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"success":   true,
			"signal_id": signal.ID,
			"status":    signal.Status,
		})
	}
}
