package signal

import (
	"encoding/csv"
	"strconv"
	"time"

	"signalbridge/internal/consts"
	"signalbridge/internal/dao"
	"signalbridge/internal/model"
	"signalbridge/internal/model/entity"
	"signalbridge/internal/service"
	"signalbridge/pkg/errors"
	"signalbridge/pkg/errors/ecode"
	"signalbridge/pkg/logger"
	"signalbridge/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
)

// 管理端信号接口，走JWT鉴权和ApiResponse信封

type Handler struct {
	processor *service.SignalProcessor
}

func NewHandler(sp *service.SignalProcessor) *Handler {
	return &Handler{processor: sp}
}

func (h *Handler) SignalGetList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.SignalListReq
		if err := ctx.ShouldBindQuery(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		userID := ctx.GetString(consts.UserID)
		signals, total, err := h.processor.List(ctx.Request.Context(), userID, req)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "接口调用失败"), nil)
			return
		}
		pages := total / int64(req.PerPage)
		if total%int64(req.PerPage) > 0 {
			pages++
		}
		response.JSON(ctx, nil, model.SignalListResponse{
			Signals: signals,
			Total:   total,
			Page:    req.Page,
			PerPage: req.PerPage,
			Pages:   pages,
		})
	}
}

func (h *Handler) SignalGetDetail() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(consts.UserID)
		signal, err := h.processor.GetForUser(ctx.Request.Context(), ctx.Param("id"), userID)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				response.JSON(ctx, errors.WithCode(ecode.NotFoundErr, "signal not found"), nil)
			} else {
				response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "接口调用失败"), nil)
			}
			return
		}
		response.JSON(ctx, nil, signal)
	}
}

// SignalCancel 只允许取消pending的信号，已被领取或已到终态一律按查不到处理
func (h *Handler) SignalCancel() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(consts.UserID)
		err := h.processor.Cancel(ctx.Request.Context(), userID, ctx.Param("id"))
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				response.JSON(ctx, errors.WithCode(ecode.NotFoundErr, "no cancellable signal"), nil)
			} else {
				response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "接口调用失败"), nil)
			}
			return
		}
		response.JSON(ctx, nil, gin.H{"cancelled": true})
	}
}

// SignalExportCSV 按当前过滤条件导出，最多导出10000条
func (h *Handler) SignalExportCSV() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.SignalListReq
		if err := ctx.ShouldBindQuery(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		req.Page = 1
		req.PerPage = 100
		userID := ctx.GetString(consts.UserID)

		ctx.Header("Content-Type", "text/csv; charset=utf-8")
		ctx.Header("Content-Disposition", `attachment; filename="signals.csv"`)

		w := csv.NewWriter(ctx.Writer)
		record := []string{"id", "account_id", "symbol", "action", "order_type",
			"quantity", "price", "take_profit", "stop_loss",
			"status", "error_message", "created_at", "sent_at", "executed_at"}
		var werr error
		werr = multierr.Append(werr, w.Write(record))

		const maxExport = 10000
		exported := 0
		for exported < maxExport {
			signals, _, err := h.processor.List(ctx.Request.Context(), userID, req)
			if err != nil {
				break
			}
			for i := range signals {
				werr = multierr.Append(werr, w.Write(csvRecord(&signals[i])))
				exported++
			}
			if len(signals) < req.PerPage {
				break
			}
			req.Page++
		}
		w.Flush()
		werr = multierr.Append(werr, w.Error())
		if werr != nil {
			logger.Warnf("csv export incomplete: %v", werr)
		}
	}
}

func csvRecord(s *entity.Signal) []string {
	return []string{
		s.ID, s.AccountID, s.Symbol, s.Action, s.OrderType,
		fmtFloat(s.Quantity), fmtFloat(s.Price), fmtFloat(s.TakeProfit), fmtFloat(s.StopLoss),
		s.Status, s.ErrorMessage,
		s.CreatedAt.Format(consts.TimeLayout), fmtTimePtr(s.SentAt), fmtTimePtr(s.ExecutedAt),
	}
}

func fmtFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(consts.TimeLayout)
}
