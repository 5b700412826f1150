package webhook

import (
	"net/http"

	"signalbridge/internal/model"
	"signalbridge/internal/service"
	"signalbridge/internal/trade"
	"signalbridge/pkg/errors"
	"signalbridge/pkg/errors/ecode"
	"signalbridge/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TradingView侧按告警模板里写死的JSON结构发请求，
// 这里的响应也保持裸结构，不走ApiResponse信封。

type Handler struct {
	users     *service.UserService
	processor *service.SignalProcessor
	vd        *trade.Validator
}

func NewHandler(us *service.UserService, sp *service.SignalProcessor, vd *trade.Validator) *Handler {
	return &Handler{users: us, processor: sp, vd: vd}
}

func (h *Handler) HandleTradingView() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var payload model.WebhookPayload
		if err := ctx.ShouldBindJSON(&payload); err != nil {
			ctx.JSON(http.StatusBadRequest, model.WebhookResponse{
				Success: false,
				Message: "Invalid payload: " + err.Error(),
			})
			return
		}

		user, err := h.users.AuthBySecret(ctx.Request.Context(), payload.Secret)
		if err != nil {
			status := http.StatusUnauthorized
			if code, _ := errors.DecodeErr(err); code == ecode.PermissionErr {
				status = http.StatusForbidden
			}
			ctx.JSON(status, model.WebhookResponse{
				Success: false,
				Message: "Invalid webhook secret",
			})
			return
		}

		// 入口级校验，此时还没有账户上下文，用全局和品种边界
		if err := h.vd.Validate(&payload, nil); err != nil {
			ctx.JSON(http.StatusBadRequest, model.WebhookResponse{
				Success: false,
				Message: err.Error(),
			})
			return
		}

		created, err := h.processor.CreateFromWebhook(ctx.Request.Context(), user, &payload)
		if err != nil {
			logger.Errorf("webhook processing failed: %v", err)
			ctx.JSON(http.StatusInternalServerError, model.WebhookResponse{
				Success: false,
				Message: "Failed to process signal",
			})
			return
		}

		// 没有可投递目标不算服务端错误，但对调用方是一次失败的投递
		if len(created) == 0 {
			ctx.JSON(http.StatusOK, model.WebhookResponse{
				Success:        false,
				Message:        "No active accounts found to receive signal",
				SignalsCreated: 0,
			})
			return
		}

		res := model.WebhookResponse{
			Success:        true,
			Message:        "Signal received",
			SignalsCreated: len(created),
		}
		if len(created) == 1 {
			res.SignalID = created[0].ID
		}
		ctx.JSON(http.StatusOK, res)
	}
}
