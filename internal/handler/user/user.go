package user

import (
	"signalbridge/internal/consts"
	"signalbridge/internal/model"
	"signalbridge/internal/service"
	"signalbridge/pkg/errors"
	"signalbridge/pkg/errors/ecode"
	"signalbridge/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	users *service.UserService
}

func NewHandler(us *service.UserService) *Handler {
	return &Handler{users: us}
}

func (h *Handler) Register() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.RegisterReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		user, err := h.users.Register(ctx.Request.Context(), &req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, gin.H{
			"id":             user.ID,
			"email":          user.Email,
			"webhook_secret": user.WebhookSecret,
		})
	}
}

func (h *Handler) Login() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.LoginReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		res, err := h.users.Login(ctx.Request.Context(), &req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

func (h *Handler) Info() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(consts.UserID)
		info, err := h.users.Info(ctx.Request.Context(), userID)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "接口调用失败"), nil)
			return
		}
		response.JSON(ctx, nil, info)
	}
}

// RegenerateWebhookSecret 换secret后TradingView告警模板里的secret也要跟着改
func (h *Handler) RegenerateWebhookSecret() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(consts.UserID)
		secret, err := h.users.RegenerateWebhookSecret(ctx.Request.Context(), userID)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "接口调用失败"), nil)
			return
		}
		response.JSON(ctx, nil, gin.H{"webhook_secret": secret})
	}
}
