package account

import (
	"signalbridge/internal/consts"
	"signalbridge/internal/dao"
	"signalbridge/internal/model"
	"signalbridge/internal/service"
	"signalbridge/pkg/errors"
	"signalbridge/pkg/errors/ecode"
	"signalbridge/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	accounts *service.AccountService
}

func NewHandler(as *service.AccountService) *Handler {
	return &Handler{accounts: as}
}

// AccountCreate api key明文只在响应里出现这一次
func (h *Handler) AccountCreate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.AccountCreateReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		userID := ctx.GetString(consts.UserID)
		account, err := h.accounts.Create(ctx.Request.Context(), userID, &req)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "接口调用失败"), nil)
			return
		}
		response.JSON(ctx, nil, gin.H{
			"account": account,
			"api_key": account.ApiKey,
		})
	}
}

func (h *Handler) AccountGetList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(consts.UserID)
		accounts, err := h.accounts.List(ctx.Request.Context(), userID)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "接口调用失败"), nil)
			return
		}
		response.JSON(ctx, nil, accounts)
	}
}

func (h *Handler) AccountGetDetail() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(consts.UserID)
		account, err := h.accounts.Get(ctx.Request.Context(), ctx.Param("id"), userID)
		if err != nil {
			h.renderErr(ctx, err)
			return
		}
		response.JSON(ctx, nil, account)
	}
}

func (h *Handler) AccountUpdate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.AccountUpdateReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		userID := ctx.GetString(consts.UserID)
		account, err := h.accounts.Update(ctx.Request.Context(), ctx.Param("id"), userID, &req)
		if err != nil {
			h.renderErr(ctx, err)
			return
		}
		response.JSON(ctx, nil, account)
	}
}

func (h *Handler) AccountDelete() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(consts.UserID)
		if err := h.accounts.Delete(ctx.Request.Context(), ctx.Param("id"), userID); err != nil {
			h.renderErr(ctx, err)
			return
		}
		response.JSON(ctx, nil, gin.H{"deleted": true})
	}
}

// AccountRegenerateKey 旧key立即失效，EA侧需要同步换key
func (h *Handler) AccountRegenerateKey() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(consts.UserID)
		res, err := h.accounts.RegenerateKey(ctx.Request.Context(), ctx.Param("id"), userID)
		if err != nil {
			h.renderErr(ctx, err)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

func (h *Handler) MappingGetList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(consts.UserID)
		mappings, err := h.accounts.ListMappings(ctx.Request.Context(), ctx.Param("id"), userID)
		if err != nil {
			h.renderErr(ctx, err)
			return
		}
		response.JSON(ctx, nil, mappings)
	}
}

func (h *Handler) MappingCreate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.MappingCreateReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, err.Error()), nil)
			return
		}
		userID := ctx.GetString(consts.UserID)
		mapping, err := h.accounts.CreateMapping(ctx.Request.Context(), ctx.Param("id"), userID, &req)
		if err != nil {
			if errors.Is(err, dao.ErrDuplicate) {
				response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "mapping already exists for this symbol"), nil)
				return
			}
			h.renderErr(ctx, err)
			return
		}
		response.JSON(ctx, nil, mapping)
	}
}

func (h *Handler) MappingDelete() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(consts.UserID)
		err := h.accounts.DeleteMapping(ctx.Request.Context(), ctx.Param("mapping_id"), ctx.Param("id"), userID)
		if err != nil {
			h.renderErr(ctx, err)
			return
		}
		response.JSON(ctx, nil, gin.H{"deleted": true})
	}
}

func (h *Handler) renderErr(ctx *gin.Context, err error) {
	if errors.Is(err, dao.ErrNotFound) {
		response.JSON(ctx, errors.WithCode(ecode.NotFoundErr, "account not found"), nil)
		return
	}
	response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "接口调用失败"), nil)
}
