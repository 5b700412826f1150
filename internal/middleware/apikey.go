package middleware

import (
	"errors"

	"signalbridge/internal/consts"
	"signalbridge/internal/dao"
	"signalbridge/internal/model/entity"
	pkgerrors "signalbridge/pkg/errors"
	"signalbridge/pkg/errors/ecode"
	"signalbridge/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthApiKey EA轮询鉴权。key从X-API-Key请求头取，
// 兼容只能拼query的旧版EA客户端。账户实体放进context供handler使用。
func AuthApiKey(accounts dao.AccountDao) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(consts.ApiKeyHeader)
		if apiKey == "" {
			apiKey = c.Query(consts.ApiKeyQuery)
		}
		if apiKey == "" {
			response.JSON(c, pkgerrors.WithCode(ecode.RequireAuthErr, "missing api key"), nil)
			c.Abort()
			return
		}

		account, err := accounts.AccountGetByApiKey(c.Request.Context(), apiKey)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				response.JSON(c, pkgerrors.WithCode(ecode.RequireAuthErr, "invalid api key"), nil)
			} else {
				response.JSON(c, pkgerrors.Wrap(err, ecode.Unknown, "auth failed"), nil)
			}
			c.Abort()
			return
		}
		if !account.IsActive {
			response.JSON(c, pkgerrors.WithCode(ecode.RequireAuthErr, "account disabled"), nil)
			c.Abort()
			return
		}

		c.Set(consts.AccountCtx, account)
		c.Next()
	}
}

// AccountFromCtx 取出AuthApiKey放进去的账户实体
func AccountFromCtx(c *gin.Context) *entity.MTAccount {
	v, ok := c.Get(consts.AccountCtx)
	if !ok {
		return nil
	}
	account, _ := v.(*entity.MTAccount)
	return account
}
