package validator

import (
	"sync"

	"signalbridge/internal/model/entity"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// LazyInitGinValidator 给gin的validator引擎注册自定义校验规则，
// 必须在第一次绑定请求之前调用
func LazyInitGinValidator() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// 交易动作枚举，买卖/挂单/平仓/改单之外一律拒绝
		_ = v.RegisterValidation("tradeaction", func(fl validator.FieldLevel) bool {
			return entity.ValidAction(fl.Field().String())
		})
	})
}
