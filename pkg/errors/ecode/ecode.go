package ecode

// 业务错误码，0表示成功，非0表示各类失败
const (
	Success = 0

	Unknown          = 10001 // 未知错误
	ValidateErr      = 10002 // 参数或业务校验失败
	RequireAuthErr   = 10003 // 鉴权失败
	NotFoundErr      = 10004 // 资源不存在或不属于当前调用方
	PermissionErr    = 10005 // 无权操作该资源
	StateConflictErr = 10006 // 当前状态不允许该操作（非瞬时错误，重试无效）
	RateLimitErr     = 10007 // 请求过于频繁
)

var messages = map[int]string{
	Success:          "OK",
	Unknown:          "internal error",
	ValidateErr:      "validation failed",
	RequireAuthErr:   "authentication required",
	NotFoundErr:      "not found",
	PermissionErr:    "permission denied",
	StateConflictErr: "state conflict",
	RateLimitErr:     "too many requests",
}

// Text 返回错误码的默认文案
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[Unknown]
}
