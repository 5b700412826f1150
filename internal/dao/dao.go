package dao

import "errors"

// 各dao共用的哨兵错误，service层负责翻译成带ecode的业务错误
var (
	ErrNotFound = errors.New("record not found")
	// ErrStateConflict 当前状态不允许该迁移，前置条件是永久性的，重试无意义
	ErrStateConflict = errors.New("illegal state transition")
	// ErrPermission 资源不属于调用方
	ErrPermission = errors.New("resource does not belong to caller")
	// ErrInvalidEnum 入库时发现未知的action/order_type/status
	ErrInvalidEnum = errors.New("unknown enum value")
	// ErrDuplicate 唯一键冲突
	ErrDuplicate = errors.New("duplicate record")
)
