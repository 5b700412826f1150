package errors

import (
	stderrors "errors"
	"fmt"

	"signalbridge/pkg/errors/ecode"
)

// 带业务错误码的error，handler层统一通过DecodeErr还原成响应码和文案

type withCode struct {
	code  int
	msg   string
	cause error
}

func (e *withCode) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *withCode) Unwrap() error { return e.cause }

// New 创建一个不带错误码的普通error
func New(msg string) error {
	return stderrors.New(msg)
}

// WithCode 创建一个带错误码的error
func WithCode(code int, msg string) error {
	if msg == "" {
		msg = ecode.Text(code)
	}
	return &withCode{code: code, msg: msg}
}

// WithCodef 创建一个带错误码的error，支持格式化
func WithCodef(code int, format string, args ...interface{}) error {
	return &withCode{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap 包装err并附加错误码和说明，err为nil时返回nil
func Wrap(err error, code int, msg string) error {
	if err == nil {
		if code == ecode.Success {
			return &withCode{code: code, msg: msg}
		}
		return nil
	}
	return &withCode{code: code, msg: msg, cause: err}
}

// Wrapf 同Wrap，支持格式化
func Wrapf(err error, code int, format string, args ...interface{}) error {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// DecodeErr 解出错误码和文案，nil表示成功
func DecodeErr(err error) (int, string) {
	if err == nil {
		return ecode.Success, "OK"
	}
	var wc *withCode
	if stderrors.As(err, &wc) {
		return wc.code, wc.msg
	}
	return ecode.Unknown, err.Error()
}

// Code 只取错误码
func Code(err error) int {
	code, _ := DecodeErr(err)
	return code
}

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }
