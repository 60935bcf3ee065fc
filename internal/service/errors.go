package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Code 是對外可見的錯誤分類
type Code string

const (
	CodeValidation      Code = "VALIDATION"
	CodeNotFound        Code = "NOT_FOUND"
	CodeForbidden       Code = "FORBIDDEN"
	CodeConflict        Code = "CONFLICT"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeInternal        Code = "INTERNAL"
)

// Error 帶有分類碼與可讀訊息的業務錯誤
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func validationError(message string) *Error {
	return newError(CodeValidation, message)
}

func notFoundError(message string) *Error {
	return newError(CodeNotFound, message)
}

func forbiddenError(message string) *Error {
	return newError(CodeForbidden, message)
}

func conflictError(message string) *Error {
	return newError(CodeConflict, message)
}

// internalError 包裝儲存層錯誤
func internalError(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// storeError 將 gorm 錯誤轉成業務錯誤，找不到紀錄時使用 notFound 訊息
func storeError(err error, notFound, failed string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFoundError(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Code: CodeConflict, Message: failed, Err: err}
	default:
		return internalError(failed, err)
	}
}

// CodeOf 取出錯誤分類碼，非業務錯誤一律視為 INTERNAL
func CodeOf(err error) Code {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return CodeInternal
}

// MessageOf 取出可以直接顯示給用戶的訊息
func MessageOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "伺服器內部錯誤"
}
