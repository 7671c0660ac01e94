package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind คือรหัส error แบบคงที่ ให้ฝั่ง client แยกได้ว่า retry ได้หรือไม่
// (conflict เท่านั้นที่ควร retry นอกนั้นคือจบแล้ว)
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
)

// Error คือ error ของฝั่ง business ที่มีทั้ง Kind และข้อความสำหรับคน
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New สร้าง error จาก Kind กับข้อความ
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap เหมือน New แต่ห่อ error ต้นเหตุไว้ด้วย
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf คืน Kind ของ error ถ้าไม่ใช่ error ของเราจะได้ "" กลับไป
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind เช็คว่า error เป็น Kind ที่ระบุหรือไม่
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf คืนข้อความสำหรับแสดงให้ผู้ใช้ ถ้าไม่ใช่ error ของเราให้ใช้ fallback
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}

// HTTPStatus แปลง Kind เป็น HTTP status code
// error ที่ไม่รู้จักถือว่าเป็นปัญหาฝั่ง server (500)
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
