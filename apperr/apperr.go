package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Kind is the closed set of failures this API can report. Handlers return
// *Error values; nothing else crosses the request boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidationFailed
	KindConflict
	KindInvalidCredential
	KindInvalidToken
	KindTokenExpired
	KindForbidden
	KindNotFound
	KindInvalidProductRef
	KindInsufficientStock
	KindEmptyCart
	KindCartStale
)

type Error struct {
	Kind    Kind
	Field   string // set for KindValidationFailed
	Message string // caller-facing message
	Base    error  // underlying cause, logged for KindUnknown only
}

func (e *Error) Error() string {
	if e.Base != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Base)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Base }

// Is lets errors.Is match two *Error values by kind, so sentinel-style
// comparisons work without string matching.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation reports the first offending field, matching the one-field-at-a-time
// contract of the API.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidationFailed, Field: field, Message: message}
}

func Unknown(base error) *Error {
	return &Error{Kind: KindUnknown, Message: "未知錯誤", Base: base}
}

// Shared instances for conditions whose message never varies.
var (
	ErrConflict          = New(KindConflict, "信箱已註冊 或 帳號名稱已被使用")
	ErrInvalidCredential = New(KindInvalidCredential, "帳號或密碼錯誤")
	ErrInvalidToken      = New(KindInvalidToken, "JWT 無效")
	ErrTokenExpired      = New(KindTokenExpired, "JWT 過期")
	ErrForbidden         = New(KindForbidden, "沒有管理員權限")
	ErrNotFound          = New(KindNotFound, "查無資料")
	ErrProductNotFound   = New(KindNotFound, "查無商品")
	ErrInvalidProductRef = New(KindInvalidProductRef, "ID 格式錯誤")
	ErrInsufficientStock = New(KindInsufficientStock, "商品庫存不足")
	ErrEmptyCart         = New(KindEmptyCart, "購物車沒有商品")
	ErrCartStale         = New(KindCartStale, "購物車商品已下架 或 暫時無庫存，請重新選購")
)

// Status maps a kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case KindValidationFailed, KindInvalidProductRef, KindInsufficientStock, KindEmptyCart, KindCartStale:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindInvalidCredential, KindInvalidToken, KindTokenExpired:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// From normalizes any error into an *Error. Non-taxonomy errors become
// KindUnknown so transient store failures never leak details to callers.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unknown(err)
}

const loggerKey = "apperr.logger"

// WithLogger stores a request-scoped logger for Fail to use.
func WithLogger(c *gin.Context, log *zap.Logger) {
	c.Set(loggerKey, log)
}

func loggerFrom(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.NewNop()
}

// Fail writes the failure response in the stable {success, message} shape and
// aborts the request. Unknown errors are logged with their cause; the caller
// only ever sees the generic message.
func Fail(c *gin.Context, err error) {
	appErr := From(err)
	if appErr.Kind == KindUnknown {
		loggerFrom(c).Error("unhandled server error",
			zap.String("path", c.FullPath()),
			zap.Error(appErr.Base),
		)
	}
	c.AbortWithStatusJSON(Status(appErr.Kind), gin.H{
		"success": false,
		"message": appErr.Message,
	})
}

// OK writes the success envelope. A nil result omits the result field.
func OK(c *gin.Context, result any) {
	body := gin.H{
		"success": true,
		"message": "",
	}
	if result != nil {
		body["result"] = result
	}
	c.JSON(http.StatusOK, body)
}
