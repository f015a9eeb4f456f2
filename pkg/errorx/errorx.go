package errorx

import (
	"errors"
	"fmt"
)

// CodeError 带业务错误码的自定义错误
// 实现 error 接口，支持 %w 包装底层错误，可被 errors.Is/errors.As 识别
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 错误消息
	cause error  // 被包装的底层错误
}

// Error 实现标准 error 接口
// 存在底层错误时返回 "消息: 底层错误"，否则仅返回消息
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 支持 errors.Is/errors.As 向下追溯
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，添加业务错误码和消息
// 用法: errorx.Wrap(err, CodeNotFound, "部落不存在")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf 包装底层错误，支持格式化消息
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 从错误中提取业务错误码，非 CodeError 返回默认码
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// GetMsg 从错误中提取业务消息，非 CodeError 返回原始 Error()
func GetMsg(err error) string {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Msg
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// 业务状态码常量定义
// 2001-2004 是卡片子系统的四类可恢复业务错误，全部在 handler/dispatcher
// 边界转换为私密响应，不允许让进程崩溃
const (
	CodeSuccess      = 1000 // 成功
	CodeInvalidParam = 1001 // 请求参数错误（ValidationError）
	CodeServerBusy   = 1005 // 服务繁忙
	CodeUnauthorized = 1006 // 未授权/认证失败
	CodeDBError      = 1010 // 数据库错误
	CodeCacheError   = 1011 // 缓存错误

	CodeNotFound           = 2001 // 资源不存在（NotFound）
	CodePermissionDenied   = 2002 // 权限不足（PermissionDenied）
	CodeConflict           = 2003 // 冲突：重名/容量已满（Conflict）
	CodeSurfaceUnreachable = 2004 // 消息面不可达（SurfaceUnreachable）
)

// 预定义常用错误实例，可直接返回，也可用于 errors.Is 比较
var (
	ErrInvalidParam     = New(CodeInvalidParam, "请求参数错误")
	ErrServerBusy       = New(CodeServerBusy, "服务繁忙")
	ErrPermissionDenied = New(CodePermissionDenied, "权限不足")
)

// IsNotFound 检查错误是否为"未找到"类型
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return err != nil && err.Error() == "record not found"
}

// IsConflict 检查错误是否为冲突类型（重名、相册容量上限）
func IsConflict(err error) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr) && codeErr.Code == CodeConflict
}
