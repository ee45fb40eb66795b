// Package errors 提供统一错误分类：配置错误、未知 provider、HTTP 非 2xx、响应无法解析、网络失败
package errors

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// SnippetLimit 错误中保留的响应体最大字符数
const SnippetLimit = 500

// 哨兵错误，配合 errors.Is 判断错误类别
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidArg          = errors.New("invalid argument")
	ErrConfiguration       = errors.New("configuration error")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrTransport           = errors.New("transport error")
	ErrMalformedResponse   = errors.New("malformed response")
	ErrNetwork             = errors.New("network error")
)

// Configuration 构造配置错误（构造函数缺少必填参数时使用）
func Configuration(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// UnsupportedProvider 构造未知 provider 错误，kind 如 "llm"、"embedder"、"translator"
func UnsupportedProvider(kind, name string) error {
	return fmt.Errorf("%w: unknown %s provider %q", ErrUnsupportedProvider, kind, name)
}

// TransportError provider 返回非 2xx 状态码
type TransportError struct {
	StatusCode int
	Status     string
	// Body 为截断后的响应体（provider 错误负载），最多 SnippetLimit 个字符
	Body string
}

func (e *TransportError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	}
	if e.Body == "" {
		return fmt.Sprintf("provider returned HTTP %s", status)
	}
	return fmt.Sprintf("provider returned HTTP %s: %s", status, escapeNewlines(e.Body))
}

// Is 使 errors.Is(err, ErrTransport) 成立
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// MalformedResponseError 响应体不是期望的结构化数据（状态码可能是 200）
type MalformedResponseError struct {
	StatusCode  int
	ContentType string
	Snippet     string
	Err         error
}

func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("expected JSON, got %d %s", e.StatusCode, e.ContentType)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg + "\nSnippet: " + escapeNewlines(e.Snippet)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrMalformedResponse) 成立
func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// NetworkError 请求未能完成（连接失败、chunked 响应中断等），由调用方决定是否可恢复
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrNetwork) 成立
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// Snippet 取 body 前 n 个字符（按 rune 计）
func Snippet(body []byte, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCount(body) <= n {
		return string(body)
	}
	i, count := 0, 0
	for i < len(body) && count < n {
		_, size := utf8.DecodeRune(body[i:])
		i += size
		count++
	}
	return string(body[:i])
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}

// Wrap 包装错误并附加消息
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf 带格式的 Wrap
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
