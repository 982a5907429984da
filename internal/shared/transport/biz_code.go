package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 业务码与 HTTP 状态码取值一致，>=500 记 ERROR。
const (
	OK           = 0
	InvalidParam = 400
	Unauthorized = 401
	Forbidden    = 403
	NotFound     = 404
	Rejected     = 409
	SystemError  = 500
	Unavailable  = 503
	Timeout      = 504
)

// HTTPStatus 把业务码映射为 HTTP 状态码。
func HTTPStatus(code int) int {
	if code == OK {
		return 200
	}
	if code < 400 || code > 599 {
		return 500
	}
	return code
}
