package errx

// 跨模块统一的系统类错误码，用于告警与排障归一化。
// 业务域错误码（例如 BUILD_REJECTED）由各业务包自行定义。

const (
	// CodeInternal 服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用（存储/下游/网络）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 请求或依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeInvalidParam 请求参数错误。
	CodeInvalidParam Code = "INVALID_PARAM"
	// CodeNotFound 资源不存在。
	CodeNotFound Code = "NOT_FOUND"
)

var (
	ErrInternal     = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable  = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout      = NewSys(CodeTimeout, "请求超时")
	ErrInvalidParam = NewBiz(CodeInvalidParam, "请求参数错误")
	ErrNotFound     = NewBiz(CodeNotFound, "资源不存在")
)
