package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ooaoJ/Cities-Resources/internal/shared/transport"
	"github.com/ooaoJ/Cities-Resources/modules/kit/logx"
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 统一写访问日志，业务码优先取响应体里的 code 字段，拒绝原因取 reason 字段。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		action := c.Request.Method + " " + route

		ctx := transport.NewContextWithParent(c.Request.Context(), "http", action)
		c.Request = c.Request.WithContext(ctx)

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		body := parseBody(bw.body.Bytes())
		switch {
		case body.Code != nil:
			transport.SetBizCode(ctx, transport.BizCode(*body.Code))
		case c.Writer.Status() >= http.StatusBadRequest:
			transport.SetBizCode(ctx, transport.BizCode(transport.HTTPStatus(c.Writer.Status())))
		default:
			transport.SetBizCode(ctx, transport.BizCode(transport.OK))
		}
		transport.SetErrorReason(ctx, body.Reason)

		transport.WriteAccessLog(ctx, log)
	}
}

type responseHead struct {
	Code   *int   `json:"code"`
	Reason string `json:"reason"`
}

func parseBody(body []byte) responseHead {
	var head responseHead
	if len(body) == 0 {
		return head
	}
	// 非 JSON 响应忽略
	_ = json.Unmarshal(body, &head)
	return head
}
