package actors

import (
	"github.com/ooaoJ/Cities-Resources/internal/shared/actor/messages"
	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
)

var (
	ErrWorldNotReady = errx.NewSys(errx.CodeUnavailable, "世界未就绪")
	ErrBadRequest    = errx.NewBiz(errx.CodeInvalidParam, "请求参数错误")
)

func ok(payload any) *messages.Reply {
	return &messages.Reply{Payload: payload}
}

func fail(err error) *messages.Reply {
	return &messages.Reply{Err: err}
}
