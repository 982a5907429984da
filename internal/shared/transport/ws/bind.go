package ws

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

// BindJSON 按 json tag 把 WsMsgReq.Body.Msg 解到目标结构体。
func BindJSON(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errors.New("ws request body is nil")
	}
	if req.Body.Msg == nil {
		return errors.New("ws request msg is empty")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           dst,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(req.Body.Msg)
}
