package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-think/openssl"

	"github.com/ooaoJ/Cities-Resources/internal/shared/security"
)

// EncodeFrame 帧格式：json -> AES-CBC(零填充，key 为空时跳过) -> zlib。
func EncodeFrame(body any, key string) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}
	if key != "" {
		raw, err = security.AesCBCEncrypt(raw, []byte(key), []byte(key), openssl.ZEROS_PADDING)
		if err != nil {
			return nil, fmt.Errorf("encrypt frame: %w", err)
		}
	}
	return security.Zip(raw)
}

// DecodeFrame 是 EncodeFrame 的逆过程。
func DecodeFrame(data []byte, key string, dst any) error {
	if len(data) == 0 {
		return errors.New("empty frame")
	}
	raw, err := security.UnZip(data)
	if err != nil {
		return fmt.Errorf("unzip frame: %w", err)
	}
	if key != "" {
		raw, err = security.AesCBCDecrypt(raw, []byte(key), []byte(key), openssl.ZEROS_PADDING)
		if err != nil {
			return errDecrypt{err}
		}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal frame: %w", err)
	}
	return nil
}

type errDecrypt struct{ err error }

func (e errDecrypt) Error() string { return "decrypt frame: " + e.err.Error() }
func (e errDecrypt) Unwrap() error { return e.err }

func isDecryptErr(err error) bool {
	var d errDecrypt
	return errors.As(err, &d)
}
