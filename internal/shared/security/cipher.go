package security

import (
	"bytes"
	"io"

	"github.com/go-think/openssl"
	"github.com/klauspost/compress/zlib"
)

// Zip 用 zlib 压缩 WebSocket 帧。
func Zip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func UnZip(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// AesCBCEncrypt 密钥长度须为 16/24/32，iv 取密钥前 16 字节。
func AesCBCEncrypt(src, key, iv []byte, padding string) ([]byte, error) {
	return openssl.AesCBCEncrypt(src, key, iv[:16], padding)
}

func AesCBCDecrypt(src, key, iv []byte, padding string) ([]byte, error) {
	out, err := openssl.AesCBCDecrypt(src, key, iv[:16], padding)
	if err != nil {
		return nil, err
	}
	if padding == openssl.ZEROS_PADDING {
		// 零填充解出来可能残留尾部 0
		out = bytes.TrimRight(out, "\x00")
	}
	return out, nil
}
