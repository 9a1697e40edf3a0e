// ABOUTME: Codec for the compressed HTML payload stored on content records
// ABOUTME: Uses zstd with shared encoder/decoder instances

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	initOnce sync.Once
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
	initErr  error
)

func codecs() (*zstd.Encoder, *zstd.Decoder, error) {
	initOnce.Do(func() {
		encoder, initErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if initErr != nil {
			return
		}
		decoder, initErr = zstd.NewReader(nil)
	})
	return encoder, decoder, initErr
}

// EncodeHTML compresses html for storage. Empty input encodes to nil.
func EncodeHTML(html string) ([]byte, error) {
	if html == "" {
		return nil, nil
	}
	enc, _, err := codecs()
	if err != nil {
		return nil, fmt.Errorf("zstd init: %w", err)
	}
	return enc.EncodeAll([]byte(html), nil), nil
}

// DecodeHTML decompresses a stored payload. Nil or empty payloads decode to "".
func DecodeHTML(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", nil
	}
	_, dec, err := codecs()
	if err != nil {
		return "", fmt.Errorf("zstd init: %w", err)
	}
	out, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	return string(out), nil
}

// MustEncodeHTML is EncodeHTML for callers that treat codec failure as fatal,
// such as tests and fixtures.
func MustEncodeHTML(html string) []byte {
	b, err := EncodeHTML(html)
	if err != nil {
		panic(err)
	}
	return b
}
