// Package storage handles all the lower level support for maintaining a
// snapshot of the ledger between restarts of the node.
package storage

import (
	"errors"

	"github.com/klauspost/compress/zstd"
)

// ErrNotFound is returned by Load when no snapshot has been saved.
var ErrNotFound = errors.New("snapshot not found")

// zstdEncoder and zstdDecoder are shared by every File value. Both are safe
// for concurrent use when only EncodeAll and DecodeAll are called.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("storage: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("storage: zstd decoder initialization failed: " + err.Error())
	}
}
