package cache

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/quantmind-br/gtraverse-go/internal/domain"
)

// EncodeAll and DecodeAll are safe for concurrent use
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// encodeResult serializes a result as ordered JSON pairs, zstd compressed
func encodeResult(r *domain.Result) ([]byte, error) {
	data, err := json.Marshal(r.Pairs())
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// decodeResult reverses encodeResult
func decodeResult(b []byte) (*domain.Result, error) {
	data, err := zstdDecoder.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress result: %w", err)
	}
	var pairs []domain.FilePair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return domain.ResultFromPairs(pairs), nil
}
