package embcache

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Entry layout: uint32 dimension count, then that many float32 values, all little-endian.
const headerSize = 4

func encodeVector(v []float32) []byte {
	buf := make([]byte, headerSize+len(v)*4)
	binary.LittleEndian.PutUint32(buf, uint32(len(v))) //nolint:gosec // embedding sizes fit in uint32
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[headerSize+i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("cache entry too short: %d bytes", len(data))
	}
	n := int(binary.LittleEndian.Uint32(data))
	if n == 0 || len(data) != headerSize+n*4 {
		return nil, fmt.Errorf("cache entry holds %d bytes for %d dimensions", len(data)-headerSize, n)
	}
	vec := make([]float32, n)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[headerSize+i*4:]))
	}
	return vec, nil
}
