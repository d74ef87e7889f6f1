package semantic

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeVectors serializes vectors as little-endian float32 rows prefixed by
// row count and dimension.
func EncodeVectors(vectors [][]float32) []byte {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}

	buf := make([]byte, 8, 8+len(vectors)*dim*4)
	binary.LittleEndian.PutUint32(buf[0:], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(buf[4:], uint32(dim))

	row := make([]byte, dim*4)
	for _, v := range vectors {
		for i, f := range v {
			binary.LittleEndian.PutUint32(row[i*4:], math.Float32bits(f))
		}
		buf = append(buf, row...)
	}
	return buf
}

// DecodeVectors deserializes the EncodeVectors format.
func DecodeVectors(data []byte) ([][]float32, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("invalid vector data: len=%d", len(data))
	}
	count := int(binary.LittleEndian.Uint32(data[0:]))
	dim := int(binary.LittleEndian.Uint32(data[4:]))

	body := data[8:]
	if len(body) != count*dim*4 {
		return nil, fmt.Errorf("invalid vector data: expected %d bytes, got %d", count*dim*4, len(body))
	}

	vectors := make([][]float32, count)
	for r := range count {
		row := make([]float32, dim)
		for i := range dim {
			row[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[(r*dim+i)*4:]))
		}
		vectors[r] = row
	}
	return vectors, nil
}
