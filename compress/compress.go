// Package compress provides pluggable compression for large
// OpenIGTLink bodies (IMAGE, VIDEO, NDARRAY). Re-purposes mini-rpc's
// codec.Codec Strategy pattern (codec/codec.go): there, the interface
// picks a serialization format; here it picks a compression algorithm,
// since OpenIGTLink's wire format itself is fixed by the protocol but
// the spec calls for pluggable compression on top of it.
package compress

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
)

// Algorithm identifies the compression scheme, mirroring mini-rpc's
// CodecType byte-sized identifier stored alongside the payload it
// describes.
type Algorithm byte

const (
	AlgorithmNone    Algorithm = 0
	AlgorithmDeflate Algorithm = 1
	AlgorithmGzip    Algorithm = 2
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmDeflate:
		return "deflate"
	case AlgorithmGzip:
		return "gzip"
	default:
		return "unknown"
	}
}

// Level mirrors compress/flate's level constants so callers don't need
// to import that package directly.
type Level int

const (
	LevelDefault Level = flate.DefaultCompression
	LevelBest    Level = flate.BestCompression
	LevelFastest Level = flate.BestSpeed
)

// Compressor is the pluggable compression strategy: Compress and
// Decompress are the Encode/Decode of mini-rpc's Codec interface,
// Algorithm is its Type().
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Algorithm() Algorithm
}

// Get is the factory, mirroring mini-rpc's GetCodec: returns the
// Compressor for algo, defaulting to a no-op passthrough for
// AlgorithmNone.
func Get(algo Algorithm, level Level) (Compressor, error) {
	switch algo {
	case AlgorithmNone:
		return noneCompressor{}, nil
	case AlgorithmDeflate:
		return deflateCompressor{level: int(level)}, nil
	case AlgorithmGzip:
		return gzipCompressor{level: int(level)}, nil
	default:
		return nil, fmt.Errorf("compress: unknown algorithm %d", algo)
	}
}

type noneCompressor struct{}

func (noneCompressor) Compress(data []byte) ([]byte, error)   { return data, nil }
func (noneCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }
func (noneCompressor) Algorithm() Algorithm                   { return AlgorithmNone }

type deflateCompressor struct{ level int }

func (c deflateCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("compress: deflate writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compress: deflate write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress: deflate close: %w", err)
	}
	return buf.Bytes(), nil
}

func (c deflateCompressor) Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("compress: deflate read: %w", err)
	}
	return out, nil
}

func (deflateCompressor) Algorithm() Algorithm { return AlgorithmDeflate }

type gzipCompressor struct{ level int }

func (c gzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("compress: gzip writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compress: gzip write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress: gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

func (c gzipCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("compress: gzip reader: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("compress: gzip read: %w", err)
	}
	return out, nil
}

func (gzipCompressor) Algorithm() Algorithm { return AlgorithmGzip }

// Stats reports before/after sizes for a single compress operation,
// for telemetry/logging call sites that want a ratio.
type Stats struct {
	OriginalSize   int
	CompressedSize int
}

// Ratio returns CompressedSize/OriginalSize, or 0 if OriginalSize is 0.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0
	}
	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// CompressWithStats runs c.Compress and reports the resulting Stats
// alongside the compressed bytes.
func CompressWithStats(c Compressor, data []byte) ([]byte, Stats, error) {
	out, err := c.Compress(data)
	if err != nil {
		return nil, Stats{}, err
	}
	return out, Stats{OriginalSize: len(data), CompressedSize: len(out)}, nil
}
