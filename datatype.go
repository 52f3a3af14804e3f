package proteomisc

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "Z"
	case DataTypeBZip2:
		return "bzip2"
	}

	return "invalid"
}

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType checks the leading bytes of a stream against a set of known
// compression signatures. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectDataType(r io.Reader) (DataType, error) {
	buff := make([]byte, 6)
	n, err := io.ReadFull(r, buff)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			return DataTypeNoCompression, nil
		}
		return DataTypeInvalid, err
	}
	buff = buff[:n]

	// Match known signatures
Outer:
	for dt, sig := range byteCodeSigs {
		if len(buff) < len(sig) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// ErrUnsupportedCompression is returned for data whose compression is
// recognized but cannot be decoded. Unix compress (.Z) output is one such
// format: its LZW variant has no end code and resets its code table
// mid-stream, which compress/lzw does not implement.
var ErrUnsupportedCompression = errors.New("unsupported compression")

// Decompress returns a reader over the decompressed contents of b, or over b
// itself if no known compression signature is found. The caller closes it.
func Decompress(b []byte) (io.ReadCloser, DataType, error) {
	dt, err := DetectDataType(bytes.NewReader(b))
	if err != nil {
		return nil, dt, err
	}

	src := bytes.NewReader(b)

	switch dt {
	case DataTypeGzip:
		r, err := gzip.NewReader(src)
		return r, dt, err
	case DataTypeZip:
		// Only the first entry of an archive is read
		zr := zipstream.NewReader(src)
		if _, err := zr.Next(); err != nil {
			return nil, dt, err
		}
		return io.NopCloser(zr), dt, nil
	case DataTypeBZip2:
		return io.NopCloser(bzip2.NewReader(src)), dt, nil
	case DataTypeXZ:
		r, err := xz.NewReader(src, 0)
		if err != nil {
			return nil, dt, err
		}
		return io.NopCloser(r), dt, nil
	case DataTypeZ:
		return nil, dt, fmt.Errorf("%w: %s; decompress the file first", ErrUnsupportedCompression, dt)
	}

	return io.NopCloser(src), dt, nil
}
