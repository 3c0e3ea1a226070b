package dyad

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open opens path ("-" is stdin) and transparently decompresses gzip or
// zstd, detected by magic number or by .gz/.zst suffix.
func Open(path string) (io.ReadCloser, error) {
	var (
		src     io.Reader
		closers []io.Closer
	)
	if path == "-" {
		src = os.Stdin
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src = fh
		closers = append(closers, fh)
	}

	br := bufio.NewReaderSize(src, 64<<10)
	sig, _ := br.Peek(len(zstdMagic))

	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	switch {
	case bytes.HasPrefix(sig, gzipMagic) || strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(br)
		if err != nil {
			closeAll()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: append([]io.Closer{gr}, closers...)}, nil
	case bytes.HasPrefix(sig, zstdMagic) || strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(br)
		if err != nil {
			closeAll()
			return nil, err
		}
		return &multiReadCloser{Reader: zr, closers: append([]io.Closer{zr.IOReadCloser()}, closers...)}, nil
	}
	return &multiReadCloser{Reader: br, closers: closers}, nil
}
