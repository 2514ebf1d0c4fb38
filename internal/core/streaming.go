package core

// streaming.go provides io.Reader wrappers applied to uploaded CSV files
// before parsing:
//
//   - bomSkipper: drops a leading UTF-8 BOM (0xEF 0xBB 0xBF) from Excel exports
//   - utf8Sanitizer: replaces invalid UTF-8 bytes with '?'
//   - SizeLimitReader: counts bytes and fails once a size limit is exceeded
//
// Use WrapUpload to apply all three in the correct order.

import (
	"errors"
	"io"
	"unicode/utf8"
)

// ErrFileTooLarge is returned by SizeLimitReader when the limit is exceeded.
var ErrFileTooLarge = errors.New("file too large")

// utf8Sanitizer replaces invalid UTF-8 bytes on the fly.
// A multi-byte sequence split across two reads is carried over in pending.
type utf8Sanitizer struct {
	r       io.Reader
	pending []byte
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r, pending: make([]byte, 0, utf8.UTFMax)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.r.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	if isASCII(p[:n]) {
		return n, err
	}
	return s.sanitize(p[:n], err == io.EOF), err
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// sanitize rewrites data in place and returns the number of bytes to emit.
// Gujarati text is three bytes per rune, so a read boundary frequently splits
// a rune; unless atEOF, such a tail is held back for the next read.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if utf8.Valid(data) {
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		if !atEOF && !utf8.FullRune(data[read:]) {
			s.pending = append(s.pending, data[read:]...)
			return write
		}

		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			// '?' keeps the output no longer than the input.
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

// bomSkipper drops a UTF-8 byte order mark at the start of the stream.
type bomSkipper struct {
	r       io.Reader
	checked bool
	head    []byte
}

func newBOMSkipper(r io.Reader) *bomSkipper {
	return &bomSkipper{r: r}
}

func (b *bomSkipper) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true

		var buf [3]byte
		n, err := io.ReadFull(b.r, buf[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if !(n == 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF) {
			b.head = append(b.head, buf[:n]...)
		}
		if len(b.head) == 0 && err == io.EOF {
			return 0, io.EOF
		}
	}

	if len(b.head) > 0 {
		n := copy(p, b.head)
		b.head = b.head[n:]
		return n, nil
	}
	return b.r.Read(p)
}

// SizeLimitReader counts bytes read and fails with ErrFileTooLarge once more
// than Limit bytes have been consumed. A Limit of 0 disables the check.
type SizeLimitReader struct {
	r         io.Reader
	BytesRead int64
	Limit     int64
}

// NewSizeLimitReader wraps r with a byte counter and optional limit.
func NewSizeLimitReader(r io.Reader, limit int64) *SizeLimitReader {
	return &SizeLimitReader{r: r, Limit: limit}
}

// Read implements io.Reader.
func (l *SizeLimitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.BytesRead += int64(n)
	if l.Limit > 0 && l.BytesRead > l.Limit {
		return n, ErrFileTooLarge
	}
	return n, err
}

// WrapUpload applies size limiting, BOM removal and UTF-8 sanitization.
//
// The limit is enforced on raw bytes, so it wraps the source directly. The
// BOM is dropped before parsing so it does not end up in the first header
// name (which would hide an "ID" column).
func WrapUpload(r io.Reader, limit int64) io.Reader {
	return newUTF8Sanitizer(newBOMSkipper(NewSizeLimitReader(r, limit)))
}
