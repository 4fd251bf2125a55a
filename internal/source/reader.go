// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package source provides a chunked byte iterator over either a file path
// or an in-memory buffer. Callers never need the whole source resident in
// memory at once — each call to Next returns an owned chunk sized to the
// configured high-water mark.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Technical-1/email-archive-parser/internal/model"
)

const (
	// DefaultPathChunkSize is used when streaming from a file path.
	DefaultPathChunkSize = 100 * 1024 * 1024

	// DefaultBufferChunkSize is used when slicing an in-memory buffer
	// that exceeds BufferWholeLimit.
	DefaultBufferChunkSize = 5 * 1024 * 1024

	// BufferWholeLimit is the size above which an in-memory buffer is
	// chunked rather than handed to the caller as a single string, to
	// avoid whole-buffer UTF-8 conversion on platforms with string-size
	// caps.
	BufferWholeLimit = 500 * 1024 * 1024
)

// Reader yields successive byte chunks from a source until exhausted.
type Reader interface {
	// Next returns the next chunk and whether this is the final chunk of
	// the source (io.EOF reached). A zero-length, final=true chunk may be
	// returned for an empty source.
	Next() (chunk []byte, final bool, err error)
}

// Open returns a Reader over the file at path, streaming at chunkSize
// granularity (DefaultPathChunkSize if chunkSize <= 0).
func Open(path string, chunkSize int) (Reader, func() error, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultPathChunkSize
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &model.SourceUnavailableError{Path: path, Err: err}
	}
	return &fileReader{f: f, chunkSize: chunkSize, path: path}, f.Close, nil
}

type fileReader struct {
	f         *os.File
	chunkSize int
	path      string
}

func (r *fileReader) Next() ([]byte, bool, error) {
	buf := make([]byte, r.chunkSize)
	n, err := io.ReadFull(r.f, buf)
	switch {
	case err == nil:
		return buf[:n], false, nil
	case err == io.ErrUnexpectedEOF || err == io.EOF:
		return buf[:n], true, nil
	default:
		return nil, false, &model.SourceUnavailableError{Path: r.path, Err: err}
	}
}

// FromBuffer returns a Reader over an in-memory buffer. Small buffers
// (<= BufferWholeLimit) are handed back whole in a single chunk; larger
// ones fall back to chunked iteration at chunkSize granularity
// (DefaultBufferChunkSize if chunkSize <= 0).
func FromBuffer(buf []byte, chunkSize int) Reader {
	if len(buf) <= BufferWholeLimit {
		return &wholeReader{buf: buf}
	}
	if chunkSize <= 0 {
		chunkSize = DefaultBufferChunkSize
	}
	return &bufferReader{r: bytes.NewReader(buf), chunkSize: chunkSize}
}

type wholeReader struct {
	buf  []byte
	done bool
}

func (r *wholeReader) Next() ([]byte, bool, error) {
	if r.done {
		return nil, true, nil
	}
	r.done = true
	return r.buf, true, nil
}

type bufferReader struct {
	r         *bytes.Reader
	chunkSize int
}

func (r *bufferReader) Next() ([]byte, bool, error) {
	buf := make([]byte, r.chunkSize)
	n, err := io.ReadFull(r.r, buf)
	switch {
	case err == nil:
		return buf[:n], false, nil
	case err == io.ErrUnexpectedEOF || err == io.EOF:
		return buf[:n], true, nil
	default:
		return nil, false, fmt.Errorf("read buffer chunk: %w", err)
	}
}
