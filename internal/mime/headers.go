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

// Package mime implements the RFC 5322/2045/2046/2047 message walker: header
// parsing, multipart traversal, transfer-decoding, address parsing, and the
// binary-content guard described in spec §4.3.
package mime

import (
	"strings"
)

// Header holds case-folded header values with last-value-wins semantics,
// as produced by ParseHeaders.
type Header struct {
	values map[string]string
}

// Get returns the header's decoded-as-stored value (no RFC 2047 decoding
// is applied here — callers needing decoded header text should use
// DecodeEncodedWords on the result).
func (h Header) Get(name string) string {
	if h.values == nil {
		return ""
	}
	return h.values[strings.ToLower(name)]
}

// Has reports whether a header with the given name was present.
func (h Header) Has(name string) bool {
	if h.values == nil {
		return false
	}
	_, ok := h.values[strings.ToLower(name)]
	return ok
}

// ParseHeaders reads RFC 5322 headers from data until the first empty
// line, folding continuation lines (leading whitespace) into the prior
// header with a single intervening space, and case-folding names. The
// last value wins on duplicate header names. It returns the parsed
// headers and the byte offset of the body (just past the blank line
// separator, or len(data) if no blank line is found).
func ParseHeaders(data []byte) (Header, int) {
	h := Header{values: make(map[string]string)}

	lines, offsets := splitLinesWithOffsets(data)

	var curName string
	var curVal strings.Builder
	haveCur := false
	bodyOffset := len(data)

	flush := func() {
		if haveCur {
			name := strings.ToLower(strings.TrimSpace(curName))
			h.values[name] = strings.TrimSpace(curVal.String())
		}
		curName = ""
		curVal.Reset()
		haveCur = false
	}

	for i, line := range lines {
		if len(line) == 0 {
			flush()
			if i+1 < len(offsets) {
				bodyOffset = offsets[i+1]
			} else {
				bodyOffset = len(data)
			}
			return h, bodyOffset
		}
		if line[0] == ' ' || line[0] == '\t' {
			if haveCur {
				curVal.WriteByte(' ')
				curVal.WriteString(strings.TrimSpace(string(line)))
			}
			continue
		}
		colon := indexByte(line, ':')
		if colon < 0 {
			// Not a valid header line; ignore it rather than aborting.
			continue
		}
		flush()
		curName = string(line[:colon])
		curVal.WriteString(strings.TrimSpace(string(line[colon+1:])))
		haveCur = true
	}
	// No blank line found — everything was headers (or truncated message).
	flush()
	return h, bodyOffset
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// splitLinesWithOffsets splits data on '\n' (already normalized upstream)
// and returns both the lines (without the trailing newline) and the byte
// offset each line starts at, plus one extra trailing offset for the
// position just past the data.
func splitLinesWithOffsets(data []byte) ([][]byte, []int) {
	var lines [][]byte
	var offsets []int
	start := 0
	for start <= len(data) {
		offsets = append(offsets, start)
		nl := indexByteFrom(data, '\n', start)
		if nl < 0 {
			lines = append(lines, data[start:])
			break
		}
		lines = append(lines, trimCR(data[start:nl]))
		start = nl + 1
	}
	return lines, offsets
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func indexByteFrom(b []byte, c byte, from int) int {
	for i := from; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return -1
}
