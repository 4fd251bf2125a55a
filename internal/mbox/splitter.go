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

// Package mbox splits a stream of chunks into individual RFC-822 message
// texts delimited by "From " separator lines, and walks each message's
// MIME structure into a normalized model.Email.
package mbox

import (
	"bytes"
)

var dayTokens = [][]byte{
	[]byte("Mon"), []byte("Tue"), []byte("Wed"),
	[]byte("Thu"), []byte("Fri"), []byte("Sat"), []byte("Sun"),
}

// isSeparatorLine reports whether line (without its trailing newline) is a
// valid MBOX "From " separator: it must start with "From " and contain a
// three-letter day-of-week token anywhere in the line. The prefix check
// alone is not sufficient — message bodies routinely quote "From " lines
// from forwarded mail.
func isSeparatorLine(line []byte) bool {
	if !bytes.HasPrefix(line, []byte("From ")) {
		return false
	}
	for _, tok := range dayTokens {
		if bytes.Contains(line, tok) {
			return true
		}
	}
	return false
}

// normalizeNewlines rewrites \r\n and bare \r to \n.
func normalizeNewlines(data []byte) []byte {
	if !bytes.ContainsRune(data, '\r') {
		return data
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	return data
}

// separatorOffsets returns the byte offsets of every line start in data
// that begins a valid separator line.
func separatorOffsets(data []byte) []int {
	var offsets []int
	lineStart := 0
	for lineStart <= len(data) {
		nl := bytes.IndexByte(data[lineStart:], '\n')
		var line []byte
		if nl < 0 {
			line = data[lineStart:]
		} else {
			line = data[lineStart : lineStart+nl]
		}
		if isSeparatorLine(line) {
			offsets = append(offsets, lineStart)
		}
		if nl < 0 {
			break
		}
		lineStart += nl + 1
	}
	return offsets
}

// DefaultMaxMessageSize bounds how large the leftover buffer may grow
// before being force-flushed as an (incomplete) message, protecting
// against a single pathological message consuming unbounded memory.
const DefaultMaxMessageSize = 100 * 1024 * 1024

// Splitter is the MBOX stream-splitting state machine. It owns a single
// "leftover" buffer carrying bytes after the last confirmed separator —
// this is the only state the MBOX pipeline carries across chunks.
type Splitter struct {
	leftover []byte
	maxSize  int
}

// NewSplitter creates an empty Splitter using DefaultMaxMessageSize.
func NewSplitter() *Splitter {
	return NewSplitterWithMax(DefaultMaxMessageSize)
}

// NewSplitterWithMax creates an empty Splitter with a custom leftover cap.
func NewSplitterWithMax(maxSize int) *Splitter {
	if maxSize <= 0 {
		maxSize = DefaultMaxMessageSize
	}
	return &Splitter{maxSize: maxSize}
}

// Feed appends chunk to the internal leftover buffer and returns every
// complete message block that can now be flushed. When final is true,
// every remaining byte is flushed (the splitter never partially emits a
// message, and never holds bytes past the final chunk).
func (s *Splitter) Feed(chunk []byte, final bool) [][]byte {
	combined := normalizeNewlines(append(s.leftover, chunk...))
	s.leftover = nil

	seps := separatorOffsets(combined)
	if len(seps) == 0 {
		if final {
			// No separator ever appeared in this data; nothing qualifies
			// as a message. Preamble/garbage is dropped.
			return nil
		}
		s.leftover = combined
		return nil
	}

	lastSep := seps[len(seps)-1]
	boundary := lastSep
	if final {
		boundary = len(combined)
	} else {
		s.leftover = combined[lastSep:]
	}

	flushable := combined[:boundary]

	var msgs [][]byte
	prev := -1
	for _, off := range seps {
		if off >= boundary {
			break
		}
		if prev >= 0 {
			msgs = append(msgs, flushable[prev:off])
		}
		prev = off
	}
	if prev >= 0 {
		msgs = append(msgs, flushable[prev:boundary])
	}

	if !final && len(s.leftover) > s.maxSize {
		msgs = append(msgs, s.leftover)
		s.leftover = nil
	}

	return msgs
}
