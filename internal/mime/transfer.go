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

package mime

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"
)

var qpSoftBreak = regexp.MustCompile(`=\r?\n`)

// DecodeTransferEncoding decodes body according to a Content-Transfer-
// Encoding header value. Unknown encodings (and 7bit/8bit/binary/empty)
// pass through unchanged — the spec requires passthrough rather than
// dropping the record, even though this may produce gibberish for a
// genuinely unknown encoding.
func DecodeTransferEncoding(encoding string, body []byte) []byte {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return decodeQuotedPrintable(body)
	case "base64":
		return decodeBase64Lenient(body)
	default:
		return body
	}
}

func decodeQuotedPrintable(body []byte) []byte {
	s := qpSoftBreak.ReplaceAllString(string(body), "")
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '=' && i+2 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
				out = append(out, byte(v))
				i += 2
				continue
			}
		}
		out = append(out, s[i])
	}
	return out
}

// decodeBase64Lenient decodes base64 that may contain embedded newlines
// and trailing garbage, ignoring invalid trailing bytes rather than
// failing the whole record.
func decodeBase64Lenient(body []byte) []byte {
	cleaned := make([]byte, 0, len(body))
	for _, b := range body {
		if isBase64Char(b) {
			cleaned = append(cleaned, b)
		}
	}
	decoded, err := base64.StdEncoding.WithPadding(base64.NoPadding).DecodeString(string(cleaned))
	if err != nil {
		// Try strict decoding in case the padding was actually intact.
		if d2, err2 := base64.StdEncoding.DecodeString(string(cleaned)); err2 == nil {
			return d2
		}
		return body
	}
	return decoded
}

func isBase64Char(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '+' || b == '/':
		return true
	}
	return false
}
