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

import "strings"

var binarySignatures = []string{"/9j/", "iVBOR", "GIF8"}

// LooksBinary implements the binary-content guard from spec §4.3.7: it
// reports whether body appears to be misplaced binary/attachment data
// rather than text, guarding against malformed multiparts where an
// attachment leaks into the text stream.
func LooksBinary(body string, threshold float64) bool {
	if threshold <= 0 {
		threshold = 0.30
	}
	head100 := body
	if len(head100) > 100 {
		head100 = head100[:100]
	}
	for _, sig := range binarySignatures {
		if strings.Contains(head100, sig) {
			return true
		}
	}
	if strings.Contains(head100, "JFIF") || strings.Contains(head100, "Exif") {
		return true
	}

	head200 := body
	if len(head200) > 200 {
		head200 = head200[:200]
	}
	if len(head200) == 0 {
		return false
	}
	nonPrintable := 0
	for i := 0; i < len(head200); i++ {
		b := head200[i]
		switch b {
		case '\r', '\n', '\t':
			continue
		}
		if b < 0x20 || b >= 0x7f {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(head200)) > threshold
}
