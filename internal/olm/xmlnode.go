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

// Package olm decodes Outlook-for-Mac archive files: a ZIP container of
// per-message XML documents using an OPF-prefixed element vocabulary
// (spec §4.4).
package olm

import (
	"encoding/xml"
	"strings"
)

// node is a generic XML element tree. OLM's OPF vocabulary is not a
// single fixed schema across Outlook versions, so rather than binding to
// named Go structs per element (which breaks the moment a version adds or
// renames a field) the decoder walks a generic tree and looks elements up
// by local name, the same tolerance spec §4.4 asks of "Malformed XML
// files are skipped individually."
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

func parseXML(data []byte) (*node, error) {
	var root node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// findFirst returns the first descendant (including the node itself) with
// the given local element name, depth-first.
func (n *node) findFirst(name string) *node {
	if n == nil {
		return nil
	}
	if strings.EqualFold(n.XMLName.Local, name) {
		return n
	}
	for i := range n.Nodes {
		if found := n.Nodes[i].findFirst(name); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant (including the node itself) with the
// given local element name, depth-first, document order.
func (n *node) findAll(name string) []*node {
	if n == nil {
		return nil
	}
	var out []*node
	if strings.EqualFold(n.XMLName.Local, name) {
		out = append(out, n)
	}
	for i := range n.Nodes {
		out = append(out, n.Nodes[i].findAll(name)...)
	}
	return out
}

// text returns the trimmed chardata of the first descendant element with
// the given name, or "" if not found.
func (n *node) text(name string) string {
	found := n.findFirst(name)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.Content)
}

// attr returns the value of the first attribute on n whose local name
// contains needle (case-insensitive) — OLM's address containers use
// attribute names like "OPFContactEmailAddressAddress" /
// "OPFContactEmailAddressName" across versions, so a substring match is
// more durable than matching an exact attribute name.
func (n *node) attr(needle string) string {
	if n == nil {
		return ""
	}
	needle = strings.ToLower(needle)
	for _, a := range n.Attrs {
		if strings.Contains(strings.ToLower(a.Name.Local), needle) {
			return a.Value
		}
	}
	return ""
}

// addressEntry is one parsed sender/recipient: an address plus optional
// display name, extracted from a nested element's attributes.
type addressEntry struct {
	Address string
	Name    string
}

// addressesIn collects every address-bearing element nested under the
// first element named containerName (e.g. "OPFMessageCopyToAddresses"),
// reading "...Address..." and "...Name..." attributes off each child.
func (n *node) addressesIn(containerName string) []addressEntry {
	container := n.findFirst(containerName)
	if container == nil {
		return nil
	}
	var out []addressEntry
	for i := range container.Nodes {
		child := &container.Nodes[i]
		addr := strings.ToLower(strings.TrimSpace(child.attr("address")))
		if addr == "" {
			addr = strings.ToLower(strings.TrimSpace(child.Content))
		}
		if addr == "" || !strings.Contains(addr, "@") {
			continue
		}
		out = append(out, addressEntry{
			Address: addr,
			Name:    strings.TrimSpace(child.attr("name")),
		})
	}
	return out
}
