package masterparser

import (
	"encoding/xml"
	"strings"
)

// node is a generic XML element tree. Tally's master export shape varies
// between TDL-flat and traditional nested structure, so searching by tag
// name anywhere below an element (mirroring ElementTree's findall(".//TAG"))
// is more robust here than a fixed struct-per-tag decode.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Chardata string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

func (n *node) findAll(tag string) []*node {
	var out []*node
	for i := range n.Children {
		c := &n.Children[i]
		if strings.EqualFold(c.XMLName.Local, tag) {
			out = append(out, c)
		}
		out = append(out, c.findAll(tag)...)
	}
	return out
}

func (n *node) find(tag string) *node {
	all := n.findAll(tag)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// findLast returns the last descendant matching tag, used for HSN
// preference (spec.md §4.3: "prefer the latest HSNDETAILS.LIST/HSNCODE").
func (n *node) findLast(tag string) *node {
	all := n.findAll(tag)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

func (n *node) text() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Chardata)
}

func (n *node) childText(tag string) string {
	return n.find(tag).text()
}

func (n *node) attr(name string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

func attrOrText(n *node, tag string) string {
	if a := n.attr(tag); a != "" {
		return a
	}
	return n.childText(tag)
}
