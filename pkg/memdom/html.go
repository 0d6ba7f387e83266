package memdom

import (
	"html"
	"io"
	"strings"
)

// HTML renders the children of the root.
func (d *Document) HTML() string {
	var sb strings.Builder
	for _, c := range d.root.children {
		writeHTML(&sb, c)
	}
	return sb.String()
}

// WriteHTML writes the children of the root to w.
func (d *Document) WriteHTML(w io.Writer) error {
	_, err := io.WriteString(w, d.HTML())
	return err
}

// HTML renders n and its subtree.
func (n *Node) HTML() string {
	var sb strings.Builder
	writeHTML(&sb, n)
	return sb.String()
}

func writeHTML(sb *strings.Builder, n *Node) {
	if n.Type == TextNode {
		sb.WriteString(html.EscapeString(n.Text))
		return
	}
	sb.WriteByte('<')
	sb.WriteString(n.Tag)
	for _, a := range n.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		if a.Bool {
			continue
		}
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(a.Value))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	for _, c := range n.children {
		writeHTML(sb, c)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}
