package treedoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Document is one version of a tree.
type Document struct {
	Nodes []*Node
}

// Node is an element or text entry of a document.
type Node struct {
	Tag      string  `yaml:"tag,omitempty"`
	Text     *string `yaml:"text,omitempty"`
	Key      *Key    `yaml:"key,omitempty"`
	Static   bool    `yaml:"static,omitempty"`
	Attrs    []Attr  `yaml:"attrs,omitempty"`
	Children []*Node `yaml:"children,omitempty"`

	line int
}

// Key is a node key as written in a document.
type Key struct {
	vdom.Key
}

// Attr is an element attribute.
type Attr struct {
	Name   string
	Value  vdom.AttrValue
	Static bool
}

// UnmarshalYAML reads a document root, which must be a sequence.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	if value.ShortTag() == "!!null" {
		d.Nodes = nil
		return nil
	}
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: a tree document is a sequence of nodes", value.Line)
	}
	return value.Decode(&d.Nodes)
}

// UnmarshalYAML reads a node and remembers its line.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	type plain Node
	if err := value.Decode((*plain)(n)); err != nil {
		return err
	}
	n.line = value.Line
	return nil
}

// UnmarshalYAML reads an integer or string key.
func (k *Key) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: a key must be a scalar", value.Line)
	}
	if value.ShortTag() == "!!int" {
		i, err := strconv.ParseInt(value.Value, 0, 64)
		if err != nil {
			return fmt.Errorf("line %d: key %s: %w", value.Line, value.Value, err)
		}
		k.Key = vdom.Int(i)
		return nil
	}
	k.Key = vdom.Str(value.Value)
	return nil
}

// UnmarshalYAML reads an attribute mapping. The value field is read by
// hand so that a missing value and an explicit null stay distinct.
func (a *Attr) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: an attribute is a mapping", value.Line)
	}
	a.Value = vdom.True()
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		switch k.Value {
		case "name":
			a.Name = v.Value
		case "static":
			if err := v.Decode(&a.Static); err != nil {
				return err
			}
		case "value":
			av, err := attrValue(v)
			if err != nil {
				return err
			}
			a.Value = av
		default:
			return fmt.Errorf("line %d: unknown attribute field %q", k.Line, k.Value)
		}
	}
	if a.Name == "" {
		return fmt.Errorf("line %d: attribute without a name", value.Line)
	}
	return nil
}

func attrValue(v *yaml.Node) (vdom.AttrValue, error) {
	if v.Kind != yaml.ScalarNode {
		return vdom.Null(), fmt.Errorf("line %d: an attribute value is a scalar", v.Line)
	}
	switch v.ShortTag() {
	case "!!null":
		return vdom.Null(), nil
	case "!!bool":
		var b bool
		if err := v.Decode(&b); err != nil {
			return vdom.Null(), err
		}
		return vdom.Bool(b), nil
	default:
		return vdom.Value(v.Value), nil
	}
}

// Parse reads every document of a YAML stream.
func Parse(r io.Reader) ([]*Document, error) {
	dec := yaml.NewDecoder(r)
	var docs []*Document
	for {
		var d Document
		err := dec.Decode(&d)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, vterrors.New("E060").WithDetail(err.Error())
		}
		if err := check(d.Nodes); err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			if err := checkVersion(d.Nodes, docs[len(docs)-1].Nodes); err != nil {
				return nil, err
			}
		}
		docs = append(docs, &d)
	}
	if len(docs) == 0 {
		return nil, vterrors.New("E060").WithDetail("no document found")
	}
	return docs, nil
}

// ParseBytes reads every document of data.
func ParseBytes(data []byte) ([]*Document, error) {
	return Parse(bytes.NewReader(data))
}

// Load reads every document of the file at path.
func Load(path string) ([]*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, vterrors.New("E060").WithDetail("cannot open " + path).Wrap(err)
	}
	defer f.Close()
	docs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// check validates node shapes and key uniqueness within every list.
func check(nodes []*Node) error {
	seen := make(map[vdom.Key]int)
	for _, n := range nodes {
		if n == nil {
			continue
		}
		bad := func(format string, args ...any) error { return lineError(n, format, args...) }
		switch {
		case n.Tag != "" && n.Text != nil:
			return bad("a node has either a tag or a text")
		case n.Tag == "" && n.Text == nil:
			return bad("a node needs a tag or a text")
		case n.Text != nil && (len(n.Attrs) > 0 || len(n.Children) > 0):
			return bad("text nodes have no attributes or children")
		}
		if n.Key != nil {
			if prev, dup := seen[n.Key.Key]; dup {
				return bad("key %s already used on line %d", n.Key.Key, prev)
			}
			seen[n.Key.Key] = n.line
		}
		if err := check(n.Children); err != nil {
			return err
		}
	}
	return nil
}

// checkVersion validates that curr can be diffed against prev, its
// preceding version. Entries are matched as the engine matches them, by key
// or else by position among unkeyed entries. Matched elements with the same
// tag must list the same attribute names in the same order, and matched
// static texts must keep their content. Unmatched entries and entries that
// change kind or tag are rebuilt and need no check.
func checkVersion(curr, prev []*Node) error {
	byID := make(map[vdom.Key]*Node, len(prev))
	for i, id := range identities(prev) {
		if prev[i] != nil {
			byID[id] = prev[i]
		}
	}
	for i, id := range identities(curr) {
		n, a := curr[i], byID[id]
		if n == nil || a == nil {
			continue
		}
		switch {
		case n.Text != nil && a.Text != nil:
			if n.Static && a.Static && *n.Text != *a.Text {
				return lineError(n, "static text %q was %q on line %d; drop static to change it", *n.Text, *a.Text, a.line)
			}
		case n.Tag != "" && n.Tag == a.Tag:
			if err := sameAttrNames(n, a); err != nil {
				return err
			}
			if err := checkVersion(n.Children, a.Children); err != nil {
				return err
			}
		}
	}
	return nil
}

func sameAttrNames(n, a *Node) error {
	names := func(attrs []Attr) []string {
		s := make([]string, len(attrs))
		for i, at := range attrs {
			s[i] = at.Name
		}
		return s
	}
	curr, prev := names(n.Attrs), names(a.Attrs)
	if !slices.Equal(curr, prev) {
		return lineError(n, "<%s> has attributes %v but %v on line %d; list every attribute in every version, with value null where absent",
			n.Tag, curr, prev, a.line)
	}
	return nil
}

// identities mirrors the engine's list identities: the key, or Index(n)
// where n counts the unkeyed and absent entries before it.
func identities(nodes []*Node) []vdom.Key {
	ids := make([]vdom.Key, len(nodes))
	unkeyed := 0
	for i, n := range nodes {
		if n != nil && n.Key != nil {
			ids[i] = n.Key.Key
			continue
		}
		ids[i] = vdom.Index(unkeyed)
		unkeyed++
	}
	return ids
}

func lineError(n *Node, format string, args ...any) error {
	return vterrors.New("E060").WithDetail(fmt.Sprintf("line %d: ", n.line) + fmt.Sprintf(format, args...))
}

// Build turns a document into a node list.
func Build[S any](d *Document) vdom.NodeList[S] {
	return build[S](d.Nodes)
}

func build[S any](nodes []*Node) vdom.NodeList[S] {
	if nodes == nil {
		return nil
	}
	l := make(vdom.NodeList[S], len(nodes))
	for i, n := range nodes {
		if n != nil {
			l[i] = buildNode[S](n)
		}
	}
	return l
}

func buildNode[S any](n *Node) vdom.Node[S] {
	if n.Text != nil {
		t := vdom.NewText[S](*n.Text)
		if n.Static {
			t = vdom.NewStaticText[S](*n.Text)
		}
		if n.Key != nil {
			t.Keyed(n.Key.Key)
		}
		return t
	}

	attrs := make(vdom.AttrList[S], len(n.Attrs))
	for i, a := range n.Attrs {
		attrs[i] = &vdom.Attr[S]{Name: a.Name, Value: a.Value, Static: a.Static}
	}
	children := build[S](n.Children)
	t := vdom.NewTag[S](n.Tag, attrs, children...)
	if n.Static {
		t = vdom.NewStaticTag[S](n.Tag, attrs, children...)
	}
	if n.Key != nil {
		t.Keyed(n.Key.Key)
	}
	return t
}
