package models

import (
	"bytes"
	"errors"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

type NodeKind uint8

const (
	KindNull NodeKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var ErrInvalidJSON = errors.New("invalid json")

// Node is a JSON value that remembers the order of object keys.
// Scalars keep their source text so numbers and string escapes are written
// back exactly as they were read.
type Node struct {
	Kind   NodeKind
	Raw    string
	Items  []*Node
	Object *OrderedMap
}

// OrderedMap is a JSON object with insertion-ordered keys.
type OrderedMap struct {
	keys   []string
	values map[string]*Node
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]*Node)}
}

// Set stores value under key. A key that is already present keeps its
// position and takes the new value.
func (m *OrderedMap) Set(key string, value *Node) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *OrderedMap) Get(key string) (*Node, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// ParseNode parses a complete JSON document.
func ParseNode(data []byte) (*Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) *Node {
	switch {
	case r.IsObject():
		obj := NewOrderedMap()
		r.ForEach(func(key, value gjson.Result) bool {
			obj.Set(key.String(), fromResult(value))
			return true
		})
		return &Node{Kind: KindObject, Object: obj}
	case r.IsArray():
		n := &Node{Kind: KindArray, Items: []*Node{}}
		r.ForEach(func(_, value gjson.Result) bool {
			n.Items = append(n.Items, fromResult(value))
			return true
		})
		return n
	}

	switch r.Type {
	case gjson.True, gjson.False:
		return &Node{Kind: KindBool, Raw: r.Raw}
	case gjson.Number:
		return &Node{Kind: KindNumber, Raw: r.Raw}
	case gjson.String:
		return &Node{Kind: KindString, Raw: r.Raw}
	default:
		return &Node{Kind: KindNull, Raw: "null"}
	}
}

// Field returns the member of an object node, or nil.
func (n *Node) Field(key string) *Node {
	if n == nil || n.Kind != KindObject {
		return nil
	}
	v, _ := n.Object.Get(key)
	return v
}

// Str returns the decoded value of a string node, or "" for any other kind.
func (n *Node) Str() string {
	if n == nil || n.Kind != KindString {
		return ""
	}
	return gjson.Parse(n.Raw).String()
}

// Len returns the element count of an array node, or 0.
func (n *Node) Len() int {
	if n == nil || n.Kind != KindArray {
		return 0
	}
	return len(n.Items)
}

// MarshalJSON writes the node compactly, keeping key order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.write(&buf, "", 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent writes the node with one line per member, each nesting level
// indented by indent. Empty arrays and objects stay on one line.
func (n *Node) MarshalIndent(indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := n.write(&buf, indent, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) write(buf *bytes.Buffer, indent string, depth int) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.Kind {
	case KindArray:
		if len(n.Items) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			if err := item.write(buf, indent, depth+1); err != nil {
				return err
			}
		}
		newline(buf, indent, depth)
		buf.WriteByte(']')
	case KindObject:
		if n.Object.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i, key := range n.Object.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			k, err := json.MarshalNoEscape(key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			if err := n.Object.values[key].write(buf, indent, depth+1); err != nil {
				return err
			}
		}
		newline(buf, indent, depth)
		buf.WriteByte('}')
	default:
		buf.WriteString(n.Raw)
	}
	return nil
}

func newline(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indent, depth))
}
