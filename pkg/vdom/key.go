package vdom

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeyKind identifies the representation of a Key.
type KeyKind uint8

const (
	// KeyIndex is the positional identity of an unkeyed list entry.
	KeyIndex KeyKind = iota
	KeyUint
	KeyInt
	KeyString
	KeyBytes
)

// String returns the kind name.
func (k KeyKind) String() string {
	switch k {
	case KeyIndex:
		return "index"
	case KeyUint:
		return "uint"
	case KeyInt:
		return "int"
	case KeyString:
		return "string"
	case KeyBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Key is a structural identity token. Keys are comparable with ==, so two
// keys built from the same logical value are equal however they were
// constructed. Keys of different kinds are never equal: Uint(1) != Int(1).
type Key struct {
	kind KeyKind
	u    uint64
	s    string
}

// Uint returns an unsigned integer key.
func Uint(v uint64) Key { return Key{kind: KeyUint, u: v} }

// Int returns a signed integer key.
func Int(v int64) Key { return Key{kind: KeyInt, u: uint64(v)} }

// Str returns a string key.
func Str(v string) Key { return Key{kind: KeyString, s: v} }

// Bytes returns a byte blob key. The slice is copied.
func Bytes(v []byte) Key { return Key{kind: KeyBytes, s: string(v)} }

// Index returns the positional key of the n-th unkeyed entry of a list.
func Index(n int) Key { return Key{kind: KeyIndex, u: uint64(n)} }

// Kind returns the key's representation.
func (k Key) Kind() KeyKind { return k.kind }

// Uint returns the value of a KeyUint or KeyIndex key.
func (k Key) Uint() (uint64, bool) {
	return k.u, k.kind == KeyUint || k.kind == KeyIndex
}

// Int returns the value of a KeyInt key.
func (k Key) Int() (int64, bool) {
	return int64(k.u), k.kind == KeyInt
}

// Str returns the value of a KeyString key.
func (k Key) Str() (string, bool) {
	return k.s, k.kind == KeyString
}

// Bytes returns a copy of the value of a KeyBytes key.
func (k Key) Bytes() ([]byte, bool) {
	if k.kind != KeyBytes {
		return nil, false
	}
	return []byte(k.s), true
}

// String renders the key: u7, i-3, srow-7, 0x0aff, or a bare ordinal for
// positional keys. String keys escape dots and backslashes with a
// backslash, so distinct keys render distinctly and a path string splits
// unambiguously at its unescaped dots.
func (k Key) String() string {
	switch k.kind {
	case KeyUint:
		return "u" + strconv.FormatUint(k.u, 10)
	case KeyInt:
		return "i" + strconv.FormatInt(int64(k.u), 10)
	case KeyString:
		return "s" + escapeKey(k.s)
	case KeyBytes:
		return "0x" + hex.EncodeToString([]byte(k.s))
	default:
		return strconv.FormatUint(k.u, 10)
	}
}

func escapeKey(s string) string {
	if !strings.ContainsAny(s, `.\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	bad := func() (Key, error) { return Key{}, fmt.Errorf("vdom: malformed key %q", s) }
	switch {
	case s == "":
		return bad()
	case strings.HasPrefix(s, "0x"):
		b, err := hex.DecodeString(s[2:])
		if err != nil {
			return bad()
		}
		return Bytes(b), nil
	case s[0] == 'u':
		v, err := strconv.ParseUint(s[1:], 10, 64)
		if err != nil {
			return bad()
		}
		return Uint(v), nil
	case s[0] == 'i':
		v, err := strconv.ParseInt(s[1:], 10, 64)
		if err != nil {
			return bad()
		}
		return Int(v), nil
	case s[0] == 's':
		var b strings.Builder
		for i := 1; i < len(s); i++ {
			switch s[i] {
			case '\\':
				if i+1 == len(s) {
					return bad()
				}
				i++
			case '.':
				return bad()
			}
			b.WriteByte(s[i])
		}
		return Str(b.String()), nil
	default:
		v, err := strconv.ParseUint(s, 10, 0)
		if err != nil {
			return bad()
		}
		return Index(int(v)), nil
	}
}

// Hash returns a 64-bit hash consistent with ==.
func (k Key) Hash() uint64 {
	var buf [9]byte
	buf[0] = byte(k.kind)
	switch k.kind {
	case KeyString, KeyBytes:
		d := xxhash.New()
		_, _ = d.Write(buf[:1])
		_, _ = d.WriteString(k.s)
		return d.Sum64()
	default:
		binary.LittleEndian.PutUint64(buf[1:], k.u)
		return xxhash.Sum64(buf[:])
	}
}

// appendID appends an unambiguous binary encoding of k.
func (k Key) appendID(b []byte) []byte {
	b = append(b, byte(k.kind))
	switch k.kind {
	case KeyString, KeyBytes:
		b = binary.AppendUvarint(b, uint64(len(k.s)))
		return append(b, k.s...)
	default:
		return binary.AppendUvarint(b, k.u)
	}
}
