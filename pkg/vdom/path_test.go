package vdom

import (
	"slices"
	"testing"
)

func TestPathBasics(t *testing.T) {
	p := Root().Push(Index(0)).Push(Str("row-7"))

	if got := p.String(); got != "0.srow-7" {
		t.Errorf("String() = %q, want 0.srow-7", got)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
	if k, ok := p.Key(); !ok || k != Str("row-7") {
		t.Errorf("Key() = %v, %v", k, ok)
	}
	if !slices.Equal(p.Keys(), []Key{Index(0), Str("row-7")}) {
		t.Errorf("Keys() = %v", p.Keys())
	}
	if p.Parent().String() != "0" {
		t.Errorf("Parent() = %q", p.Parent())
	}
	if !p.Parent().Parent().IsRoot() {
		t.Error("grandparent should be root")
	}
	if _, ok := Root().Key(); ok {
		t.Error("root has no key")
	}
	if Root().String() != "" {
		t.Errorf("root String() = %q", Root().String())
	}
}

func TestPathEqualAcrossConstruction(t *testing.T) {
	a := Root().Push(Index(0)).Push(Str("row-7"))
	b := PathOf(Index(0), Str(string([]byte("row-7"))))

	if !a.Equal(b) {
		t.Error("independently built paths should be equal")
	}
	if a.Hash() != b.Hash() {
		t.Error("equal paths should hash equally")
	}
	if a.ID() != b.ID() {
		t.Error("equal paths should have equal IDs")
	}
	if a.Equal(PathOf(Index(0), Str("row-8"))) {
		t.Error("different leaf keys should not be equal")
	}
	if a.Equal(a.Parent()) {
		t.Error("different depths should not be equal")
	}
	var nilPath *Path
	if !nilPath.Equal(Root()) {
		t.Error("nil path should equal root")
	}
}

func TestPathIDDisambiguates(t *testing.T) {
	a := PathOf(Str("a.1"))
	b := PathOf(Str("a"), Index(1))
	if a.String() != b.String() {
		t.Fatalf("expected colliding display strings, got %q and %q", a, b)
	}
	if a.ID() == b.ID() {
		t.Error("IDs should differ where display strings collide")
	}
}

func TestPathHasPrefix(t *testing.T) {
	leaf := PathOf(Index(0), Str("list"), Uint(3))
	tests := []struct {
		prefix *Path
		want   bool
	}{
		{Root(), true},
		{PathOf(Index(0)), true},
		{PathOf(Index(0), Str("list")), true},
		{leaf, true},
		{PathOf(Index(1)), false},
		{PathOf(Index(0), Str("list"), Uint(3), Uint(4)), false},
	}
	for _, tt := range tests {
		if got := leaf.HasPrefix(tt.prefix); got != tt.want {
			t.Errorf("HasPrefix(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}
}

func TestPathInterner(t *testing.T) {
	in := NewPathInterner()

	a := in.Intern(PathOf(Index(0), Str("a")))
	b := in.Intern(PathOf(Index(0), Str("b")))
	a2 := in.Intern(PathOf(Index(0), Str("a")))

	if a != a2 {
		t.Error("interning equal paths should return the same pointer")
	}
	if a.Parent() != b.Parent() {
		t.Error("interned siblings should share their parent")
	}
	if in.Len() != 3 {
		t.Errorf("Len() = %d, want 3", in.Len())
	}
	if in.Intern(Root()) != Root() {
		t.Error("root interns to itself")
	}
	if !a.Equal(PathOf(Index(0), Str("a"))) {
		t.Error("interned path should equal the original")
	}
}

func TestParsePath(t *testing.T) {
	paths := []*Path{
		Root(),
		PathOf(Index(0)),
		PathOf(Index(0), Str("row-7"), Uint(3)),
		PathOf(Str("a"), Str("b")),
		PathOf(Str("a.sb")),
		PathOf(Str(`x\`), Str("."), Bytes([]byte("k"))),
	}
	seen := map[string]*Path{}
	for _, p := range paths {
		s := p.String()
		if prev, dup := seen[s]; dup {
			t.Errorf("%v and %v both render as %q", prev.Keys(), p.Keys(), s)
		}
		seen[s] = p
		got, err := ParsePath(s)
		if err != nil || !got.Equal(p) {
			t.Errorf("ParsePath(%q) = %v, %v; want %v", s, got, err, p.Keys())
		}
	}
	for _, s := range []string{".", "0.", "0..1", `sa\`, "x"} {
		if _, err := ParsePath(s); err == nil {
			t.Errorf("ParsePath(%q) accepted", s)
		}
	}
}
