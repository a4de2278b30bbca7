// Package binding implements the bidirectional name<->handle table (C3).
package binding

import (
	"sort"

	"github.com/keiv-fly/kayton-go/internal/kayerr"
	"github.com/keiv-fly/kayton-go/internal/kayvm"
)

// Table is the name<->handle binding table. Names are case-sensitive.
// Rebinding to a different kind always allocates a fresh arena slot
// elsewhere and never reuses the old slot's storage; Table only tracks
// which handle a name currently points at.
type Table struct {
	byName map[string]kayvm.Handle
	byHkey map[uint64]string
}

func New() *Table {
	return &Table{
		byName: make(map[string]kayvm.Handle),
		byHkey: make(map[uint64]string),
	}
}

// Bind records name -> handle. If name already maps to a handle with the
// same kind and index, this is a no-op.
func (t *Table) Bind(name string, h kayvm.Handle) {
	if existing, ok := t.byName[name]; ok && existing == h {
		return
	}
	if existing, ok := t.byName[name]; ok {
		delete(t.byHkey, kayvm.Encode(existing))
	}
	t.byName[name] = h
	t.byHkey[kayvm.Encode(h)] = name
}

// Resolve looks up a name's current handle.
func (t *Table) Resolve(name string) (kayvm.Handle, error) {
	h, ok := t.byName[name]
	if !ok {
		return kayvm.Handle{}, kayerr.New(kayerr.NotFound, "no binding for name %q", name)
	}
	return h, nil
}

// ReverseLookup returns the name currently bound to a handle, if any.
func (t *Table) ReverseLookup(h kayvm.Handle) (string, bool) {
	name, ok := t.byHkey[kayvm.Encode(h)]
	return name, ok
}

// Binding pairs a name with its current handle, for Snapshot.
type Binding struct {
	Name   string
	Handle kayvm.Handle
}

// Snapshot returns every (name, handle) pair, ordered by name for
// deterministic inspection/display.
func (t *Table) Snapshot() []Binding {
	out := make([]Binding, 0, len(t.byName))
	for name, h := range t.byName {
		out = append(out, Binding{Name: name, Handle: h})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
