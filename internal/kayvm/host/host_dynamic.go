package host

import (
	"unsafe"

	"github.com/keiv-fly/kayton-go/internal/kayerr"
	"github.com/keiv-fly/kayton-go/internal/kayvm"
)

// DynDrop reclaims whatever a dynamic kind's opaque pointer owns.
type DynDrop func(ptr unsafe.Pointer)

// DynStore is one plugin-registered kind's arena: a sequence of
// Option<raw-ptr> slots. set-at-index invokes the previous value's drop
// before overwriting, matching every other owning kind's overwrite rule.
type DynStore struct {
	name  string
	drop  DynDrop
	slots []unsafe.Pointer
	live  []bool
}

func newDynStore(name string, drop DynDrop) *DynStore {
	return &DynStore{name: name, drop: drop}
}

func (d *DynStore) Append(ptr unsafe.Pointer) uint32 {
	d.slots = append(d.slots, ptr)
	d.live = append(d.live, true)
	return uint32(len(d.slots) - 1)
}

func (d *DynStore) Get(index uint32) (unsafe.Pointer, error) {
	if index >= uint32(len(d.slots)) || !d.live[index] {
		return nil, kayerr.New(kayerr.NotFound, "dynamic kind %q index %d not live", d.name, index)
	}
	return d.slots[index], nil
}

func (d *DynStore) SetAt(index uint32, ptr unsafe.Pointer) error {
	if index >= uint32(len(d.slots)) {
		return kayerr.New(kayerr.NotFound, "dynamic kind %q index %d out of range", d.name, index)
	}
	if d.live[index] && d.drop != nil {
		d.drop(d.slots[index])
	}
	d.slots[index] = ptr
	d.live[index] = true
	return nil
}

// Drop runs the slot's drop callback (if any) and marks it unreadable.
// Dropping an already-dropped slot is an error rather than a double free,
// matching arena.Arena[T].Drop's contract.
func (d *DynStore) Drop(index uint32) error {
	if index >= uint32(len(d.slots)) || !d.live[index] {
		return kayerr.New(kayerr.Generic, "dynamic kind %q index %d already dropped or out of range", d.name, index)
	}
	if d.drop != nil {
		d.drop(d.slots[index])
	}
	d.slots[index] = nil
	d.live[index] = false
	return nil
}

func (d *DynStore) DropAll() {
	for i := range d.slots {
		if d.live[i] && d.drop != nil {
			d.drop(d.slots[i])
		}
		d.live[i] = false
	}
}

// RegisterDynamicKind reserves a fresh kind id (the first is DynamicKindBase) and
// creates its (empty) arena. Kind ids are handed out sequentially and
// never reused within a VM's lifetime, the same append-only discipline as
// every built-in arena.
func (s *State) RegisterDynamicKind(name string, drop DynDrop) kayvm.Kind {
	kind := s.nextKindID
	s.nextKindID++
	s.dynKinds[kind] = newDynStore(name, drop)
	return kind
}

func (s *State) DynGetRaw(h kayvm.Handle) (unsafe.Pointer, error) {
	d, ok := s.dynKinds[h.Kind]
	if !ok {
		return nil, kayerr.New(kayerr.Generic, "unknown dynamic kind %d", h.Kind)
	}
	return d.Get(h.Index)
}

func (s *State) DynAppend(kind kayvm.Kind, ptr unsafe.Pointer) (kayvm.Handle, error) {
	d, ok := s.dynKinds[kind]
	if !ok {
		return kayvm.Handle{}, kayerr.New(kayerr.Generic, "unknown dynamic kind %d", kind)
	}
	idx := d.Append(ptr)
	return kayvm.Pack(kind, idx), nil
}

func (s *State) DynSetAt(h kayvm.Handle, ptr unsafe.Pointer) error {
	d, ok := s.dynKinds[h.Kind]
	if !ok {
		return kayerr.New(kayerr.Generic, "unknown dynamic kind %d", h.Kind)
	}
	return d.SetAt(h.Index, ptr)
}

// DropDynamic drops a dynamic-kind slot by handle, running its registered
// drop function exactly once.
func (s *State) DropDynamic(h kayvm.Handle) error {
	d, ok := s.dynKinds[h.Kind]
	if !ok {
		return kayerr.New(kayerr.Generic, "unknown dynamic kind %d", h.Kind)
	}
	return d.Drop(h.Index)
}
