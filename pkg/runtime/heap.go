package runtime

import (
	"fortio.org/log"
)

// Handle addresses a heap slot. Gen changes every time the slot is reused so
// a handle that outlived its object is detected instead of aliasing new data.
type Handle struct {
	Index uint32
	Gen   uint32
}

type ArrayObject struct {
	Elements []Value
}

// StructObject backs both structs and modules. Keys keep insertion order.
type StructObject struct {
	Name   string
	keys   []string
	fields map[string]Value
}

func newStructObject(name string) *StructObject {
	return &StructObject{Name: name, fields: make(map[string]Value)}
}

// Get returns the field value and whether it exists.
func (s *StructObject) Get(key string) (Value, bool) {
	v, ok := s.fields[key]
	return v, ok
}

// Set inserts or overwrites key.
func (s *StructObject) Set(key string, v Value) {
	if _, ok := s.fields[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.fields[key] = v
}

func (s *StructObject) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *StructObject) Len() int { return len(s.keys) }

type heapSlot struct {
	gen  uint32
	live bool
	obj  any
}

// Heap is the arena owning every aggregate and callable. Values carry handles
// into it, so aggregate identity is handle equality.
type Heap struct {
	slots []heapSlot
	free  []uint32
}

func NewHeap() *Heap {
	return &Heap{slots: make([]heapSlot, 0, 64)}
}

func (h *Heap) alloc(obj any) Handle {
	if n := len(h.free); n > 0 {
		idx := h.free[n-1]
		h.free = h.free[:n-1]
		slot := &h.slots[idx]
		slot.live = true
		slot.obj = obj
		return Handle{Index: idx, Gen: slot.gen}
	}
	h.slots = append(h.slots, heapSlot{live: true, obj: obj})
	return Handle{Index: uint32(len(h.slots) - 1)}
}

func (h *Heap) get(handle Handle) (any, error) {
	if int(handle.Index) >= len(h.slots) {
		return nil, Errorf(InvalidHandle, "handle %d is out of range", handle.Index)
	}
	slot := &h.slots[handle.Index]
	if !slot.live || slot.gen != handle.Gen {
		return nil, Errorf(InvalidHandle, "handle %d (generation %d) is no longer valid", handle.Index, handle.Gen)
	}
	return slot.obj, nil
}

func (h *Heap) NewArray(elements []Value) ArrayValue {
	if elements == nil {
		elements = []Value{}
	}
	return ArrayValue{Handle: h.alloc(&ArrayObject{Elements: elements})}
}

func (h *Heap) NewStruct() StructValue {
	return StructValue{Handle: h.alloc(newStructObject(""))}
}

func (h *Heap) NewModule(name string) ModuleValue {
	return ModuleValue{Handle: h.alloc(newStructObject(name))}
}

func (h *Heap) NewNative(name string, method bool, fn NativeFunc) NativeFunctionValue {
	return NativeFunctionValue{Handle: h.alloc(&NativeFunction{Name: name, Method: method, Fn: fn})}
}

func (h *Heap) NewClosure(c *Closure) FunctionValue {
	return FunctionValue{Handle: h.alloc(c)}
}

func (h *Heap) Array(v ArrayValue) (*ArrayObject, error) {
	obj, err := h.get(v.Handle)
	if err != nil {
		return nil, err
	}
	arr, ok := obj.(*ArrayObject)
	if !ok {
		return nil, Errorf(InvalidHandle, "handle %d does not reference an array", v.Handle.Index)
	}
	return arr, nil
}

// Fields returns the storage of a struct or module value.
func (h *Heap) Fields(v Value) (*StructObject, error) {
	var handle Handle
	switch val := v.(type) {
	case StructValue:
		handle = val.Handle
	case ModuleValue:
		handle = val.Handle
	default:
		return nil, Errorf(TypeError, "expected struct, got %s", TypeName(v))
	}
	obj, err := h.get(handle)
	if err != nil {
		return nil, err
	}
	s, ok := obj.(*StructObject)
	if !ok {
		return nil, Errorf(InvalidHandle, "handle %d does not reference a struct", handle.Index)
	}
	return s, nil
}

func (h *Heap) Native(v NativeFunctionValue) (*NativeFunction, error) {
	obj, err := h.get(v.Handle)
	if err != nil {
		return nil, err
	}
	fn, ok := obj.(*NativeFunction)
	if !ok {
		return nil, Errorf(InvalidHandle, "handle %d does not reference a native function", v.Handle.Index)
	}
	return fn, nil
}

func (h *Heap) Closure(v FunctionValue) (*Closure, error) {
	obj, err := h.get(v.Handle)
	if err != nil {
		return nil, err
	}
	c, ok := obj.(*Closure)
	if !ok {
		return nil, Errorf(InvalidHandle, "handle %d does not reference a function", v.Handle.Index)
	}
	return c, nil
}

// Live returns the number of allocated slots.
func (h *Heap) Live() int {
	return len(h.slots) - len(h.free)
}

// Collect frees every slot unreachable from roots and envs and returns the
// number of slots released. It must only run while no evaluation is in flight.
func (h *Heap) Collect(roots []Value, envs ...*Environment) int {
	marked := make([]bool, len(h.slots))
	seenEnv := make(map[*Environment]struct{})
	work := append([]Value(nil), roots...)
	envWork := append([]*Environment(nil), envs...)

	for len(work) > 0 || len(envWork) > 0 {
		for len(envWork) > 0 {
			env := envWork[len(envWork)-1]
			envWork = envWork[:len(envWork)-1]
			for env != nil {
				if _, ok := seenEnv[env]; ok {
					break
				}
				seenEnv[env] = struct{}{}
				for _, b := range env.values {
					work = append(work, b.Value)
				}
				env = env.parent
			}
		}
		if len(work) == 0 {
			break
		}
		v := work[len(work)-1]
		work = work[:len(work)-1]
		handle, ok := handleOf(v)
		if !ok || int(handle.Index) >= len(h.slots) {
			if c, isComplex := v.(ComplexValue); isComplex {
				work = append(work, c.Re, c.Im)
			}
			continue
		}
		slot := &h.slots[handle.Index]
		if !slot.live || slot.gen != handle.Gen || marked[handle.Index] {
			continue
		}
		marked[handle.Index] = true
		switch obj := slot.obj.(type) {
		case *ArrayObject:
			work = append(work, obj.Elements...)
		case *StructObject:
			for _, key := range obj.keys {
				work = append(work, obj.fields[key])
			}
		case *Closure:
			if obj.Env != nil {
				envWork = append(envWork, obj.Env)
			}
			for _, memo := range obj.Memo {
				work = append(work, memo)
			}
		}
	}

	released := 0
	for idx := range h.slots {
		slot := &h.slots[idx]
		if !slot.live || marked[idx] {
			continue
		}
		slot.live = false
		slot.obj = nil
		slot.gen++
		h.free = append(h.free, uint32(idx))
		released++
	}
	log.Debugf("heap collect: released=%d live=%d", released, h.Live())
	return released
}

func handleOf(v Value) (Handle, bool) {
	switch val := v.(type) {
	case ArrayValue:
		return val.Handle, true
	case StructValue:
		return val.Handle, true
	case ModuleValue:
		return val.Handle, true
	case NativeFunctionValue:
		return val.Handle, true
	case FunctionValue:
		return val.Handle, true
	default:
		return Handle{}, false
	}
}

// SameHandle reports identity equality for aggregates and callables.
func SameHandle(a, b Value) bool {
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	ha, okA := handleOf(a)
	hb, okB := handleOf(b)
	return okA && okB && ha == hb
}
