package interpreter

import (
	"slices"
	"unicode/utf8"

	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

// memberGet reads obj.name. Missing keys and null receivers yield null.
func (i *Interpreter) memberGet(obj runtime.Value, name string) (runtime.Value, error) {
	switch obj.(type) {
	case runtime.StructValue, runtime.ModuleValue:
		fields, err := i.heap.Fields(obj)
		if err != nil {
			return nil, err
		}
		if v, ok := fields.Get(name); ok {
			return v, nil
		}
		return runtime.Null, nil
	case nil, runtime.NullValue:
		return runtime.Null, nil
	}
	return nil, runtime.Errorf(runtime.TypeError, "cannot access member '%s' on %s", name, runtime.TypeName(obj))
}

// indexGet reads obj[index] for arrays, strings and structs.
func (i *Interpreter) indexGet(obj, index runtime.Value) (runtime.Value, error) {
	switch o := obj.(type) {
	case runtime.ArrayValue:
		arr, err := i.heap.Array(o)
		if err != nil {
			return nil, err
		}
		idx, err := arrayIndex(index, len(arr.Elements))
		if err != nil {
			return nil, err
		}
		return arr.Elements[idx], nil
	case runtime.StringValue:
		runes := []rune(o.Val)
		idx, err := arrayIndex(index, len(runes))
		if err != nil {
			return nil, err
		}
		return runtime.String(string(runes[idx])), nil
	case runtime.StructValue, runtime.ModuleValue:
		key, ok := index.(runtime.StringValue)
		if !ok {
			return nil, runtime.Errorf(runtime.TypeError, "struct index must be a string, got %s", runtime.TypeName(index))
		}
		return i.memberGet(obj, key.Val)
	case nil, runtime.NullValue:
		return runtime.Null, nil
	}
	return nil, runtime.Errorf(runtime.TypeError, "cannot index %s", runtime.TypeName(obj))
}

func arrayIndex(index runtime.Value, length int) (int, error) {
	iv, ok := index.(runtime.IntValue)
	if !ok {
		return 0, runtime.Errorf(runtime.TypeError, "index must be an int, got %s", runtime.TypeName(index))
	}
	if iv.Val < 0 || iv.Val >= int64(length) {
		return 0, runtime.Errorf(runtime.TypeError, "index %d out of range for length %d", iv.Val, length)
	}
	return int(iv.Val), nil
}

//-----------------------------------------------------------------------------
// Assignment targets
//-----------------------------------------------------------------------------

// assignSlot is a storage location that can receive an autovivified struct.
type assignSlot interface {
	store(v runtime.Value)
}

type bindingSlot struct {
	binding *runtime.Binding
}

func (s bindingSlot) store(v runtime.Value) { s.binding.Value = v }

type fieldSlot struct {
	fields *runtime.StructObject
	key    string
}

func (s fieldSlot) store(v runtime.Value) { s.fields.Set(s.key, v) }

// assignTarget is either an existing value (value set, slot nil) or a null
// slot that needs fresh structs before it can be written (slot set). pending
// holds the member keys below the slot; nothing is allocated until a store
// has been validated.
type assignTarget struct {
	value   runtime.Value
	slot    assignSlot
	pending []string
}

func (t assignTarget) needsAutoviv() bool { return t.slot != nil }

// bindingTarget resolves an identifier at the root of a member or index
// assignment. Immutable bindings are rejected before anything is mutated.
func (i *Interpreter) bindingTarget(env *runtime.Environment, name string) (assignTarget, error) {
	binding, ok := env.Binding(name)
	if !ok {
		return assignTarget{}, runtime.Errorf(runtime.NameError, "undefined variable '%s'", name)
	}
	if !binding.Mutable {
		return assignTarget{}, runtime.Errorf(runtime.ImmutableAssignment, "cannot assign through immutable variable '%s'", name)
	}
	if runtime.IsNull(binding.Value) {
		return assignTarget{slot: bindingSlot{binding: binding}}, nil
	}
	return assignTarget{value: binding.Value}, nil
}

// valueTarget roots an assignment at a computed value; there is no slot to
// autovivify into.
func valueTarget(v runtime.Value) assignTarget {
	if v == nil {
		v = runtime.Null
	}
	return assignTarget{value: v}
}

// materialize returns the aggregate the target refers to. For an
// autovivification target it allocates the struct for the slot plus one
// nested struct per pending key, then stores the chain into the slot.
func (i *Interpreter) materialize(t assignTarget) runtime.Value {
	if !t.needsAutoviv() {
		return t.value
	}
	root := i.heap.NewStruct()
	inner := root
	for _, key := range t.pending {
		child := i.heap.NewStruct()
		if fields, err := i.heap.Fields(inner); err == nil {
			fields.Set(key, child)
		}
		inner = child
	}
	t.slot.store(root)
	return inner
}

// fieldTarget descends one member of an assignment chain. Below an
// autovivification slot the key is only recorded.
func (i *Interpreter) fieldTarget(parent assignTarget, key string) (assignTarget, error) {
	if parent.needsAutoviv() {
		pending := append(slices.Clone(parent.pending), key)
		return assignTarget{slot: parent.slot, pending: pending}, nil
	}
	if err := requireStructTarget(parent.value, key); err != nil {
		return assignTarget{}, err
	}
	fields, err := i.heap.Fields(parent.value)
	if err != nil {
		return assignTarget{}, err
	}
	current, ok := fields.Get(key)
	if !ok || runtime.IsNull(current) {
		return assignTarget{slot: fieldSlot{fields: fields, key: key}}, nil
	}
	return assignTarget{value: current}, nil
}

func requireStructTarget(v runtime.Value, key string) error {
	switch v.(type) {
	case runtime.StructValue, runtime.ModuleValue:
		return nil
	case nil, runtime.NullValue:
		return runtime.Errorf(runtime.TypeError, "cannot set member '%s' on null", key)
	}
	return runtime.Errorf(runtime.TypeError, "cannot set member '%s' on %s", key, runtime.TypeName(v))
}

// resolveAssignPath walks the intermediate members of an assignment chain.
func (i *Interpreter) resolveAssignPath(root assignTarget, path []string) (assignTarget, error) {
	target := root
	for _, key := range path {
		next, err := i.fieldTarget(target, key)
		if err != nil {
			return assignTarget{}, err
		}
		target = next
	}
	return target, nil
}

// storeMember writes target.key = value.
func (i *Interpreter) storeMember(target assignTarget, key string, value runtime.Value) error {
	if !target.needsAutoviv() {
		if err := requireStructTarget(target.value, key); err != nil {
			return err
		}
	}
	fields, err := i.heap.Fields(i.materialize(target))
	if err != nil {
		return err
	}
	fields.Set(key, value)
	return nil
}

// storeIndex writes target[index] = value. A null slot autovivifies into a
// struct only for string keys, checked before anything is allocated.
func (i *Interpreter) storeIndex(target assignTarget, index, value runtime.Value) error {
	if target.needsAutoviv() {
		key, ok := index.(runtime.StringValue)
		if !ok {
			return runtime.Errorf(runtime.TypeError, "cannot index-assign %s into null", runtime.TypeName(index))
		}
		return i.storeMember(target, key.Val, value)
	}
	switch obj := target.value.(type) {
	case runtime.ArrayValue:
		arr, err := i.heap.Array(obj)
		if err != nil {
			return err
		}
		idx, err := arrayIndex(index, len(arr.Elements))
		if err != nil {
			return err
		}
		arr.Elements[idx] = value
		return nil
	case runtime.StructValue, runtime.ModuleValue:
		key, ok := index.(runtime.StringValue)
		if !ok {
			return runtime.Errorf(runtime.TypeError, "struct index must be a string, got %s", runtime.TypeName(index))
		}
		fields, err := i.heap.Fields(obj)
		if err != nil {
			return err
		}
		fields.Set(key.Val, value)
		return nil
	case runtime.StringValue:
		return runtime.Errorf(runtime.TypeError, "strings are immutable")
	}
	return runtime.Errorf(runtime.TypeError, "cannot index-assign into %s", runtime.TypeName(target.value))
}

// splitAssignPath turns a.b.c into the root expression a and the member path
// [b c]. Both execution strategies lower chains through it.
func splitAssignPath(expr ast.Expression) (ast.Expression, []string) {
	var path []string
	for {
		member, ok := expr.(*ast.MemberAccessExpression)
		if !ok {
			break
		}
		path = append(path, member.Member.Name)
		expr = member.Object
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return expr, path
}

func runeCount(s string) int { return utf8.RuneCountInString(s) }
