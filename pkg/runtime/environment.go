package runtime

// Binding is a named storage slot. Mutable is false for let bindings.
type Binding struct {
	Value   Value
	Mutable bool
}

// Environment is a lexical scope.
type Environment struct {
	parent *Environment
	values map[string]*Binding
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, values: make(map[string]*Binding)}
}

func (e *Environment) Parent() *Environment { return e.parent }

// Define creates or replaces a binding in this scope.
func (e *Environment) Define(name string, v Value, mutable bool) {
	if v == nil {
		v = Null
	}
	e.values[name] = &Binding{Value: v, Mutable: mutable}
}

// Binding resolves name through the scope chain.
func (e *Environment) Binding(name string) (*Binding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.values[name]; ok {
			return b, true
		}
	}
	return nil, false
}

func (e *Environment) Get(name string) (Value, error) {
	b, ok := e.Binding(name)
	if !ok {
		return nil, Errorf(NameError, "undefined variable '%s'", name)
	}
	return b.Value, nil
}

// Assign rebinds an existing name.
func (e *Environment) Assign(name string, v Value) error {
	b, ok := e.Binding(name)
	if !ok {
		return Errorf(NameError, "undefined variable '%s'", name)
	}
	if !b.Mutable {
		return Errorf(ImmutableAssignment, "cannot assign to immutable variable '%s'", name)
	}
	if v == nil {
		v = Null
	}
	b.Value = v
	return nil
}

func (e *Environment) HasInCurrentScope(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Names returns the names bound directly in this scope.
func (e *Environment) Names() []string {
	out := make([]string, 0, len(e.values))
	for name := range e.values {
		out = append(out, name)
	}
	return out
}
