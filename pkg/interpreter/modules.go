package interpreter

import (
	"strings"

	"fortio.org/log"

	"rumina/interpreter-go/pkg/runtime"
)

const modulePrefix = "rumina:"

// moduleMember is one exported entry of a virtual module, kept in
// declaration order so modules display and iterate predictably.
type moduleMember struct {
	name  string
	value runtime.Value
}

// registerModule publishes a module under its bare name and rumina:<name>.
func (i *Interpreter) registerModule(name string, members []moduleMember) runtime.ModuleValue {
	mod := i.heap.NewModule(name)
	fields, err := i.heap.Fields(mod)
	if err != nil {
		panic(err)
	}
	for _, member := range members {
		fields.Set(member.name, member.value)
	}
	if _, exists := i.modules[name]; exists {
		log.Warnf("module %s registered twice; keeping the latest", name)
	}
	i.modules[name] = mod
	i.modules[modulePrefix+name] = mod
	return mod
}

// includeModule binds a registered module in env under its bare name.
func (i *Interpreter) includeModule(path string, env *runtime.Environment) error {
	mod, ok := i.modules[path]
	if !ok {
		return runtime.Errorf(runtime.NameError, "unknown module '%s'", path)
	}
	name := strings.TrimPrefix(path, modulePrefix)
	env.Define(name, mod, false)
	log.LogVf("include %s", path)
	return nil
}

// Modules lists the registered module names without the rumina: prefix.
func (i *Interpreter) Modules() []string {
	names := make([]string, 0, len(i.modules)/2)
	for name := range i.modules {
		if !strings.HasPrefix(name, modulePrefix) {
			names = append(names, name)
		}
	}
	return names
}
