// Package natives implements the Native Registry: a process-wide,
// immutable table of host-provided functions reachable from NativeCall and
// ExternCall, plus the resource registry that mints and releases opaque
// Handle values and the FFI bridge that marshals aggregates for ExternCall.
package natives

import (
	"strings"

	"github.com/vesper-lang/vesper/internal/faults"
	"github.com/vesper-lang/vesper/internal/values"
)

// Fn is a host-provided implementation of one native function.
type Fn func(args []values.Value) (values.Value, error)

// Entry describes one registered function: its implementation, arity (-1
// for variadic), and whether it is pure. Purity is recorded here for
// introspection (Lookup/IsPure), but internal/optimize's dead-code
// elimination does not special-case NativeCall: even a pure native
// function can fault on a mistyped argument, so only statically total
// literal/aggregate nodes are eligible for that optimization.
type Entry struct {
	Fn       Fn
	Arity    int
	Pure     bool
	Params   []values.Type
	Return   values.Type
}

// Module groups the Entries reachable under one module name. Fallback, if
// set, handles any function name not present in Entries. It is used by the
// stub modules (audio, graphics, window, ...) that are external
// collaborators with only narrative contracts: every call on them answers
// NativeError("unimplemented").
type Module struct {
	Name     string
	Entries  map[string]Entry
	Externs  map[string]ExternEntry
	Fallback Fn
}

// Registry is the process-wide immutable (once built) module table.
type Registry struct {
	modules map[string]*Module
	allowed map[string]bool // nil means every registered module is reachable
}

// NewRegistry builds an empty registry; callers add modules with Register
// before the registry is handed to an Evaluator, after which it is treated
// as immutable.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Restrict limits NativeCall/ExternCall dispatch to the named modules,
// mirroring Config.NativeModules; an empty or nil list is a no-op and
// leaves every registered module reachable. Intended to be called once,
// right after construction, before the registry is shared with an
// Evaluator.
func (r *Registry) Restrict(modules []string) {
	if len(modules) == 0 {
		r.allowed = nil
		return
	}
	r.allowed = make(map[string]bool, len(modules))
	for _, m := range modules {
		r.allowed[m] = true
	}
}

func (r *Registry) isAllowed(module string) bool {
	return r.allowed == nil || r.allowed[module]
}

// Register adds or replaces a module definition.
func (r *Registry) Register(m *Module) {
	r.modules[m.Name] = m
}

// AddFunction registers a single function under module.name, creating the
// module on first use rather than replacing any functions already
// registered on it: the incremental counterpart to Register, used by
// callers extending the default registry with one function at a time.
func (r *Registry) AddFunction(module, name string, entry Entry) {
	m, ok := r.modules[module]
	if !ok {
		m = &Module{Name: module, Entries: map[string]Entry{}}
		r.modules[module] = m
	}
	if m.Entries == nil {
		m.Entries = map[string]Entry{}
	}
	m.Entries[name] = entry
}

// SplitName splits a NativeCall's dotted "module.function" name. A name
// with no dot is treated as belonging to the empty-string default module.
func SplitName(name string) (module, function string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func (r *Registry) lookup(module, function string) (Entry, *Module, bool) {
	m, ok := r.modules[module]
	if !ok {
		return Entry{}, nil, false
	}
	e, ok := m.Entries[function]
	return e, m, ok
}

// Call dispatches (module, function) with args, enforcing declared arity
// before invoking the host implementation. Unregistered modules, or
// functions with no entry and no module fallback, fault as NativeError.
func (r *Registry) Call(module, function string, args []values.Value) (values.Value, error) {
	if !r.isAllowed(module) {
		return nil, faults.New(faults.NativeError, "module %q is not in the configured native module allowlist", module)
	}
	entry, m, ok := r.lookup(module, function)
	if !ok {
		if m != nil && m.Fallback != nil {
			return m.Fallback(args)
		}
		return nil, faults.New(faults.NativeError, "no native function %q registered in module %q", function, module)
	}
	if entry.Arity >= 0 && len(args) != entry.Arity {
		return nil, faults.New(faults.Arity, "native %s.%s expects %d argument(s), got %d", module, function, entry.Arity, len(args))
	}
	return entry.Fn(args)
}

// IsPure reports whether (module, function) is registered as pure. The
// optimizer does not consult it: an unused NativeCall is never eliminated.
func (r *Registry) IsPure(module, function string) bool {
	entry, _, ok := r.lookup(module, function)
	return ok && entry.Pure
}

// Lookup exposes a native entry's declared signature, used for diagnostics.
func (r *Registry) Lookup(module, function string) (Entry, bool) {
	entry, _, ok := r.lookup(module, function)
	return entry, ok
}

// CallExtern dispatches an ExternCall: Module must declare function as an
// extern with a recorded FFI signature, which the Bridge (ffi.go) checks
// before and after invoking the host implementation.
func (r *Registry) CallExtern(module, function string, args []values.Value) (values.Value, error) {
	if !r.isAllowed(module) {
		return nil, faults.New(faults.NativeError, "module %q is not in the configured native module allowlist", module)
	}
	m, ok := r.modules[module]
	if !ok {
		return nil, faults.New(faults.NativeError, "no module %q registered for extern calls", module)
	}
	entry, ok := m.Externs[function]
	if !ok {
		return nil, faults.New(faults.NativeError, "no extern function %q registered in module %q", function, module)
	}
	return CallExtern(entry, args)
}
