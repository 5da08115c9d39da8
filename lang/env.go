package lang

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Binding is a named storage location in one [Env] frame.
type Binding struct {
	Name        string
	Value       Value
	Decl        Decl
	Initialized bool
	Address     string
}

// Env is one frame of the lexical environment chain. The display parent
// differs from the lexical parent only for loop iteration frames, which are
// grouped under their loop frame while keeping independent bindings.
type Env struct {
	Name string

	parent   *Env
	display  *Env
	function bool
	names    []string
	bindings map[string]*Binding
	heap     *heap
}

// heap hands out display addresses for one run.
type heap struct{ next uint64 }

func (h *heap) alloc() string {
	h.next += 0x10

	return "0x" + strconv.FormatUint(h.next, 16)
}

// NewEnv returns an empty global frame with a fresh address space.
func NewEnv() *Env {
	return &Env{
		Name:     "global",
		function: true,
		bindings: map[string]*Binding{},
		heap:     &heap{next: 0x1000},
	}
}

func (e *Env) child(name string, function bool) *Env {
	return &Env{
		Name:     name,
		parent:   e,
		display:  e,
		function: function,
		bindings: map[string]*Binding{},
		heap:     e.heap,
	}
}

// iteration returns a copy of the loop frame e for one pass of a loop body.
// Its lexical parent is the loop's enclosing frame and its display parent is
// the loop frame. Each copied binding gets its own address.
func (e *Env) iteration(loop *Env, n int) *Env {
	it := &Env{
		Name:     "iteration " + strconv.Itoa(n),
		parent:   loop.parent,
		display:  loop,
		bindings: make(map[string]*Binding, len(e.bindings)),
		heap:     e.heap,
	}

	for _, name := range e.names {
		b := *e.bindings[name]
		b.Address = it.heap.alloc()
		it.names = append(it.names, name)
		it.bindings[name] = &b
	}

	return it
}

// Parent returns the lexical parent, or nil for the global frame.
func (e *Env) Parent() *Env { return e.parent }

// DisplayParent returns the frame e is grouped under for display.
func (e *Env) DisplayParent() *Env { return e.display }

// IsFunction reports whether e is a function or global frame, the target of
// var declarations.
func (e *Env) IsFunction() bool { return e.function }

// Bindings returns the bindings of this frame in declaration order.
func (e *Env) Bindings() []*Binding {
	out := make([]*Binding, len(e.names))
	for i, n := range e.names {
		out[i] = e.bindings[n]
	}

	return out
}

// Own returns the binding declared in this frame, or nil.
func (e *Env) Own(name string) *Binding { return e.bindings[name] }

func (e *Env) functionScope() *Env {
	f := e
	for !f.function && f.parent != nil {
		f = f.parent
	}

	return f
}

// Define declares name. A var goes to the nearest function frame and is a
// no-op if already declared there as var; any other kind goes to e and is
// an error if e already holds the name.
func (e *Env) Define(name string, decl Decl) (*Binding, *Env, error) {
	target := e
	if decl == DeclVar {
		target = e.functionScope()
	}

	if b, ok := target.bindings[name]; ok {
		if decl == DeclVar && (b.Decl == DeclVar || b.Decl == DeclParam) {
			return b, target, nil
		}

		return nil, nil, newRuntimeError(SyntaxError, ErrRedeclared,
			fmt.Sprintf("Identifier '%s' has already been declared", name))
	}

	b := &Binding{
		Name:        name,
		Value:       Undefined{},
		Decl:        decl,
		Initialized: decl == DeclVar,
		Address:     target.heap.alloc(),
	}

	target.names = append(target.names, name)
	target.bindings[name] = b

	return b, target, nil
}

// Initialize sets the value of a declared binding and ends its temporal
// dead zone.
func (e *Env) Initialize(name string, v Value) (*Env, error) {
	b, owner := e.lookup(name)
	if b == nil {
		return nil, notDefined(name)
	}

	b.Value = v
	b.Initialized = true

	return owner, nil
}

// Assign writes an initialized, non-const binding.
func (e *Env) Assign(name string, v Value) (*Env, error) {
	b, owner, err := e.Get(name)
	if err != nil {
		return nil, err
	}

	if b.Decl == DeclConst {
		return nil, newRuntimeError(TypeError, ErrConstAssign,
			"Assignment to constant variable.")
	}

	b.Value = v

	return owner, nil
}

// Get returns the initialized binding for name and the frame holding it.
func (e *Env) Get(name string) (*Binding, *Env, error) {
	b, owner := e.lookup(name)

	switch {
	case b == nil:
		return nil, nil, notDefined(name)
	case !b.Initialized:
		return nil, nil, newRuntimeError(ReferenceError, ErrUninitialized,
			fmt.Sprintf("Cannot access '%s' before initialization", name))
	}

	return b, owner, nil
}

func (e *Env) lookup(name string) (*Binding, *Env) {
	for f := e; f != nil; f = f.parent {
		if b, ok := f.bindings[name]; ok {
			return b, f
		}
	}

	return nil, nil
}

func notDefined(name string) *RuntimeError {
	return newRuntimeError(ReferenceError, ErrNotDefined, name+" is not defined")
}

// DisplayPath returns the frame names from the global frame down to e along
// display parents. Frames without bindings are skipped, except the global
// frame.
func (e *Env) DisplayPath() []string {
	var path []string

	for f := e; f != nil; f = f.display {
		if len(f.names) > 0 || f.display == nil {
			path = append(path, f.Name)
		}
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

// Visible returns the initialized bindings reachable from e, with inner
// frames shadowing outer ones.
func (e *Env) Visible() map[string]Value {
	out := map[string]Value{}

	for f := e; f != nil; f = f.parent {
		for name, b := range f.bindings {
			if _, ok := out[name]; !ok && b.Initialized {
				out[name] = b.Value
			}
		}
	}

	return out
}

// reachable returns every declared name reachable from e, sorted.
func (e *Env) reachable() []string {
	seen := map[string]bool{}

	for f := e; f != nil; f = f.parent {
		for _, n := range f.names {
			seen[n] = true
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
