package typing

import "stilt/pkg/types"

// Builtins is the builtin-symbol table consulted for resolved globals
// that don't publish their own type. Built once at startup and handed to
// each checking session; never mutated afterwards.
type Builtins struct {
	byName map[string]types.Ty
}

func NewBuiltins() *Builtins {
	return &Builtins{byName: make(map[string]types.Ty)}
}

func (b *Builtins) Add(name string, ty types.Ty) {
	b.byName[name] = ty
}

func (b *Builtins) Builtin(name string) (types.Ty, bool) {
	ty, ok := b.byName[name]
	return ty, ok
}
