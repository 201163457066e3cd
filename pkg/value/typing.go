package value

import (
	"fmt"
	"strings"
	"sync"
)

// TypeCompiled is a compiled type annotation, ready to match values.
type TypeCompiled interface {
	Matches(v Value) bool
}

// InvalidAnnotationError reports an annotation value that isn't part of
// the annotation grammar.
type InvalidAnnotationError struct {
	Annot string
}

func (e InvalidAnnotationError) Error() string {
	return fmt.Sprintf("Type `%s` is not a valid type annotation", e.Annot)
}

// PerhapsYouMeantError reports a constructor used bare where its quoted
// type name was intended, e.g. `int` instead of `"int"`.
type PerhapsYouMeantError struct {
	Annot string
	Name  string
}

func (e PerhapsYouMeantError) Error() string {
	return fmt.Sprintf("Found `%s` instead of a valid type annotation. Perhaps you meant `%q`?", e.Annot, e.Name)
}

// MismatchError reports a value failing its annotation.
type MismatchError struct {
	Value Value
	Annot Value
	// What names the checked position, "argument `x`" or "return type".
	What string
}

func (e MismatchError) Error() string {
	return fmt.Sprintf("Value `%s` of type `%s` does not match the type annotation `%s` for %s",
		toStr(e.Value), e.Value.Type(), toStr(e.Annot), e.What)
}

// toStr is the str() form: strings render unquoted, everything else as
// its repr.
func toStr(v Value) string {
	if s, ok := v.(Str); ok {
		return string(s)
	}
	return v.String()
}

// isWildcard reports whether a type name matches everything. Empty or
// underscore-prefixed names are wildcards.
func isWildcard(name string) bool {
	return name == "" || strings.HasPrefix(name, "_")
}

func isWildcardValue(v Value) bool {
	s, ok := v.(Str)
	return ok && isWildcard(string(s))
}

type anything struct{}

func (anything) Matches(Value) bool { return true }

type isNone struct{}

func (isNone) Matches(v Value) bool {
	_, ok := v.(None)
	return ok
}

type isString struct{}

func (isString) Matches(v Value) bool {
	_, ok := v.(Str)
	return ok
}

type isInt struct{}

func (isInt) Matches(v Value) bool {
	_, ok := v.(Int)
	return ok
}

type isBool struct{}

func (isBool) Matches(v Value) bool {
	_, ok := v.(Bool)
	return ok
}

type isConcrete string

func (c isConcrete) Matches(v Value) bool { return v.Type() == string(c) }

type isList struct{}

func (isList) Matches(v Value) bool {
	_, ok := v.(List)
	return ok
}

type listOf struct{ elt TypeCompiled }

func (l listOf) Matches(v Value) bool {
	xs, ok := v.(List)
	if !ok {
		return false
	}
	for _, x := range xs {
		if !l.elt.Matches(x) {
			return false
		}
	}
	return true
}

// anyOfTwo is the two-alternative special case of anyOf. It matches
// exactly what the general form matches; it only exists because unions of
// two are by far the most common.
type anyOfTwo struct{ a, b TypeCompiled }

func (u anyOfTwo) Matches(v Value) bool { return u.a.Matches(v) || u.b.Matches(v) }

type anyOf []TypeCompiled

func (u anyOf) Matches(v Value) bool {
	for _, t := range u {
		if t.Matches(v) {
			return true
		}
	}
	return false
}

type isDict struct{}

func (isDict) Matches(v Value) bool {
	_, ok := v.(Dict)
	return ok
}

type dictOf struct{ k, v TypeCompiled }

func (d dictOf) Matches(v Value) bool {
	m, ok := v.(Dict)
	if !ok {
		return false
	}
	for _, e := range m {
		if !d.k.Matches(e.Key) || !d.v.Matches(e.Value) {
			return false
		}
	}
	return true
}

type tupleOf []TypeCompiled

func (ts tupleOf) Matches(v Value) bool {
	xs, ok := v.(Tuple)
	if !ok || len(xs) != len(ts) {
		return false
	}
	for i, t := range ts {
		if !t.Matches(xs[i]) {
			return false
		}
	}
	return true
}

func compileName(name string) TypeCompiled {
	if isWildcard(name) {
		return anything{}
	}
	switch name {
	case "string":
		return isString{}
	case "int":
		return isInt{}
	case "bool":
		return isBool{}
	default:
		return isConcrete(name)
	}
}

func compileList(xs List) (TypeCompiled, error) {
	switch len(xs) {
	case 0:
		return nil, InvalidAnnotationError{Annot: toStr(xs)}
	case 1:
		// A list whose elements all match. A wildcard element skips the
		// per-element walk entirely.
		if isWildcardValue(xs[0]) {
			return isList{}, nil
		}
		elt, err := CompileType(xs[0])
		if err != nil {
			return nil, err
		}
		return listOf{elt: elt}, nil
	case 2:
		a, err := CompileType(xs[0])
		if err != nil {
			return nil, err
		}
		b, err := CompileType(xs[1])
		if err != nil {
			return nil, err
		}
		return anyOfTwo{a: a, b: b}, nil
	default:
		alts := make(anyOf, 0, len(xs))
		for _, x := range xs {
			t, err := CompileType(x)
			if err != nil {
				return nil, err
			}
			alts = append(alts, t)
		}
		return alts, nil
	}
}

func compileDict(d Dict) (TypeCompiled, error) {
	// Only a singleton dict is a valid dict annotation.
	if len(d) != 1 {
		return nil, InvalidAnnotationError{Annot: toStr(d)}
	}
	e := d[0]
	if isWildcardValue(e.Key) && isWildcardValue(e.Value) {
		return isDict{}, nil
	}
	k, err := CompileType(e.Key)
	if err != nil {
		return nil, err
	}
	v, err := CompileType(e.Value)
	if err != nil {
		return nil, err
	}
	return dictOf{k: k, v: v}, nil
}

// CompileType compiles an annotation value into a matcher.
func CompileType(annot Value) (TypeCompiled, error) {
	switch a := annot.(type) {
	case Str:
		return compileName(string(a)), nil
	case None:
		return isNone{}, nil
	case Tuple:
		ts := make(tupleOf, 0, len(a))
		for _, x := range a {
			t, err := CompileType(x)
			if err != nil {
				return nil, err
			}
			ts = append(ts, t)
		}
		return ts, nil
	case List:
		return compileList(a)
	case Dict:
		return compileDict(a)
	case Builtin:
		if a.TypeAttr != "" {
			return nil, PerhapsYouMeantError{Annot: toStr(annot), Name: a.TypeAttr}
		}
		return nil, InvalidAnnotationError{Annot: toStr(annot)}
	default:
		return nil, InvalidAnnotationError{Annot: toStr(annot)}
	}
}

// IsType reports whether a value matches an annotation.
func IsType(v, annot Value) (bool, error) {
	t, err := CompileType(annot)
	if err != nil {
		return false, err
	}
	return t.Matches(v), nil
}

// CheckType checks a value against an annotation. argName is the
// parameter being checked; empty means the function's return value.
func CheckType(v, annot Value, argName string) error {
	ok, err := IsType(v, annot)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	what := "return type"
	if argName != "" {
		what = fmt.Sprintf("argument `%s`", argName)
	}
	return MismatchError{Value: v, Annot: annot, What: what}
}

// MatcherCache memoizes compiled annotations by their repr. Annotation
// values are tiny and compare by display faithfully, so the repr is a
// sound cache key. Safe for concurrent use.
type MatcherCache struct {
	mu sync.Mutex
	m  map[string]TypeCompiled
}

func NewMatcherCache() *MatcherCache {
	return &MatcherCache{m: make(map[string]TypeCompiled)}
}

func (c *MatcherCache) Get(annot Value) (TypeCompiled, error) {
	key := annot.String()
	c.mu.Lock()
	t, ok := c.m[key]
	c.mu.Unlock()
	if ok {
		return t, nil
	}
	t, err := CompileType(annot)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.m[key] = t
	c.mu.Unlock()
	return t, nil
}
