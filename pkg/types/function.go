package types

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"stilt/pkg/syntax"
)

// ParamMode says how a parameter can be filled at a call site.
type ParamMode int

const (
	ParamPosOnly ParamMode = iota
	ParamPosOrName
	ParamNameOnly
	ParamArgsMode   // *args
	ParamKwargsMode // **kwargs
)

// Param is a declared function parameter.
type Param struct {
	Name     string
	Ty       Ty
	Mode     ParamMode
	Optional bool
}

func PosOnly(ty Ty) Param               { return Param{Ty: ty, Mode: ParamPosOnly} }
func PosOrName(name string, ty Ty) Param { return Param{Name: name, Ty: ty, Mode: ParamPosOrName} }
func NameOnly(name string, ty Ty) Param  { return Param{Name: name, Ty: ty, Mode: ParamNameOnly} }
func Args(ty Ty) Param                   { return Param{Ty: ty, Mode: ParamArgsMode} }
func Kwargs(ty Ty) Param                 { return Param{Ty: ty, Mode: ParamKwargsMode} }

// Opt marks the parameter as having a default.
func (p Param) Opt() Param {
	p.Optional = true
	return p
}

func (p Param) display() string {
	switch p.Mode {
	case ParamArgsMode:
		return fmt.Sprintf("*args: %s", p.Ty)
	case ParamKwargsMode:
		return fmt.Sprintf("**kwargs: %s", p.Ty)
	default:
		s := p.Ty.String()
		if p.Name != "" {
			s = p.Name + ": " + s
		}
		if p.Optional {
			s += " = .."
		}
		return s
	}
}

// Function is the custom type of callables.
type Function struct {
	// TypeAttr is non-empty for constructor functions: the value of their
	// `.type` attribute, e.g. "int" for the `int` builtin.
	TypeAttr string
	Params   []Param
	Result   Ty
}

// NewFunction creates a function type.
func NewFunction(params []Param, result Ty) Ty {
	return Custom(Function{Params: params, Result: result})
}

// CtorFunction creates a function type whose `.type` attribute holds the
// given name.
func CtorFunction(typeAttr string, params []Param, result Ty) Ty {
	return Custom(Function{TypeAttr: typeAttr, Params: params, Result: result})
}

func (f Function) String() string {
	var tmp []string
	for _, p := range f.Params {
		tmp = append(tmp, p.display())
	}
	return fmt.Sprintf("def(%s) -> %s", strings.Join(tmp, ", "), f.Result)
}

func (f Function) AsName() (string, bool) { return "function", true }

func (f Function) Attribute(attr Attr) (Ty, AttrOutcome) {
	if attr.Kind == AttrRegular && attr.Name == "type" && f.TypeAttr != "" {
		return String(), AttrFound
	}
	return nil, AttrMissing
}

func (f Function) ValidateCall(span syntax.Span, args []Arg, oracle Oracle) (Ty, *TypingError) {
	var pos []Ty
	named := make(map[string]Ty)
	var namedOrder []string
	var sawArgs, sawKwargs bool
	for _, a := range args {
		switch a.Kind {
		case ArgPos:
			pos = append(pos, a.Ty)
		case ArgNamed:
			named[a.Name] = a.Ty
			namedOrder = append(namedOrder, a.Name)
		case ArgArgs:
			sawArgs = true
		case ArgKwargs:
			sawKwargs = true
		}
	}

	check := func(got Ty, p Param, what string) *TypingError {
		if Intersects(got, p.Ty, oracle) {
			return nil
		}
		err := Errorf(span, "Expected type `%s` for %s but got `%s`", p.Ty, what, got)
		return &err
	}

	pi := 0
	hasArgsParam, hasKwargsParam := false, false
	for i, p := range f.Params {
		switch p.Mode {
		case ParamArgsMode:
			hasArgsParam = true
			for ; pi < len(pos); pi++ {
				if err := check(pos[pi], p, fmt.Sprintf("argument %d", pi+1)); err != nil {
					return nil, err
				}
			}
		case ParamKwargsMode:
			hasKwargsParam = true
			for _, name := range namedOrder {
				if got, ok := named[name]; ok {
					if err := check(got, p, fmt.Sprintf("argument `%s`", name)); err != nil {
						return nil, err
					}
					delete(named, name)
				}
			}
		case ParamPosOnly, ParamPosOrName:
			what := fmt.Sprintf("parameter %d", i+1)
			if p.Name != "" {
				what = fmt.Sprintf("parameter `%s`", p.Name)
			}
			if pi < len(pos) {
				if err := check(pos[pi], p, what); err != nil {
					return nil, err
				}
				pi++
				continue
			}
			if p.Mode == ParamPosOrName {
				if got, ok := named[p.Name]; ok {
					if err := check(got, p, what); err != nil {
						return nil, err
					}
					delete(named, p.Name)
					continue
				}
			}
			if p.Optional || sawArgs || (p.Mode == ParamPosOrName && sawKwargs) {
				continue
			}
			err := Errorf(span, "Missing required %s", what)
			return nil, &err
		case ParamNameOnly:
			if got, ok := named[p.Name]; ok {
				if err := check(got, p, fmt.Sprintf("parameter `%s`", p.Name)); err != nil {
					return nil, err
				}
				delete(named, p.Name)
				continue
			}
			if p.Optional || sawKwargs {
				continue
			}
			err := Errorf(span, "Missing required parameter `%s`", p.Name)
			return nil, &err
		}
	}
	if pi < len(pos) && !hasArgsParam {
		err := Errorf(span, "Too many positional arguments: expected %d, got %d", pi, len(pos))
		return nil, &err
	}
	if len(named) > 0 && !hasKwargsParam {
		keys := slices.Sorted(maps.Keys(named))
		err := Errorf(span, "Unexpected keyword argument `%s`", keys[0])
		return nil, &err
	}
	return f.Result, nil
}

func (f Function) Union2(other TyCustom) (TyCustom, bool) {
	if o, ok := other.(Function); ok && f.Compare(o) == 0 {
		return f, true
	}
	return nil, false
}

func (f Function) Compare(other TyCustom) int {
	o := other.(Function)
	if c := strings.Compare(f.TypeAttr, o.TypeAttr); c != 0 {
		return c
	}
	if c := cmp.Compare(len(f.Params), len(o.Params)); c != 0 {
		return c
	}
	for i := range f.Params {
		a, b := f.Params[i], o.Params[i]
		if c := cmp.Compare(a.Mode, b.Mode); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		if a.Optional != b.Optional {
			if a.Optional {
				return 1
			}
			return -1
		}
		if c := Compare(a.Ty, b.Ty); c != 0 {
			return c
		}
	}
	return Compare(f.Result, o.Result)
}
