package vm

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// regexOptionsFor maps JS regex flags to dlclark/regexp2's option bits;
// `g`/`y` are not engine options (handled by lastIndex bookkeeping in
// exec below) and `u`/`d` carry no regexp2 equivalent.
func regexOptionsFor(flags string) regexp2.RegexOptions {
	opts := regexp2.RegexOptions(0)
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		}
	}
	return opts
}

// newRegExp compiles a regex literal's pattern with dlclark/regexp2, the
// same backtracking, JS-flavored engine goja itself delegates to for
// backreferences and lookaround, and wraps
// it in a Regex-kind object carrying the standard source/flags/
// lastIndex surface.
func (in *Interpreter) newRegExp(pattern, flags string) (value.Value, *Completion) {
	compiled, err := regexp2.Compile(pattern, regexOptionsFor(flags))
	if err != nil {
		c := in.throwSyntaxError("Invalid regular expression: %s", err.Error())
		return nil, &c
	}
	o := value.NewObject(in.Realm.RegExpProto)
	o.Kind = value.KindRegex
	o.Class = "RegExp"
	o.Regex = &value.RegexData{Source: pattern, Flags: flags, Compiled: compiled}
	o.DefineOwnProperty(value.StringKey("source"), value.NonEnumerable(value.String(pattern)))
	o.DefineOwnProperty(value.StringKey("flags"), value.NonEnumerable(value.String(flags)))
	o.DefineOwnProperty(value.StringKey("global"), value.NonEnumerable(value.Boolean(strings.Contains(flags, "g"))))
	o.DefineOwnProperty(value.StringKey("ignoreCase"), value.NonEnumerable(value.Boolean(strings.Contains(flags, "i"))))
	o.DefineOwnProperty(value.StringKey("multiline"), value.NonEnumerable(value.Boolean(strings.Contains(flags, "m"))))
	o.DefineOwnProperty(value.StringKey("lastIndex"), value.DataProperty(value.Number(0)))
	return o, nil
}

func thisRegex(in *Interpreter, this value.Value, method string) (*value.Object, *regexp2.Regexp, *Completion) {
	o, ok := this.(*value.Object)
	if !ok || o.Kind != value.KindRegex || o.Regex == nil {
		c := in.throwTypeError("Method RegExp.prototype.%s called on incompatible receiver", method)
		return nil, nil, &c
	}
	re, _ := o.Regex.Compiled.(*regexp2.Regexp)
	return o, re, nil
}

// installRegExpProto wires RegExp.prototype.test/exec/toString, the
// minimal surface the runtime substrate needs to make regex literals
// usable; the rest of RegExp's fixed ECMAScript semantics is left for a
// host's own library layer.
func installRegExpProto(in *Interpreter) {
	proto := in.Realm.RegExpProto

	startFor := func(o *value.Object) int {
		if !strings.Contains(o.Regex.Flags, "g") && !strings.Contains(o.Regex.Flags, "y") {
			return 0
		}
		li, err := o.Get(value.StringKey("lastIndex"), o, in.call)
		if err != nil {
			return 0
		}
		if n, ok := li.(value.Number); ok {
			return int(n)
		}
		return 0
	}
	setLastIndex := func(o *value.Object, n int) {
		o.Set(value.StringKey("lastIndex"), value.Number(n), o, in.call)
	}

	proto.DefineOwnProperty(value.StringKey("exec"), value.NonEnumerable(in.newNativeFunction("exec", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, re, c := thisRegex(in, this, "exec")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		str, err := value.ToStringValue(firstArg(args), in.call)
		if err != nil {
			return nil, err
		}
		start := startFor(o)
		if start < 0 || start > len(string(str)) {
			setLastIndex(o, 0)
			return value.Null, nil
		}
		m, merr := re.FindStringMatchStartingAt(string(str), start)
		if merr != nil || m == nil {
			setLastIndex(o, 0)
			return value.Null, nil
		}
		if strings.Contains(o.Regex.Flags, "g") || strings.Contains(o.Regex.Flags, "y") {
			setLastIndex(o, m.Index+m.Length)
		}
		return in.matchResultArray(m, string(str)), nil
	})))

	proto.DefineOwnProperty(value.StringKey("test"), value.NonEnumerable(in.newNativeFunction("test", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, re, c := thisRegex(in, this, "test")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		str, err := value.ToStringValue(firstArg(args), in.call)
		if err != nil {
			return nil, err
		}
		start := startFor(o)
		if start < 0 || start > len(string(str)) {
			setLastIndex(o, 0)
			return value.Boolean(false), nil
		}
		m, merr := re.FindStringMatchStartingAt(string(str), start)
		found := merr == nil && m != nil
		if found && (strings.Contains(o.Regex.Flags, "g") || strings.Contains(o.Regex.Flags, "y")) {
			setLastIndex(o, m.Index+m.Length)
		} else if !found {
			setLastIndex(o, 0)
		}
		return value.Boolean(found), nil
	})))

	proto.DefineOwnProperty(value.StringKey("toString"), value.NonEnumerable(in.newNativeFunction("toString", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o, _, c := thisRegex(in, this, "toString")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return value.String("/" + o.Regex.Source + "/" + o.Regex.Flags), nil
	})))
}

// matchResultArray builds the array RegExp.prototype.exec returns: index-
// keyed capture groups (group 0 is the full match) plus `index`/`input`
// own properties.
func (in *Interpreter) matchResultArray(m *regexp2.Match, input string) *value.Object {
	arr := in.newArray()
	groups := m.Groups
	for _, g := range groups {
		if len(g.Captures) == 0 {
			arr.Elements = append(arr.Elements, value.Undefined)
			continue
		}
		arr.Elements = append(arr.Elements, value.String(g.String()))
	}
	arr.DefineOwnProperty(value.StringKey("index"), value.DataProperty(value.Number(m.Index)))
	arr.DefineOwnProperty(value.StringKey("input"), value.DataProperty(value.String(input)))
	return arr
}
