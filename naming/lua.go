package naming

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"golang.org/x/xerrors"
)

const luaFuncStandardize = "standardize"

type script struct {
	name   string
	source string
}

type hook struct {
	l  *lua.LState
	fn lua.LValue
}

// compile создает новую машину на каждый запуск, состояние между запусками не делится.
func (s *script) compile() (*hook, error) {
	l := lua.NewState()

	compiled, err := l.Load(strings.NewReader(s.source), s.name)
	if err != nil {
		l.Close()
		return nil, xerrors.Errorf("lua source failed to compile: %w", err)
	}
	l.Push(compiled)
	if err := l.PCall(0, 0, nil); err != nil {
		l.Close()
		return nil, xerrors.Errorf("load source code: %w", err)
	}

	fn := l.GetGlobal(luaFuncStandardize)
	if fn.Type() != lua.LTFunction {
		l.Close()
		return nil, xerrors.Errorf(
			"naming hook must be a Lua function, but %s is %s",
			luaFuncStandardize, fn.Type().String())
	}
	return &hook{l: l, fn: fn}, nil
}

func (h *hook) standardize(name, kind string) (string, error) {
	err := h.l.CallByParam(lua.P{
		Fn:      h.fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(name), lua.LString(kind))
	if err != nil {
		return "", xerrors.Errorf("apply %s: %w", luaFuncStandardize, err)
	}
	ret := h.l.Get(-1)
	h.l.Pop(1)

	str, ok := ret.(lua.LString)
	if !ok || str == "" {
		return "", xerrors.Errorf("%s must return a non-empty string, got %s", luaFuncStandardize, ret.Type().String())
	}
	return string(str), nil
}

func (h *hook) Close() { h.l.Close() }
