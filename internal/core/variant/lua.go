package variant

import (
	lua "github.com/yuin/gopher-lua"
)

// ToLua converts a Var into the equivalent gopher-lua value, the
// conversion layer a script-entrypoint host needs wherever spec.md §6's
// `script_args.entrypoint` calls into a Schema-backed Var. Adapted from
// the teacher's lua bridge (internal/core/ecs/lua/lua_bridge.go), kept to
// just this conversion rather than the teacher's full VM-sandbox
// apparatus, which is out of scope per spec.md §1's scripting-host
// boundary note.
func ToLua(L *lua.LState, v Var) lua.LValue {
	switch v.tag {
	case Nil:
		return lua.LNil
	case Int:
		return lua.LNumber(v.i)
	case Uint:
		return lua.LNumber(v.u)
	case Double:
		return lua.LNumber(v.f)
	case Bool:
		return lua.LBool(v.b)
	case String:
		return lua.LString(v.str)
	case Bytes:
		return lua.LString(string(v.bytes))
	case Array:
		tbl := L.NewTable()
		for i, e := range v.arr {
			tbl.RawSetInt(i+1, ToLua(L, e))
		}
		return tbl
	case Map:
		tbl := L.NewTable()
		for _, e := range v.entries {
			if key, ok := e.key.AsString(); ok {
				tbl.RawSetString(key, ToLua(L, e.val))
			}
		}
		return tbl
	case Struct:
		tbl := L.NewTable()
		if v.strct != nil {
			for i, f := range v.strct.Schema.Fields {
				tbl.RawSetString(f.Key, ToLua(L, v.strct.Fields[i]))
			}
		}
		return tbl
	default:
		return lua.LNil
	}
}

// FromLua converts a gopher-lua value back into a Var. Lua tables
// convert to Array when every key is a contiguous 1-based integer index,
// else to Map.
func FromLua(lv lua.LValue) Var {
	switch val := lv.(type) {
	case *lua.LNilType:
		return NewNil()
	case lua.LBool:
		return NewBool(bool(val))
	case lua.LNumber:
		return NewDouble(float64(val))
	case lua.LString:
		return NewString(string(val))
	case *lua.LTable:
		return tableToVar(val)
	default:
		return NewPtr(lv)
	}
}

func tableToVar(tbl *lua.LTable) Var {
	n := tbl.Len()
	isArray := n > 0
	tbl.ForEach(func(k, _ lua.LValue) {
		if num, ok := k.(lua.LNumber); !ok || int(num) < 1 || int(num) > n {
			isArray = false
		}
	})
	if isArray {
		out := NewArray(n)
		for i := 1; i <= n; i++ {
			if idx, err := out.ArrayAt(i - 1); err == nil {
				*idx = FromLua(tbl.RawGetInt(i))
			}
		}
		return out
	}

	out := NewMap()
	tbl.ForEach(func(k, lv lua.LValue) {
		key := FromLua(k)
		_ = out.MapSet(key, FromLua(lv))
	})
	return out
}
