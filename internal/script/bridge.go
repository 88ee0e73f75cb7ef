package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mouseproc/internal/router"
)

// Object is a world object that procs can be looked up on.
type Object interface {
	router.Object
	Type() string
}

// named is implemented by objects that expose a display name.
type named interface {
	Name() string
}

const objectTypeName = "mouseproc.object"

// Bridge converts values between Go and Lua. Objects are mapped to one
// userdata per ref, so identity comparisons work inside scripts.
type Bridge struct {
	L       *lua.LState
	meta    *lua.LTable
	objects map[string]*lua.LUserData
}

// NewBridge creates a bridge and registers the object metatable on L.
func NewBridge(L *lua.LState) *Bridge {
	b := &Bridge{
		L:       L,
		objects: make(map[string]*lua.LUserData),
	}

	b.meta = L.NewTypeMetatable(objectTypeName)
	L.SetField(b.meta, "__index", L.NewFunction(objectIndex))
	L.SetField(b.meta, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("objects are read-only")
		return 0
	}))
	L.SetField(b.meta, "__tostring", L.NewFunction(func(L *lua.LState) int {
		obj, _ := L.CheckUserData(1).Value.(router.Object)
		L.Push(lua.LString(describe(obj)))
		return 1
	}))
	return b
}

// objectIndex serves the read-only ref, type and name fields.
func objectIndex(L *lua.LState) int {
	obj, ok := L.CheckUserData(1).Value.(router.Object)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}

	switch L.CheckString(2) {
	case "ref":
		L.Push(lua.LString(obj.Ref()))
	case "type":
		if t, ok := obj.(Object); ok {
			L.Push(lua.LString(t.Type()))
		} else {
			L.Push(lua.LNil)
		}
	case "name":
		if n, ok := obj.(named); ok {
			L.Push(lua.LString(n.Name()))
		} else {
			L.Push(lua.LNil)
		}
	default:
		L.Push(lua.LNil)
	}
	return 1
}

func describe(obj router.Object) string {
	if obj == nil {
		return "null"
	}
	if t, ok := obj.(Object); ok {
		return fmt.Sprintf("%s(%s)", t.Type(), obj.Ref())
	}
	return obj.Ref()
}

// Object returns the userdata for obj, creating it on first use.
func (b *Bridge) Object(obj router.Object) *lua.LUserData {
	ref := obj.Ref()
	if ud, ok := b.objects[ref]; ok {
		return ud
	}
	ud := b.L.NewUserData()
	ud.Value = obj
	b.L.SetMetatable(ud, b.meta)
	b.objects[ref] = ud
	return ud
}

// ToLua converts an invocation argument to a Lua value.
func (b *Bridge) ToLua(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(val)
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case router.Object:
		return b.Object(val)
	case lua.LValue:
		return val
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

// ToGo converts a Lua value to Go. Object userdata become the router.Object
// they wrap; tables become []any when they are sequences, map[string]any
// otherwise.
func (b *Bridge) ToGo(lv lua.LValue) any {
	return b.toGo(lv, make(map[*lua.LTable]bool))
}

func (b *Bridge) toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case nil, *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LString:
		return string(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case *lua.LUserData:
		return v.Value
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return b.tableToGo(v, visited)
	default:
		return nil
	}
}

func (b *Bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	if n := t.Len(); n > 0 {
		count := 0
		t.ForEach(func(_, _ lua.LValue) { count++ })
		if count == n {
			arr := make([]any, n)
			for i := 1; i <= n; i++ {
				arr[i-1] = b.toGo(t.RawGetInt(i), visited)
			}
			return arr
		}
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = b.toGo(v, visited)
	})
	return m
}
