package main

import (
	"fmt"
	"io"
	"os"

	lua "github.com/yuin/gopher-lua"
)

// LuaProbe runs a user script alongside the machine. The script sees the
// machine through read-only accessor functions and may define on_step and
// on_halt hooks.
type LuaProbe struct {
	L      *lua.LState
	m      *Machine
	onStep *lua.LFunction
	onHalt *lua.LFunction
}

// LoadLuaProbe reads a probe script from path.
func LoadLuaProbe(m *Machine, path string) (*LuaProbe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ProbeError{Hook: "load", Err: err}
	}
	defer f.Close()
	return NewLuaProbe(m, path, f)
}

// NewLuaProbe compiles and runs the script body, then picks up its hooks.
func NewLuaProbe(m *Machine, name string, r io.Reader) (*LuaProbe, error) {
	p := &LuaProbe{L: lua.NewState(), m: m}
	p.register()

	fn, err := p.L.Load(r, name)
	if err != nil {
		p.L.Close()
		return nil, &ProbeError{Hook: "load", Err: err}
	}
	p.L.Push(fn)
	if err := p.L.PCall(0, lua.MultRet, nil); err != nil {
		p.L.Close()
		return nil, &ProbeError{Hook: "load", Err: err}
	}
	p.onStep, _ = p.L.GetGlobal("on_step").(*lua.LFunction)
	p.onHalt, _ = p.L.GetGlobal("on_halt").(*lua.LFunction)
	return p, nil
}

func (p *LuaProbe) register() {
	fns := map[string]lua.LGFunction{
		"reg":    p.luaReg,
		"ioreg":  p.luaIOReg,
		"mem":    p.luaMem,
		"disk":   p.luaDisk,
		"pixel":  p.luaPixel,
		"pc":     p.luaPC,
		"cycles": p.luaCycles,
		"disasm": p.luaDisasm,
	}
	for name, fn := range fns {
		p.L.SetGlobal(name, p.L.NewFunction(fn))
	}
}

// OnStep runs after every executed instruction.
func (p *LuaProbe) OnStep() error {
	if p.onStep == nil {
		return nil
	}
	pc, word, _ := p.m.LastInstruction()
	err := p.L.CallByParam(lua.P{Fn: p.onStep, NRet: 0, Protect: true},
		lua.LNumber(pc), lua.LNumber(word))
	if err != nil {
		return &ProbeError{Hook: "on_step", Err: err}
	}
	return nil
}

// OnHalt runs once when the machine halts.
func (p *LuaProbe) OnHalt() error {
	if p.onHalt == nil {
		return nil
	}
	if err := p.L.CallByParam(lua.P{Fn: p.onHalt, NRet: 0, Protect: true}); err != nil {
		return &ProbeError{Hook: "on_halt", Err: err}
	}
	return nil
}

func (p *LuaProbe) Close() {
	p.L.Close()
}

func checkIndex(L *lua.LState, n int, limit int) int {
	i := L.CheckInt(n)
	if i < 0 || i >= limit {
		L.ArgError(n, fmt.Sprintf("index %d out of range 0..%d", i, limit-1))
	}
	return i
}

func (p *LuaProbe) luaReg(L *lua.LState) int {
	L.Push(lua.LNumber(p.m.Regs[checkIndex(L, 1, NUM_REGISTERS)]))
	return 1
}

// ioreg accepts an index or a register name.
func (p *LuaProbe) luaIOReg(L *lua.LState) int {
	if name, ok := L.Get(1).(lua.LString); ok {
		i, found := ioRegisterIndex(string(name))
		if !found {
			L.ArgError(1, fmt.Sprintf("unknown I/O register %q", string(name)))
		}
		L.Push(lua.LNumber(p.m.IO[i]))
		return 1
	}
	L.Push(lua.LNumber(p.m.IO[checkIndex(L, 1, NUM_IO_REGISTERS)]))
	return 1
}

func (p *LuaProbe) luaMem(L *lua.LState) int {
	L.Push(lua.LNumber(p.m.Memory[checkIndex(L, 1, MAIN_MEMORY_DEPTH)]))
	return 1
}

func (p *LuaProbe) luaDisk(L *lua.LState) int {
	L.Push(lua.LNumber(p.m.Disk[checkIndex(L, 1, DISK_DEPTH)]))
	return 1
}

func (p *LuaProbe) luaPixel(L *lua.LState) int {
	L.Push(lua.LNumber(p.m.Monitor[checkIndex(L, 1, MONITOR_PIXELS)]))
	return 1
}

func (p *LuaProbe) luaPC(L *lua.LState) int {
	L.Push(lua.LNumber(p.m.PC))
	return 1
}

func (p *LuaProbe) luaCycles(L *lua.LState) int {
	L.Push(lua.LNumber(p.m.Cycles))
	return 1
}

func (p *LuaProbe) luaDisasm(L *lua.LState) int {
	a := checkIndex(L, 1, MAIN_MEMORY_DEPTH)
	L.Push(lua.LString(Disassemble(p.m.Memory[a], p.m.Memory[(a+1)%MAIN_MEMORY_DEPTH])))
	return 1
}
