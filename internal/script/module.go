package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkstone/internal/engine/doctree"
)

func (r *Runner) register() {
	mod := r.L.NewTable()
	r.L.SetFuncs(mod, map[string]lua.LGFunction{
		"select":   r.selectRange,
		"cursor":   r.cursor,
		"move":     r.move,
		"range":    r.offsets,
		"insert":   r.insert,
		"delete":   r.delete,
		"newline":  r.newline,
		"split":    r.split,
		"defrag":   r.defrag,
		"format":   r.format,
		"unformat": r.unformat,
		"toggle":   r.toggle,
		"has":      r.has,
		"style":    r.style,
		"link":     r.link,
		"unlink":   r.unlink,
		"url":      r.url,
		"indent":   r.indent,
		"unindent": r.unindent,
		"list":     r.list,
		"quote":    r.quote,
		"belongs":  r.belongs,
		"word":     r.word,
		"text":     r.text,
		"copy":     r.copy,
		"state":    r.state,
		"save":     r.save,
		"restore":  r.restore,
	})
	r.L.SetGlobal("sel", mod)
}

// place selects the absolute range [a, b] by moving from the first
// position of the document.
func (r *Runner) place(L *lua.LState, a, b int) {
	tree := r.sel.Tree()
	first, ok := tree.FirstDescendant(tree.Root())
	if !ok {
		L.RaiseError("document has no text")
		return
	}
	r.sel.SetCursor(first, 0)
	r.sel.MoveBy(a, b)
}

// select(a, b)
func (r *Runner) selectRange(L *lua.LState) int {
	r.place(L, L.CheckInt(1), L.CheckInt(2))
	return 0
}

// cursor(a)
func (r *Runner) cursor(L *lua.LState) int {
	a := L.CheckInt(1)
	r.place(L, a, a)
	return 0
}

// move(a [, b]) shifts the start by a and the end by b, or both by a.
func (r *Runner) move(L *lua.LState) int {
	a := L.CheckInt(1)
	r.sel.MoveBy(a, L.OptInt(2, a))
	return 0
}

// range() -> start, end | nil
func (r *Runner) offsets(L *lua.LState) int {
	start, end, ok := r.sel.Offsets()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(start))
	L.Push(lua.LNumber(end))
	return 2
}

func (r *Runner) insert(L *lua.LState) int {
	r.sel.Insert(L.CheckString(1))
	return 0
}

func (r *Runner) delete(L *lua.LState) int {
	r.sel.Delete()
	return 0
}

// newline([force])
func (r *Runner) newline(L *lua.LState) int {
	r.sel.Break(L.OptBool(1, false))
	return 0
}

func (r *Runner) split(L *lua.LState) int {
	r.sel.Split()
	return 0
}

func (r *Runner) defrag(L *lua.LState) int {
	r.sel.Defrag()
	return 0
}

func checkStyle(L *lua.LState, n int) doctree.Style {
	name := L.CheckString(n)
	st, ok := doctree.ParseStyle(name)
	if !ok {
		L.ArgError(n, "unknown style "+name)
	}
	return st
}

func checkKind(L *lua.LState, n int) doctree.Kind {
	name := L.CheckString(n)
	k, ok := doctree.ParseKind(name)
	if !ok {
		L.ArgError(n, "unknown kind "+name)
	}
	return k
}

func (r *Runner) format(L *lua.LState) int {
	r.sel.Format(checkStyle(L, 1))
	return 0
}

func (r *Runner) unformat(L *lua.LState) int {
	r.sel.Unformat(checkStyle(L, 1))
	return 0
}

func (r *Runner) toggle(L *lua.LState) int {
	r.sel.ToggleFormat(checkStyle(L, 1))
	return 0
}

func (r *Runner) has(L *lua.LState) int {
	L.Push(lua.LBool(r.sel.HasFormat(checkStyle(L, 1))))
	return 1
}

// style() -> {names} for the style of the selection's start leaf.
func (r *Runner) style(L *lua.LState) int {
	tbl := L.NewTable()
	for i, name := range r.sel.Style().Names() {
		tbl.RawSetInt(i+1, lua.LString(name))
	}
	L.Push(tbl)
	return 1
}

// link(url) links the selection; link(nil) or link("") unlinks it.
func (r *Runner) link(L *lua.LState) int {
	r.sel.Link(L.OptString(1, ""))
	return 0
}

func (r *Runner) unlink(L *lua.LState) int {
	r.sel.Unlink()
	return 0
}

func (r *Runner) url(L *lua.LState) int {
	L.Push(lua.LString(r.sel.URL()))
	return 1
}

func (r *Runner) indent(L *lua.LState) int {
	r.sel.Indent()
	return 0
}

func (r *Runner) unindent(L *lua.LState) int {
	r.sel.Unindent()
	return 0
}

// list(kind) toggles a bulleted or numbered list.
func (r *Runner) list(L *lua.LState) int {
	k := checkKind(L, 1)
	if !k.IsList() {
		L.ArgError(1, "not a list kind: "+k.String())
		return 0
	}
	r.sel.ToggleList(k)
	return 0
}

func (r *Runner) quote(L *lua.LState) int {
	r.sel.ToggleQuote()
	return 0
}

func (r *Runner) belongs(L *lua.LState) int {
	L.Push(lua.LBool(r.sel.BelongsTo(checkKind(L, 1))))
	return 1
}

func (r *Runner) word(L *lua.LState) int {
	r.sel.WordWrap()
	return 0
}

func (r *Runner) text(L *lua.LState) int {
	L.Push(lua.LString(r.sel.Text()))
	return 1
}

// copy() -> plain text of the copied fragment, or nil.
func (r *Runner) copy(L *lua.LState) int {
	frag := r.sel.Copy()
	if frag == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(frag.PlainText()))
	return 1
}

func (r *Runner) state(L *lua.LState) int {
	L.Push(lua.LString(r.sel.State().String()))
	return 1
}

func (r *Runner) save(L *lua.LState) int {
	r.sel.Save()
	return 0
}

func (r *Runner) restore(L *lua.LState) int {
	r.sel.Restore()
	return 0
}
