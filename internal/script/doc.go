// Package script runs Lua edit scripts against a selection.
//
// A Runner owns a sandboxed gopher-lua state (base, table, string and math
// libraries only) with a global "sel" table bound to one Selection:
//
//	r := script.New(sel, script.WithTimeout(time.Second))
//	defer r.Close()
//	err := r.Run(ctx, "edit", `sel.select(0, 5) sel.toggle("bold")`)
//
// Positions passed to and returned from sel functions are absolute
// document offsets: the number of characters moved from the first position
// of the document, with each container boundary counting as one.
//
// Available functions:
//
//	select(a, b)   cursor(a)     move(a [, b])   range() -> a, b
//	insert(s)      delete()      newline([force]) split()   defrag()
//	format(style)  unformat(style) toggle(style)  has(style) style() -> {names}
//	link(url|nil)  unlink()      url()
//	indent()       unindent()    list(kind)      quote()    belongs(kind)
//	word()         text()        copy()          state()
//	save()         restore()
package script
