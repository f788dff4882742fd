package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/inkstone/internal/engine/selection"
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = 5 * time.Second

// Runner executes scripts against one selection.
//
// gopher-lua states are not goroutine-safe; Runner serializes calls.
type Runner struct {
	L   *lua.LState
	sel *selection.Selection

	mu      sync.Mutex
	closed  bool
	timeout time.Duration
	out     io.Writer
	logger  *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the per-run timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithOutput sets where print writes. Output is discarded by default.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Runner bound to sel.
func New(sel *selection.Selection, opts ...Option) *Runner {
	r := &Runner{
		sel:     sel,
		timeout: DefaultTimeout,
		out:     io.Discard,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	r.sandbox()
	r.register()
	return r
}

// openSafeLibraries opens only the libraries without host access.
// io, os, debug and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

func (r *Runner) sandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		r.L.SetGlobal(name, lua.LNil)
	}
	r.L.SetGlobal("print", r.L.NewFunction(r.print))
}

// print writes its arguments tab separated, like the stock print.
func (r *Runner) print(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}

// Run executes code. name labels the chunk in error messages.
func (r *Runner) Run(ctx context.Context, name, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	start := time.Now()
	err := r.doWithRecovery(func() error {
		fn, err := r.L.Load(strings.NewReader(code), name)
		if err != nil {
			return err
		}
		r.L.Push(fn)
		return r.L.PCall(0, lua.MultRet, nil)
	})
	r.L.SetTop(0)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrScript, name, ctxErr)
		}
		return fmt.Errorf("%w: %w", ErrScript, err)
	}
	r.logger.Debug("script finished",
		zap.String("name", name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("modified", r.sel.Modified()),
	)
	return nil
}

// RunFile reads and runs the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScript, err)
	}
	return r.Run(ctx, path, string(code))
}

func (r *Runner) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lua panic: %v", p)
		}
	}()
	return fn()
}

// Close releases the Lua state. It is safe to call more than once.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}
