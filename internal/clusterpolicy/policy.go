// Package clusterpolicy decides whether a group is drawn as a cluster
// using a JavaScript expression evaluated with Goja.
//
// The expression sees three variables: size, minClusterSize and zoom. It
// must produce a boolean, e.g. "size >= minClusterSize && zoom < 16".
package clusterpolicy

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

// ErrNotBoolean is returned when the expression yields a non-boolean.
var ErrNotBoolean = errors.New("clusterpolicy: expression did not return a boolean")

// DefaultExpression reproduces the built-in size threshold.
const DefaultExpression = "size >= minClusterSize"

// Policy is a compiled expression. Goja runtimes are not goroutine safe,
// so evaluation is serialized.
type Policy struct {
	mu      sync.Mutex
	source  string
	program *goja.Program
	runtime *goja.Runtime

	minClusterSize int
	zoom           float64
}

// Compile parses expr. An empty expression means DefaultExpression.
func Compile(expr string, minClusterSize int) (*Policy, error) {
	src := strings.TrimSpace(expr)
	if src == "" {
		src = DefaultExpression
	}
	prog, err := goja.Compile("policy", "("+src+")", true)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	p := &Policy{
		source:         src,
		program:        prog,
		runtime:        goja.New(),
		minClusterSize: minClusterSize,
	}
	// Surface type errors at compile time rather than on the first frame.
	if _, err := p.Eval(minClusterSize); err != nil {
		return nil, err
	}
	return p, nil
}

// Source returns the expression text.
func (p *Policy) Source() string { return p.source }

// SetZoom updates the zoom variable seen by later evaluations.
func (p *Policy) SetZoom(zoom float64) {
	p.mu.Lock()
	p.zoom = zoom
	p.mu.Unlock()
}

// MinClusterSize returns the minClusterSize variable.
func (p *Policy) MinClusterSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.minClusterSize
}

// SetMinClusterSize updates the minClusterSize variable.
func (p *Policy) SetMinClusterSize(n int) {
	p.mu.Lock()
	p.minClusterSize = n
	p.mu.Unlock()
}

// Eval runs the expression for a group of size items at the zoom last
// passed to SetZoom.
func (p *Policy) Eval(size int) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eval(size, p.zoom)
}

// EvalAt runs the expression at an explicit zoom. The stored zoom is left
// alone.
func (p *Policy) EvalAt(size int, zoom float64) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eval(size, zoom)
}

func (p *Policy) eval(size int, zoom float64) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("eval %q: %v", p.source, r)
		}
	}()

	rt := p.runtime
	if err := rt.Set("size", size); err != nil {
		return false, err
	}
	if err := rt.Set("minClusterSize", p.minClusterSize); err != nil {
		return false, err
	}
	if err := rt.Set("zoom", zoom); err != nil {
		return false, err
	}
	val, err := rt.RunProgram(p.program)
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.source, err)
	}
	b, isBool := val.Export().(bool)
	if !isBool {
		return false, fmt.Errorf("%w: %q gave %v", ErrNotBoolean, p.source, val)
	}
	return b, nil
}

// IsCluster adapts the policy to the func(size int) bool hook. Evaluation
// errors fall back to size >= minClusterSize.
func (p *Policy) IsCluster(size int) bool {
	ok, err := p.Eval(size)
	if err != nil {
		return size >= p.MinClusterSize()
	}
	return ok
}

// IsClusterAt is IsCluster at an explicit zoom.
func (p *Policy) IsClusterAt(size int, zoom float64) bool {
	ok, err := p.EvalAt(size, zoom)
	if err != nil {
		return size >= p.MinClusterSize()
	}
	return ok
}
