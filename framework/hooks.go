package framework

import (
	"context"
	"fmt"
	"sync"
)

// PreScanHook may rewrite the request before the walk starts.
type PreScanHook func(ctx context.Context, req *ScanRequest) error

// PostScanHook observes a finished scan. It may annotate items through their
// Override but must not reclassify them.
type PostScanHook func(ctx context.Context, req ScanRequest, result *ScanResult) error

type namedPre struct {
	name string
	fn   PreScanHook
}

type namedPost struct {
	name string
	fn   PostScanHook
}

// Hooks is an ordered registry of scan observers. The zero value is ready to
// use and a nil *Hooks runs nothing.
type Hooks struct {
	mu   sync.RWMutex
	pre  []namedPre
	post []namedPost
}

// NewHooks returns an empty registry.
func NewHooks() *Hooks {
	return &Hooks{}
}

// OnPreScan registers a pre-scan hook. Hooks run in registration order.
func (h *Hooks) OnPreScan(name string, fn PreScanHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pre = append(h.pre, namedPre{name: name, fn: fn})
}

// OnPostScan registers a post-scan hook.
func (h *Hooks) OnPostScan(name string, fn PostScanHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.post = append(h.post, namedPost{name: name, fn: fn})
}

// Names lists registered hooks as "pre:<name>" and "post:<name>".
func (h *Hooks) Names() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.pre)+len(h.post))
	for _, p := range h.pre {
		out = append(out, "pre:"+p.name)
	}
	for _, p := range h.post {
		out = append(out, "post:"+p.name)
	}
	return out
}

// RunPreScan invokes every pre-scan hook. Failures and panics are collected
// as "hook <name>: <err>" strings; later hooks still run.
func (h *Hooks) RunPreScan(ctx context.Context, req *ScanRequest) []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	hooks := append([]namedPre(nil), h.pre...)
	h.mu.RUnlock()
	var errs []string
	for _, hook := range hooks {
		if err := safeCall(func() error { return hook.fn(ctx, req) }); err != nil {
			errs = append(errs, fmt.Sprintf("hook %s: %v", hook.name, err))
		}
	}
	return errs
}

// RunPostScan invokes every post-scan hook with the same failure policy.
func (h *Hooks) RunPostScan(ctx context.Context, req ScanRequest, result *ScanResult) []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	hooks := append([]namedPost(nil), h.post...)
	h.mu.RUnlock()
	var errs []string
	for _, hook := range hooks {
		if err := safeCall(func() error { return hook.fn(ctx, req, result) }); err != nil {
			errs = append(errs, fmt.Sprintf("hook %s: %v", hook.name, err))
		}
	}
	return errs
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
