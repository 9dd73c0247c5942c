package object

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

var nextID atomic.Uint64

// Environment is one lexical scope. Scopes are linked to their parent through
// Outer and are shared by pointer: a closure keeps its defining scope alive
// for as long as the closure itself is reachable.
type Environment struct {
	ID       uint64
	Bindings map[string]Object
	Outer    *Environment

	mu sync.RWMutex
}

func nextEnvID() uint64 {
	return nextID.Add(1)
}

func NewEnvironment() *Environment {
	return &Environment{
		ID:       nextEnvID(),
		Bindings: make(map[string]Object),
	}
}

// NewEnclosedEnvironment initializes an environment whose lookups fall back to outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	slog.Debug("new env",
		slog.Uint64("id", env.ID),
		slog.Uint64("outer", outer.ID))
	return env
}

// Define binds name in this scope only, replacing any previous binding here.
func (e *Environment) Define(name string, val Object) {
	e.mu.Lock()
	e.Bindings[name] = val
	e.mu.Unlock()

	slog.Debug("binding value",
		slog.Uint64("env", e.ID),
		slog.String("name", name),
		slog.Any("type", val.Type()))
}

func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.Outer {
		env.mu.RLock()
		val, ok := env.Bindings[name]
		env.mu.RUnlock()
		if ok {
			return val, true
		}
	}
	return nil, false
}

// GetLocal looks at this scope only.
func (e *Environment) GetLocal(name string) (Object, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	val, ok := e.Bindings[name]
	return val, ok
}

// Assign overwrites name in the nearest scope that defines it. It never
// creates a binding.
func (e *Environment) Assign(name string, val Object) (Object, error) {
	for env := e; env != nil; env = env.Outer {
		env.mu.Lock()
		if _, exists := env.Bindings[name]; exists {
			env.Bindings[name] = val
			env.mu.Unlock()
			slog.Debug("assigning bound value",
				slog.Uint64("env", env.ID),
				slog.String("name", name),
				slog.Any("type", val.Type()))
			return val, nil
		}
		env.mu.Unlock()
	}
	return nil, fmt.Errorf("failed to assign to '%s': %w", name, ErrUndefinedVariable)
}
