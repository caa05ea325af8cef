// Package mark records functions for later discovery without altering them.
//
// Marking is a plain call made by setup code:
//
//	var marks mark.Marker[func()]
//	f := marks.Mark(f)
//
// The returned value is the function itself, so marking composes with any
// other wrapping applied at the same site.
package mark

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// Entry is a single marked function.
type Entry[F any] struct {
	Name string
	Fn   F
}

// Marker holds the ordered sequence of marked functions.
// The zero value is ready to use.
type Marker[F any] struct {
	mu      sync.RWMutex
	entries []Entry[F]
}

// Mark appends fn to the marked sequence and returns it unchanged.
// Marking the same function twice records it twice.
func (m *Marker[F]) Mark(fn F) F {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, Entry[F]{Name: FuncName(fn), Fn: fn})
	return fn
}

// Marked returns a snapshot of the marked sequence in marking order.
func (m *Marker[F]) Marked() []Entry[F] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry[F], len(m.entries))
	copy(out, m.entries)
	return out
}

// Names returns the names of the marked functions in marking order.
func (m *Marker[F]) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of marks recorded.
func (m *Marker[F]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// FuncName returns the unqualified name of a function value, e.g. "Marked1"
// for pkg.Marked1. Non-function values are described by their type.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Sprintf("%T", fn)
	}

	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return fmt.Sprintf("%T", fn)
	}

	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
