// Package request provides the value type handed to every dispatched handler.
// Handlers take one structured request instead of a variable argument list,
// so the positional and named arguments of a call travel together.
package request

// Status is the outcome of a dispatch.
type Status int

const (
	StatusOK       Status = 200
	StatusNotFound Status = 404
)

// String returns the numeric code as text.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "200"
	case StatusNotFound:
		return "404"
	default:
		return "unknown"
	}
}

// Found reports whether the dispatch resolved a handler.
func (s Status) Found() bool {
	return s != StatusNotFound
}

// Request is an immutable value passed to handlers.
type Request struct {
	ID    string            // Request id, assigned by the dispatcher when empty
	Path  string            // Dispatch key the request was received on
	Args  []string          // Positional arguments, in call order
	Named map[string]string // Named arguments
}

// New creates a request carrying the given positional arguments.
func New(args ...string) Request {
	return Request{Args: args}
}

// WithNamed returns a copy of the request with a named argument set.
func (r Request) WithNamed(name, value string) Request {
	named := make(map[string]string, len(r.Named)+1)
	for k, v := range r.Named {
		named[k] = v
	}
	named[name] = value
	r.Named = named
	return r
}

// WithPath returns a copy of the request with the path set.
func (r Request) WithPath(path string) Request {
	r.Path = path
	return r
}

// WithID returns a copy of the request with the id set.
func (r Request) WithID(id string) Request {
	r.ID = id
	return r
}

// Arg returns the positional argument at i.
func (r Request) Arg(i int) (string, bool) {
	if i < 0 || i >= len(r.Args) {
		return "", false
	}
	return r.Args[i], true
}

// Lookup returns the named argument.
func (r Request) Lookup(name string) (string, bool) {
	v, ok := r.Named[name]
	return v, ok
}
