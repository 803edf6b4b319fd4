package veil

// PathTracker is the stack of paths entered during one walk.
// The top of the stack is the path of the object being written.
// A PathTracker belongs to a single walk and is not safe for concurrent use.
type PathTracker struct {
	stack []string
}

// NewPathTracker creates an empty tracker.
func NewPathTracker() *PathTracker {
	return &PathTracker{}
}

// Push enters path.
func (t *PathTracker) Push(path string) {
	t.stack = append(t.stack, path)
}

// Pop leaves the current path and returns it. Popping an empty tracker
// returns "".
func (t *PathTracker) Pop() string {
	if len(t.stack) == 0 {
		return ""
	}
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return top
}

// Current returns the path on top of the stack, or "" at the root.
func (t *PathTracker) Current() string {
	if len(t.stack) == 0 {
		return ""
	}
	return t.stack[len(t.stack)-1]
}

// Depth returns the number of entered paths.
func (t *PathTracker) Depth() int {
	return len(t.stack)
}

// Reset empties the stack.
func (t *PathTracker) Reset() {
	clear(t.stack)
	t.stack = t.stack[:0]
}

// Enter pushes path and returns the matching pop, for use with defer.
func (t *PathTracker) Enter(path string) (leave func()) {
	t.Push(path)
	return func() { t.Pop() }
}

// JoinPath appends a property name to a parent path.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
