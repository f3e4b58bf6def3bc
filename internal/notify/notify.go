// Package notify provides the broadcast stream of human-readable progress
// lines produced while a driver operation runs.
package notify

import (
	"io"
	"sync"
)

// Listener receives one line of output.
type Listener func(msg string)

// Stream broadcasts lines to every subscribed Listener, synchronously and in
// subscription order. The zero value is ready to use.
type Stream struct {
	mu        sync.RWMutex
	nextID    int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

// New returns an empty Stream.
func New() *Stream {
	return &Stream{}
}

// Subscribe adds fn and returns a function that removes it.
func (s *Stream) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Stream) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.listeners {
		if sub.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Emit sends msg to every listener. A nil Stream discards msg.
func (s *Stream) Emit(msg string) {
	if s == nil {
		return
	}

	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		listeners[i] = sub.fn
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(msg)
	}
}

// Recorder is a Listener that keeps every line it receives.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// Listen implements Listener.
func (r *Recorder) Listen(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, msg)
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Last returns the most recent line, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lines) == 0 {
		return ""
	}
	return r.lines[len(r.lines)-1]
}

// Reset discards recorded lines.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
}

// WriterListener returns a Listener that writes each line to w followed by a
// newline. Write errors are ignored.
func WriterListener(w io.Writer) Listener {
	var mu sync.Mutex
	return func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = io.WriteString(w, msg+"\n")
	}
}
