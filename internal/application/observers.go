package application

import "sync"

// observers is a registry of change callbacks. Callbacks run synchronously
// on the goroutine that made the change, after the owner's lock is released.
type observers[E any] struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(E)
}

// subscribe registers fn and returns a function that removes it.
func (o *observers[E]) subscribe(fn func(E)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.fns == nil {
		o.fns = make(map[int]func(E))
	}
	id := o.nextID
	o.nextID++
	o.fns[id] = fn

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.fns, id)
	}
}

func (o *observers[E]) notify(event E) {
	o.mu.Lock()
	fns := make([]func(E), 0, len(o.fns))
	for _, fn := range o.fns {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}
