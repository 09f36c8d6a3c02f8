// Package core implements commonly used tools.
package core

import (
	"reflect"
	"sync"
)

// Observer is the interface to implement to watch events.
type Observer interface {
	NotifyCallback(event interface{})
}

// Observable provides primitives to add and remove observers and to notify
// them of new events.
type Observable interface {
	// Add adds the observer to the list of observers that will be notified of
	// new events.
	Add(observer Observer)

	// Remove removes the observer from the list thus stopping it from receiving
	// new events.
	Remove(observer Observer)

	// Notify notifies the observers of a new event.
	Notify(event interface{})
}

// Watcher is an implementation of the Observable interface. Observers are
// notified in the order they were added. Observers should be pointers: an
// observer of a type that is not comparable is never considered as already
// added, and it cannot be removed.
//
// - implements core.Observable
type Watcher struct {
	sync.Mutex

	observers []Observer
}

// NewWatcher creates a new empty watcher.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// Add implements core.Observable. An observer already watching is ignored.
func (w *Watcher) Add(observer Observer) {
	w.Lock()
	defer w.Unlock()

	for _, obs := range w.observers {
		if sameObserver(obs, observer) {
			return
		}
	}

	w.observers = append(w.observers, observer)
}

// Remove implements core.Observable.
func (w *Watcher) Remove(observer Observer) {
	w.Lock()
	defer w.Unlock()

	for i, obs := range w.observers {
		if sameObserver(obs, observer) {
			w.observers = append(w.observers[:i:i], w.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of observers.
func (w *Watcher) Len() int {
	w.Lock()
	defer w.Unlock()

	return len(w.observers)
}

// Notify implements core.Observable. The observers are called outside of the
// lock so that they can add or remove observers.
func (w *Watcher) Notify(event interface{}) {
	w.Lock()
	observers := append([]Observer{}, w.observers...)
	w.Unlock()

	for _, obs := range observers {
		obs.NotifyCallback(event)
	}
}

// sameObserver compares the observers without panicking when their dynamic
// type is not comparable.
func sameObserver(a, b Observer) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	typ := reflect.TypeOf(a)
	if typ != reflect.TypeOf(b) || !typ.Comparable() {
		return false
	}

	return a == b
}
