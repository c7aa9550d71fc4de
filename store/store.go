// Package store holds the client-side state containers. Each store owns
// its slice of state exclusively, mutates it under a single mutex and
// notifies subscribers after every change.
package store

// notifier implements subscriber registration shared by all stores.
// Registration and snapshotting happen under the owning store's mutex;
// the snapshot is invoked after the mutex is released so subscribers can
// read back from the store.
type notifier struct {
	seq  int
	subs map[int]func()
}

// subscribe registers fn and returns an unsubscribe func.
func (n *notifier) subscribe(fn func()) func() {
	if n.subs == nil {
		n.subs = make(map[int]func())
	}
	n.seq++
	id := n.seq
	n.subs[id] = fn
	return func() { delete(n.subs, id) }
}

func (n *notifier) snapshot() []func() {
	out := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		out = append(out, fn)
	}
	return out
}

func run(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
