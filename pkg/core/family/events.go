package family

import "github.com/google/uuid"

// EventKind names the mutation that produced an [Event].
type EventKind int

const (
	MemberAdded EventKind = iota
	MemberUpdated
	MemberRemoved
	PartnerLinked
	ChildLinked
	EdgesRebuilt
	Cleared
)

var eventNames = [...]string{
	MemberAdded:   "member_added",
	MemberUpdated: "member_updated",
	MemberRemoved: "member_removed",
	PartnerLinked: "partner_linked",
	ChildLinked:   "child_linked",
	EdgesRebuilt:  "edges_rebuilt",
	Cleared:       "cleared",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is the change notification delivered to subscribers. IDs lists the
// people the mutation touched, if any.
type Event struct {
	Kind EventKind
	IDs  []uuid.UUID
}

type listener struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to be called synchronously after every mutating
// operation, before that operation returns. Listeners run in subscription
// order. The returned function removes the listener; calling it more than
// once is harmless.
func (t *Tree) Subscribe(fn func(Event)) (cancel func()) {
	t.nextListener++
	id := t.nextListener
	t.listeners = append(t.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range t.listeners {
			if l.id == id {
				t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

func (t *Tree) notify(kind EventKind, ids ...uuid.UUID) {
	ev := Event{Kind: kind, IDs: ids}
	for _, l := range t.listeners {
		l.fn(ev)
	}
}
