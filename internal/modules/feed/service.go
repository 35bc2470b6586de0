// README: Message feed store: append-only history, loading flag and change notifications.
package feed

import (
	"sync"
	"time"
)

const subscriberBuffer = 8

type Feed struct {
	mu       sync.RWMutex
	messages []Message
	loading  bool
	lastID   int64
	now      func() time.Time

	subs    map[int]chan Event
	nextSub int
}

func New() *Feed {
	return &Feed{
		now:  time.Now,
		subs: make(map[int]chan Event),
	}
}

// NewWithWelcome returns a feed seeded with the system greeting under ID 0.
func NewWithWelcome() *Feed {
	f := New()
	f.messages = append(f.messages, Message{ID: 0, Role: RoleSystem, Content: WelcomeText})
	return f
}

// Append stamps m with a fresh monotonic ID and adds it to the end of the feed.
func (f *Feed) Append(m Message) Message {
	f.mu.Lock()
	m.ID = f.nextID()
	if m.Images != nil {
		m.Images = append([]Image(nil), m.Images...)
	}
	f.messages = append(f.messages, m)
	ev := Event{Length: len(f.messages), Loading: f.loading}
	f.mu.Unlock()

	f.publish(ev)
	return m
}

// nextID is time-derived and strictly increasing. Caller holds mu.
func (f *Feed) nextID() int64 {
	id := f.now().UnixMilli()
	if id <= f.lastID {
		id = f.lastID + 1
	}
	f.lastID = id
	return id
}

func (f *Feed) SetLoading(loading bool) {
	f.mu.Lock()
	if f.loading == loading {
		f.mu.Unlock()
		return
	}
	f.loading = loading
	ev := Event{Length: len(f.messages), Loading: loading}
	f.mu.Unlock()

	f.publish(ev)
}

func (f *Feed) IsLoading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loading
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.messages)
}

func (f *Feed) Messages() []Message {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Message, len(f.messages))
	copy(out, f.messages)
	return out
}

func (f *Feed) Last() (Message, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.messages) == 0 {
		return Message{}, false
	}
	return f.messages[len(f.messages)-1], true
}

// Subscribe returns a channel of change events. Slow subscribers miss events rather than
// blocking writers; each event carries the full current state.
func (f *Feed) Subscribe() (<-chan Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	ch := make(chan Event, subscriberBuffer)
	f.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			close(ch)
		})
	}
}

func (f *Feed) publish(ev Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
