package engine

import (
	"sync"
	"time"
)

// Kind classifies an engine event.
type Kind string

const (
	KindLog            Kind = "log"
	KindNotification   Kind = "notification"
	KindSound          Kind = "sound"
	KindFloatingNumber Kind = "floating_number"
	KindMonsterSpawned Kind = "monster_spawned"
)

// Sound names an advisory sound cue.
type Sound string

const (
	SoundAttack      Sound = "attack"
	SoundCrit        Sound = "crit"
	SoundLevelUp     Sound = "levelUp"
	SoundPurchase    Sound = "purchase"
	SoundAchievement Sound = "achievement"
)

// Target is who a floating number appears over.
type Target string

const (
	TargetMonster Target = "monster"
	TargetPlayer  Target = "player"
)

// Event is something the presentation layer may show. Events are advisory:
// nothing a subscriber does feeds back into the engine.
type Event struct {
	Kind    Kind      `json:"kind"`
	Time    time.Time `json:"time"`
	Title   string    `json:"title,omitempty"`
	Message string    `json:"message,omitempty"`
	Sound   Sound     `json:"sound,omitempty"`
	Amount  int       `json:"amount,omitempty"`
	Crit    bool      `json:"crit,omitempty"`
	Heal    bool      `json:"heal,omitempty"`
	Target  Target    `json:"target,omitempty"`
}

// Bus fans events out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns a channel of events and a function that unsubscribes
// and closes it.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers ev to every subscriber with room for it.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
