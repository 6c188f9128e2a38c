package domain

import "sync"

// MessageKind classifies a transient user-facing message
type MessageKind string

const (
	MessageInfo    MessageKind = "info"
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is one feedback entry posted by an operation's result handler
type Message struct {
	Text string      `json:"message"`
	Kind MessageKind `json:"type"`
}

// DefaultMessageCapacity bounds a ring when no capacity is configured
const DefaultMessageCapacity = 16

// MessageRing is a bounded, ordered buffer of messages. The requirement
// is "show the latest feedback", so once the ring is full the oldest
// entry is dropped instead of accumulating without bound. Drain returns
// the buffered messages in posting order and clears the ring; the page
// render consumes its feedback on read.
type MessageRing struct {
	mu       sync.Mutex
	buf      []Message
	capacity int
}

// NewMessageRing creates a ring holding at most capacity messages
func NewMessageRing(capacity int) *MessageRing {
	if capacity <= 0 {
		capacity = DefaultMessageCapacity
	}
	return &MessageRing{capacity: capacity}
}

// Post appends a message, dropping the oldest entry when full
func (r *MessageRing) Post(m Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.buf) == r.capacity {
		copy(r.buf, r.buf[1:])
		r.buf = r.buf[:len(r.buf)-1]
	}
	r.buf = append(r.buf, m)
}

// Drain returns all buffered messages in order and clears the ring
func (r *MessageRing) Drain() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.buf) == 0 {
		return nil
	}
	out := make([]Message, len(r.buf))
	copy(out, r.buf)
	r.buf = r.buf[:0]
	return out
}

// Len returns the number of buffered messages
func (r *MessageRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}
