package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRing_PostAndDrain(t *testing.T) {
	ring := NewMessageRing(4)

	ring.Post(Message{Text: "Log in successful.", Kind: MessageInfo})
	ring.Post(Message{Text: "Error : No post", Kind: MessageError})
	assert.Equal(t, 2, ring.Len())

	messages := ring.Drain()
	require.Len(t, messages, 2)
	assert.Equal(t, "Log in successful.", messages[0].Text)
	assert.Equal(t, MessageInfo, messages[0].Kind)
	assert.Equal(t, "Error : No post", messages[1].Text)

	// drained on read
	assert.Equal(t, 0, ring.Len())
	assert.Nil(t, ring.Drain())
}

func TestMessageRing_DropsOldestAtCapacity(t *testing.T) {
	ring := NewMessageRing(3)

	for i := 0; i < 5; i++ {
		ring.Post(Message{Text: fmt.Sprintf("message %d", i), Kind: MessageInfo})
	}

	messages := ring.Drain()
	require.Len(t, messages, 3)
	assert.Equal(t, "message 2", messages[0].Text)
	assert.Equal(t, "message 4", messages[2].Text)
}

func TestNewMessageRing_DefaultCapacity(t *testing.T) {
	ring := NewMessageRing(0)

	for i := 0; i < DefaultMessageCapacity+5; i++ {
		ring.Post(Message{Text: "m", Kind: MessageInfo})
	}

	assert.Equal(t, DefaultMessageCapacity, ring.Len())
}
