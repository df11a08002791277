package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSenderValid(t *testing.T) {
	for _, s := range []Sender{SenderUser, SenderAI, SenderSystem} {
		assert.True(t, s.Valid(), "sender %q", s)
	}
	assert.False(t, Sender("bot").Valid())
	assert.False(t, Sender("").Valid())
}

func TestConversationAppend(t *testing.T) {
	var convo Conversation
	assert.True(t, convo.Empty())

	convo.Append(Message{Text: "hello", Sender: SenderUser})
	convo.Append(Message{Text: "hi!", Sender: SenderAI})

	assert.False(t, convo.Empty())
	assert.Len(t, convo.Messages, 2)
	assert.Equal(t, "hello", convo.Messages[0].Text)
}
