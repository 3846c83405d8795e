package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func commandMessage(text string, cmdLen int) *Message {
	return &Message{
		Text: text,
		Entities: []MessageEntity{
			{Type: "bot_command", Offset: 0, Length: cmdLen},
		},
	}
}

func TestExtractCommand(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want string
	}{
		{"plain command", commandMessage("/complete", 9), "complete"},
		{"command with args", commandMessage("/approve 42", 8), "approve"},
		{"command with bot mention", commandMessage("/profile@challenge_hub_bot", 26), "profile"},
		{"no entities", &Message{Text: "hello"}, ""},
		{"nil message", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCommand(tt.msg))
		})
	}
}

func TestExtractCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want string
	}{
		{"no args", commandMessage("/complete", 9), ""},
		{"single arg", commandMessage("/approve 42", 8), "42"},
		{"multi word args", commandMessage("/suggest Пробеги 5 км | Fitness", 8), "Пробеги 5 км | Fitness"},
		{"nil message", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCommandArgs(tt.msg))
		})
	}
}

func TestChatMemberIsAdmin(t *testing.T) {
	assert.True(t, (&ChatMember{Status: "creator"}).IsAdmin())
	assert.True(t, (&ChatMember{Status: "administrator"}).IsAdmin())
	assert.False(t, (&ChatMember{Status: "member"}).IsAdmin())
	assert.False(t, (&ChatMember{Status: "left"}).IsAdmin())
}

func TestChatTypeHelpers(t *testing.T) {
	private := &Message{Chat: &Chat{Type: "private"}}
	group := &Message{Chat: &Chat{Type: "supergroup"}}

	assert.True(t, IsPrivateChat(private))
	assert.False(t, IsPrivateChat(group))
	assert.True(t, IsGroupChat(group))
	assert.False(t, IsGroupChat(private))
}
