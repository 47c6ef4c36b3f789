package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewBrowser, "browser"},
		{ViewPlayer, "player"},
		{ViewChat, "chat"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestViewType_Distinct(t *testing.T) {
	views := []ViewType{ViewBrowser, ViewPlayer, ViewChat, ViewHelp}

	seen := make(map[ViewType]bool)
	for _, v := range views {
		assert.False(t, seen[v], "duplicate view type: %s", v)
		seen[v] = true
	}
}

func TestChatReplied(t *testing.T) {
	t.Run("dispatched reply", func(t *testing.T) {
		msg := ChatReplied{Reply: "好的", Dispatched: true}
		assert.True(t, msg.Dispatched)
		assert.NoError(t, msg.Err)
	})

	t.Run("failed reply keeps the fallback text", func(t *testing.T) {
		msg := ChatReplied{Reply: "fallback", Dispatched: true, Err: errors.New("offline")}
		assert.Equal(t, "fallback", msg.Reply)
		assert.EqualError(t, msg.Err, "offline")
	})
}
