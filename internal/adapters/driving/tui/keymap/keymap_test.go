package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "q")
	assert.Contains(t, keys, "ctrl+c")
}

func TestDefaultKeyMap_HelpBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Help.Keys()
	assert.Contains(t, keys, "?")
}

func TestDefaultKeyMap_BackBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Back.Keys()
	assert.Contains(t, keys, "esc")
}

func TestDefaultKeyMap_PlayerBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Equal(t, []string{"left", "h"}, km.Prev.Keys())
	assert.Equal(t, []string{"right", "l"}, km.Next.Keys())
	assert.Equal(t, []string{" "}, km.TogglePlay.Keys())
	assert.Equal(t, []string{"r"}, km.Refresh.Keys())
	assert.Equal(t, []string{"d"}, km.Dataset.Keys())
	assert.Equal(t, []string{"["}, km.PrevItem.Keys())
	assert.Equal(t, []string{"]"}, km.NextItem.Keys())
	assert.Equal(t, []string{"tab"}, km.NextTerm.Keys())
}

func TestDefaultKeyMap_ChatBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Export.Keys(), "ctrl+e")
	assert.Contains(t, km.Copy.Keys(), "ctrl+y")
	assert.Contains(t, km.Chat.Keys(), "c")
}

func TestDefaultKeyMap_UpBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Up.Keys()
	assert.Contains(t, keys, "up")
	assert.Contains(t, keys, "k")
}

func TestDefaultKeyMap_DownBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Down.Keys()
	assert.Contains(t, keys, "down")
	assert.Contains(t, keys, "j")
}

func TestDefaultKeyMap_SelectBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Select.Keys()
	assert.Contains(t, keys, "enter")
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	assert.Len(t, bindings, 2)
	assert.Equal(t, km.Quit, bindings[0])
	assert.Equal(t, km.Help, bindings[1])
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.FullHelp()

	assert.Len(t, bindings, 5)
	assert.Len(t, bindings[0], 4) // Up, Down, Select, Search
	assert.Len(t, bindings[1], 5) // Prev, TogglePlay, Next, Refresh, Dataset
	assert.Len(t, bindings[4], 2) // Help, Quit
}

func TestPlayerHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.PlayerHelp()

	require.Len(t, bindings, 6)
	assert.Equal(t, km.Prev, bindings[0])
	assert.Equal(t, km.Chat, bindings[5])
}

func TestChatHelp(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ChatHelp(), 4)
}

func TestMatches_True(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("?", km.Help))
	assert.True(t, Matches("up", km.Up))
	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches(" ", km.TogglePlay))
	assert.True(t, Matches("l", km.Next))
}

func TestMatches_False(t *testing.T) {
	km := DefaultKeyMap()

	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("a", km.Help))
	assert.False(t, Matches("down", km.Up))
}

func TestBindings_HaveHelp(t *testing.T) {
	km := DefaultKeyMap()

	testCases := []struct {
		name    string
		binding key.Binding
	}{
		{"Quit", km.Quit},
		{"Help", km.Help},
		{"Back", km.Back},
		{"Search", km.Search},
		{"Up", km.Up},
		{"Down", km.Down},
		{"Select", km.Select},
		{"Prev", km.Prev},
		{"Next", km.Next},
		{"TogglePlay", km.TogglePlay},
		{"Refresh", km.Refresh},
		{"Dataset", km.Dataset},
		{"PrevItem", km.PrevItem},
		{"NextItem", km.NextItem},
		{"NextTerm", km.NextTerm},
		{"Chat", km.Chat},
		{"Export", km.Export},
		{"Copy", km.Copy},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			help := tc.binding.Help()
			assert.NotEmpty(t, help.Key, "binding should have help key")
		})
	}
}
