package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_StartsInMainMenu(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.False(t, u.AwaitingFile())
}

func TestUser_AwaitingFile(t *testing.T) {
	u := NewUser(1, 10)
	u.SetState(StateAwaitingFirstFile)
	require.True(t, u.AwaitingFile())
	u.SetState(StateAwaitingSecondFile)
	require.True(t, u.AwaitingFile())
	u.SetState(StateProcessing)
	require.False(t, u.AwaitingFile())
}

func TestUser_CanMoveTo(t *testing.T) {
	tests := []struct {
		name string
		from UserState
		to   UserState
		want bool
	}{
		{name: "меню -> ожидание эталона", from: StateMainMenu, to: StateAwaitingFirstFile, want: true},
		{name: "меню -> сравнение", from: StateMainMenu, to: StateProcessing, want: false},
		{name: "эталон получен", from: StateAwaitingFirstFile, to: StateAwaitingSecondFile, want: true},
		{name: "второй файл -> сравнение", from: StateAwaitingSecondFile, to: StateProcessing, want: true},
		{name: "сравнение нельзя перезапустить", from: StateProcessing, to: StateAwaitingFirstFile, want: false},
		{name: "отмена во время сравнения", from: StateProcessing, to: StateMainMenu, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUser(1, 1)
			u.SetState(tt.from)
			require.Equal(t, tt.want, u.CanMoveTo(tt.to))
		})
	}
}
