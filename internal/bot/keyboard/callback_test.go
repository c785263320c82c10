package keyboard_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZoozFX/Telegram-1-sub000/internal/bot/keyboard"
)

func TestCallbackEncode(t *testing.T) {
	testCases := []struct {
		name     string
		callback keyboard.Callback
		want     string
		wantErr  bool
	}{
		{
			name:     "with argument",
			callback: keyboard.Callback{Action: keyboard.ActionSetLanguage, Arg: "ar"},
			want:     "lang:ar",
		},
		{
			name:     "without argument",
			callback: keyboard.Callback{Action: keyboard.ActionHelp},
			want:     "help",
		},
		{
			name:    "empty action",
			wantErr: true,
		},
		{
			name:     "payload over telegram limit",
			callback: keyboard.Callback{Action: "subs", Arg: strings.Repeat("9", 64)},
			wantErr:  true,
		},
		{
			name:     "payload at telegram limit",
			callback: keyboard.Callback{Action: "subs", Arg: strings.Repeat("9", 59)},
			want:     "subs:" + strings.Repeat("9", 59),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.callback.Encode()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCallback(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    keyboard.Callback
		wantErr bool
	}{
		{
			name: "action with argument",
			raw:  "lang:en",
			want: keyboard.Callback{Action: "lang", Arg: "en"},
		},
		{
			name: "action only",
			raw:  "help",
			want: keyboard.Callback{Action: "help"},
		},
		{
			name: "argument keeps extra separators",
			raw:  "subs:2:extra",
			want: keyboard.Callback{Action: "subs", Arg: "2:extra"},
		},
		{
			name: "surrounding whitespace",
			raw:  " signup:confirm\n",
			want: keyboard.Callback{Action: "signup", Arg: "confirm"},
		},
		{
			name:    "empty data",
			raw:     "  ",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := keyboard.ParseCallback(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCallbackRoundTrip(t *testing.T) {
	original := keyboard.Callback{Action: keyboard.ActionSignup, Arg: keyboard.ArgSignupAbort}

	encoded, err := original.Encode()
	require.NoError(t, err)

	decoded, err := keyboard.ParseCallback(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
