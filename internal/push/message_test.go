package push

import (
	"errors"
	"reflect"
	"testing"

	"multistream/internal/channelset"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    Message
	}{
		{
			name:    "online",
			payload: `{"notification_type":"online","channel":"foo"}`,
			want:    Notification{Type: Online, Channel: "foo"},
		},
		{
			name:    "offline",
			payload: `{"notification_type":"offline","channel":"foo"}`,
			want:    Notification{Type: Offline, Channel: "foo"},
		},
		{
			name:    "online_channels",
			payload: `{"online_channels":["a","b"]}`,
			want:    OnlineChannels{Channels: []string{"a", "b"}},
		},
		{
			name:    "empty_online_channels",
			payload: `{"online_channels":[]}`,
			want:    OnlineChannels{Channels: []string{}},
		},
		{
			name:    "extra_fields_ignored",
			payload: `{"online_channels":["a"],"server_time":123}`,
			want:    OnlineChannels{Channels: []string{"a"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode([]byte(tc.payload))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestDecode_rejects(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    error
	}{
		{name: "invalid_syntax", payload: `{"online_channels":`, want: ErrMalformedMessage},
		{name: "not_an_object", payload: `["a"]`, want: ErrMalformedMessage},
		{name: "wrong_channel_type", payload: `{"notification_type":"online","channel":5}`, want: ErrMalformedMessage},
		{name: "wrong_list_type", payload: `{"online_channels":[1,2]}`, want: ErrMalformedMessage},
		{name: "empty_object", payload: `{}`, want: ErrUnknownMessage},
		{name: "null", payload: `null`, want: ErrUnknownMessage},
		{name: "unknown_notification_type", payload: `{"notification_type":"away","channel":"foo"}`, want: ErrUnknownMessage},
		{name: "missing_channel", payload: `{"notification_type":"online"}`, want: ErrUnknownMessage},
		{name: "both_shapes", payload: `{"notification_type":"online","channel":"a","online_channels":["b"]}`, want: ErrUnknownMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := Decode([]byte(tc.payload))
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v (msg %#v)", tc.want, err, msg)
			}
		})
	}
}

func TestMessage_Actions(t *testing.T) {
	state := channelset.New("x")
	for _, a := range (OnlineChannels{Channels: []string{"a", "b"}}).Actions() {
		state = channelset.Reduce(state, a)
	}
	if got := state.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("snapshot should replace, got %v", got)
	}

	for _, a := range (Notification{Type: Online, Channel: "c"}).Actions() {
		state = channelset.Reduce(state, a)
	}
	for _, a := range (Notification{Type: Offline, Channel: "a"}).Actions() {
		state = channelset.Reduce(state, a)
	}
	if got := state.Names(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("got %v", got)
	}
}

func TestState_String(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", Connecting: "connecting", Connected: "connected", Errored: "errored", State(42): "unknown"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
