package push

import (
	"encoding/json"
	"errors"
	"fmt"

	"multistream/internal/channelset"
)

// NotificationType is the value of notification_type in a single-channel
// update.
type NotificationType string

const (
	Online  NotificationType = "online"
	Offline NotificationType = "offline"
)

var (
	// ErrUnknownMessage is returned by Decode for valid JSON that matches
	// neither known message shape.
	ErrUnknownMessage = errors.New("unrecognized push message")

	// ErrMalformedMessage is returned by Decode for payloads that are not
	// valid JSON objects or carry fields of the wrong type.
	ErrMalformedMessage = errors.New("malformed push message")
)

// Message is an inbound push notification. The concrete variants are
// Notification and OnlineChannels.
type Message interface {
	// Actions returns the channel set transitions the message implies.
	Actions() []channelset.Action
}

// Notification reports a single channel going online or offline:
//
//	{"notification_type": "online", "channel": "foo"}
type Notification struct {
	Type    NotificationType
	Channel string
}

// Actions implements Message.
func (n Notification) Actions() []channelset.Action {
	if n.Type == Online {
		return []channelset.Action{channelset.AddAction{Name: n.Channel}}
	}
	return []channelset.Action{channelset.RemoveAction{Name: n.Channel}}
}

// OnlineChannels is a full resync of the live channel list:
//
//	{"online_channels": ["a", "b"]}
type OnlineChannels struct {
	Channels []string
}

// Actions implements Message.
func (o OnlineChannels) Actions() []channelset.Action {
	return []channelset.Action{channelset.ReplaceAllAction{Names: o.Channels}}
}

type wireMessage struct {
	NotificationType *string   `json:"notification_type"`
	Channel          *string   `json:"channel"`
	OnlineChannels   *[]string `json:"online_channels"`
}

// Decode parses payload into exactly one of the known message shapes.
func Decode(payload []byte) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	isNotification := w.NotificationType != nil
	isSnapshot := w.OnlineChannels != nil

	switch {
	case isNotification && isSnapshot:
		return nil, fmt.Errorf("%w: both notification_type and online_channels present", ErrUnknownMessage)
	case isNotification:
		t := NotificationType(*w.NotificationType)
		if t != Online && t != Offline {
			return nil, fmt.Errorf("%w: notification_type %q", ErrUnknownMessage, t)
		}
		if w.Channel == nil {
			return nil, fmt.Errorf("%w: notification without channel", ErrUnknownMessage)
		}
		return Notification{Type: t, Channel: *w.Channel}, nil
	case isSnapshot:
		channels := make([]string, len(*w.OnlineChannels))
		copy(channels, *w.OnlineChannels)
		return OnlineChannels{Channels: channels}, nil
	}
	return nil, ErrUnknownMessage
}
