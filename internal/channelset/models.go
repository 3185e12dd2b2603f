package channelset

// Channel is a named live stream. The name is the only identity the set
// tracks; the embeddable player handle is derived from it by the
// presentation layer.
type Channel struct {
	Name string `json:"name"`
}

// Set is an immutable, ordered snapshot of channels. Insertion order is
// display order. The zero value is an empty set.
type Set struct {
	channels []Channel
}

// New returns a Set holding names in the given order.
func New(names ...string) Set {
	return Set{}.ReplaceAll(names)
}

// Len returns the number of channels in the set.
func (s Set) Len() int {
	return len(s.channels)
}

// Names returns a copy of the channel names in display order.
func (s Set) Names() []string {
	names := make([]string, len(s.channels))
	for i, c := range s.channels {
		names[i] = c.Name
	}
	return names
}

// Channels returns a copy of the channels in display order.
func (s Set) Channels() []Channel {
	out := make([]Channel, len(s.channels))
	copy(out, s.channels)
	return out
}

// Contains reports whether a channel with the given name is in the set.
func (s Set) Contains(name string) bool {
	return s.indexOf(name) >= 0
}

// Equal reports whether both sets hold the same names in the same order.
func (s Set) Equal(other Set) bool {
	if len(s.channels) != len(other.channels) {
		return false
	}
	for i := range s.channels {
		if s.channels[i] != other.channels[i] {
			return false
		}
	}
	return true
}

func (s Set) indexOf(name string) int {
	for i, c := range s.channels {
		if c.Name == name {
			return i
		}
	}
	return -1
}
