package channelset

// Add appends a channel named name. If a channel with that name is already
// present the set is returned unchanged.
func (s Set) Add(name string) Set {
	if s.Contains(name) {
		return s
	}
	out := make([]Channel, len(s.channels), len(s.channels)+1)
	copy(out, s.channels)
	return Set{channels: append(out, Channel{Name: name})}
}

// Remove drops the channel named name, keeping the relative order of the
// others. Removing an unknown name is a no-op.
func (s Set) Remove(name string) Set {
	idx := s.indexOf(name)
	if idx < 0 {
		return s
	}
	out := make([]Channel, 0, len(s.channels)-1)
	out = append(out, s.channels[:idx]...)
	out = append(out, s.channels[idx+1:]...)
	return Set{channels: out}
}

// ReplaceAll discards the current channels and returns a set built from
// names in the order given. Duplicates are kept as provided.
func (s Set) ReplaceAll(names []string) Set {
	out := make([]Channel, len(names))
	for i, n := range names {
		out[i] = Channel{Name: n}
	}
	return Set{channels: out}
}

// Rotate moves the first channel to the end. Sets with fewer than two
// channels are returned unchanged.
func (s Set) Rotate() Set {
	if len(s.channels) < 2 {
		return s
	}
	out := make([]Channel, 0, len(s.channels))
	out = append(out, s.channels[1:]...)
	out = append(out, s.channels[0])
	return Set{channels: out}
}
