package channelset

// Action is a single transition of a Set. The concrete variants are
// AddAction, RemoveAction, ReplaceAllAction and RotateAction.
type Action interface {
	apply(Set) Set
}

// AddAction appends Name unless it is already present.
type AddAction struct {
	Name string
}

// RemoveAction drops Name if present.
type RemoveAction struct {
	Name string
}

// ReplaceAllAction replaces the whole set with Names.
type ReplaceAllAction struct {
	Names []string
}

// RotateAction moves the first channel to the end.
type RotateAction struct{}

func (a AddAction) apply(s Set) Set        { return s.Add(a.Name) }
func (a RemoveAction) apply(s Set) Set     { return s.Remove(a.Name) }
func (a ReplaceAllAction) apply(s Set) Set { return s.ReplaceAll(a.Names) }
func (RotateAction) apply(s Set) Set       { return s.Rotate() }

// Reduce applies action to state and returns the resulting set. A nil
// action leaves state unchanged.
func Reduce(state Set, action Action) Set {
	if action == nil {
		return state
	}
	return action.apply(state)
}
