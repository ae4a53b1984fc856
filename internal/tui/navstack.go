package tui

// Location is a directory together with the selection it had.
type Location struct {
	Dir      string
	Selected int
}

// Stack is the LIFO history of directories the user descended from.
type Stack struct {
	items []Location
}

// Push records loc as the most recent location.
func (s *Stack) Push(loc Location) {
	s.items = append(s.items, loc)
}

// Pop removes and returns the most recent location. ok is false when the
// stack is empty.
func (s *Stack) Pop() (loc Location, ok bool) {
	if len(s.items) == 0 {
		return Location{}, false
	}
	loc = s.items[len(s.items)-1]
	s.items[len(s.items)-1] = Location{}
	s.items = s.items[:len(s.items)-1]
	return loc, true
}

// Len returns the number of recorded locations.
func (s *Stack) Len() int {
	return len(s.items)
}
