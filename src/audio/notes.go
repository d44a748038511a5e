package audio

// ----- Note Stack ----- //

type noteOn struct {
	note     int
	velocity int
}

// noteStack keeps held notes, most recent first.
type noteStack struct {
	activeNotes []noteOn
}

func newNoteStack() *noteStack {
	return &noteStack{
		activeNotes: make([]noteOn, 0, 128),
	}
}

func (s *noteStack) active() bool {
	return len(s.activeNotes) > 0
}

func (s *noteStack) top() noteOn {
	return s.activeNotes[0]
}

// push drops the note when the stack is full.
func (s *noteStack) push(n noteOn) {
	s.remove(n.note)
	if len(s.activeNotes) >= cap(s.activeNotes) {
		return
	}
	s.activeNotes = s.activeNotes[:len(s.activeNotes)+1]
	for i := len(s.activeNotes) - 1; i >= 1; i-- {
		s.activeNotes[i] = s.activeNotes[i-1]
	}
	s.activeNotes[0] = n
}

func (s *noteStack) remove(note int) {
	removed := 0
	for i := 0; i < len(s.activeNotes); i++ {
		if s.activeNotes[i].note == note {
			removed++
		} else {
			s.activeNotes[i-removed] = s.activeNotes[i]
		}
	}
	s.activeNotes = s.activeNotes[:len(s.activeNotes)-removed]
}
