package medium

// Stack tracks the media a path is nested in, innermost last.
// Transitions are decided by medium identity, not geometric containment.
type Stack struct {
	media []Medium
}

// NewStack creates a stack seeded with the medium the camera sits in, if any
func NewStack(initial Medium) *Stack {
	s := &Stack{media: make([]Medium, 0, 4)}
	s.Reset(initial)
	return s
}

// Reset empties the stack and seeds it with initial when non-nil
func (s *Stack) Reset(initial Medium) {
	s.media = s.media[:0]
	if initial != nil {
		s.media = append(s.media, initial)
	}
}

// Top returns the medium the current segment travels through, or nil for vacuum
func (s *Stack) Top() Medium {
	if len(s.media) == 0 {
		return nil
	}
	return s.media[len(s.media)-1]
}

// Depth returns the number of nested media
func (s *Stack) Depth() int {
	return len(s.media)
}

// Push enters m
func (s *Stack) Push(m Medium) {
	s.media = append(s.media, m)
}

// Pop leaves the innermost medium
func (s *Stack) Pop() Medium {
	if len(s.media) == 0 {
		return nil
	}
	top := s.media[len(s.media)-1]
	s.media = s.media[:len(s.media)-1]
	return top
}

// Transition updates the stack for a ray leaving a surface that encloses
// surfaceMedium. cosOut is the cosine between the new direction and the
// surface's outward normal: a negative value enters the surface.
func (s *Stack) Transition(surfaceMedium Medium, cosOut float64) {
	if surfaceMedium == nil {
		return
	}
	top := s.Top()
	switch {
	case cosOut < 0 && top != surfaceMedium:
		s.Push(surfaceMedium)
	case cosOut >= 0 && top == surfaceMedium:
		s.Pop()
	}
}

// Clone returns an independent copy, used for shadow rays
func (s *Stack) Clone() *Stack {
	media := make([]Medium, len(s.media), cap(s.media))
	copy(media, s.media)
	return &Stack{media: media}
}
