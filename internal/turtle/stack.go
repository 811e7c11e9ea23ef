package turtle

// frame is a saved branch point. The surface owns the transform snapshot;
// the frame keeps what the interpreter needs to resume after the branch.
type frame struct {
	level int
	pos   int
}

// stack is the explicit arena of frames, indexed by bracket depth.
type stack struct {
	frames []frame
}

func (s *stack) push(f frame) {
	s.frames = append(s.frames, f)
}

func (s *stack) pop() (frame, bool) {
	if len(s.frames) == 0 {
		return frame{}, false
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, true
}

func (s *stack) depth() int {
	return len(s.frames)
}
