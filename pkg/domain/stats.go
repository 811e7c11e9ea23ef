package domain

// Stats summarizes the structure of a signature.
type Stats struct {
	Length         int `json:"length"`
	Segments       int `json:"segments"`
	Leaves         int `json:"leaves"`
	Turns          int `json:"turns"`
	Branches       int `json:"branches"`
	MaxDepth       int `json:"max_depth"`
	UnmatchedClose int `json:"unmatched_close"`
	UnclosedOpen   int `json:"unclosed_open"`
}

// Balanced reports whether every bracket in the signature is matched.
func (s Stats) Balanced() bool {
	return s.UnmatchedClose == 0 && s.UnclosedOpen == 0
}

// Analyze walks a signature once and collects its Stats.
// Depth is tracked from 0 and never goes below 0, so MaxDepth equals the
// calibration depth used by the interpreter.
func Analyze(text string) Stats {
	st := Stats{Length: len(text)}
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case SymbolForward:
			st.Segments++
		case SymbolLeaf:
			st.Leaves++
		case SymbolTurnRight, SymbolTurnLeft:
			st.Turns++
		case SymbolPush:
			st.Branches++
			depth++
			if depth > st.MaxDepth {
				st.MaxDepth = depth
			}
		case SymbolPop:
			if depth == 0 {
				st.UnmatchedClose++
				continue
			}
			depth--
		}
	}
	st.UnclosedOpen = depth
	return st
}
