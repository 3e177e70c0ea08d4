package transition

import "github.com/matzehuels/wordstream/pkg/cloud/layout"

// RenderedLabelSet is the committed result of a pass: the labels on
// screen once every step of the pass has finished. Sets are values; a new
// pass produces a new set instead of modifying the old one.
type RenderedLabelSet struct {
	Width  float64            `json:"width"`
	Labels []layout.Placement `json:"labels"`
}

// NewRenderedLabelSet copies placements into a set.
func NewRenderedLabelSet(placements []layout.Placement, width float64) RenderedLabelSet {
	labels := make([]layout.Placement, len(placements))
	copy(labels, placements)
	return RenderedLabelSet{Width: width, Labels: labels}
}

// Len returns the number of labels.
func (s RenderedLabelSet) Len() int { return len(s.Labels) }

// Empty reports whether no labels are on screen.
func (s RenderedLabelSet) Empty() bool { return len(s.Labels) == 0 }

// Get returns the placement for token.
func (s RenderedLabelSet) Get(token string) (layout.Placement, bool) {
	for _, p := range s.Labels {
		if p.Token == token {
			return p, true
		}
	}
	return layout.Placement{}, false
}

// Has reports whether token is in the set.
func (s RenderedLabelSet) Has(token string) bool {
	_, ok := s.Get(token)
	return ok
}

// Tokens returns the tokens in rank order.
func (s RenderedLabelSet) Tokens() []string {
	out := make([]string, len(s.Labels))
	for i, p := range s.Labels {
		out[i] = p.Token
	}
	return out
}
