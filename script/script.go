package script

// LineKind classifies a script line.
type LineKind int

const (
	// LineCommand is sent to the device as-is
	LineCommand LineKind = iota

	// LineExpect validates the most recent reply
	LineExpect
)

// String returns the kind name.
func (k LineKind) String() string {
	if k == LineExpect {
		return "expect"
	}
	return "command"
}

// Script represents a parsed command script.
type Script struct {
	// Name identifies the script source (usually its path)
	Name string

	// Lines holds every executable line in file order.
	// Blank and comment-only lines are not included.
	Lines []*Line
}

// Commands returns the number of device command lines.
func (s *Script) Commands() int {
	n := 0
	for _, l := range s.Lines {
		if l.Kind == LineCommand {
			n++
		}
	}
	return n
}

// Expectations returns the number of EXPECT directives.
func (s *Script) Expectations() int {
	return len(s.Lines) - s.Commands()
}

// Line represents a single executable script line.
type Line struct {
	// Number is the 1-based line number in the source
	Number int

	// Kind is the line classification
	Kind LineKind

	// Text is the line with comment and surrounding whitespace removed.
	// For LineCommand this is exactly what is sent to the device.
	Text string

	// Pattern is the EXPECT argument with one layer of double quotes removed
	Pattern string

	// Comment is the trailing comment text, if any
	Comment string
}
