package fold

import (
	"sort"
	"strings"

	"github.com/kobzarvs/vedit/internal/document"
)

// Region is a candidate foldable span of actual lines, supplied by an
// external analyzer. StartLine stays visible when the region is
// collapsed; lines StartLine+1..EndLine are hidden.
type Region struct {
	StartLine int
	EndLine   int
}

// State is the per-buffer fold state: which region start lines are
// currently collapsed, and the region list last reported by the
// analyzer.
type State struct {
	Collapsed map[int]bool
	Regions   []Region
}

func NewState() *State {
	return &State{Collapsed: make(map[int]bool)}
}

// region returns the region starting at line, if any.
func (s *State) region(line int) (Region, bool) {
	for _, r := range s.Regions {
		if r.StartLine == line {
			return r, true
		}
	}
	return Region{}, false
}

// Toggle collapses or expands the region starting at line. Lines with no
// region are ignored, so a stale request is harmless.
func (s *State) Toggle(line int) bool {
	if _, ok := s.region(line); !ok {
		return false
	}
	if s.Collapsed[line] {
		delete(s.Collapsed, line)
	} else {
		s.Collapsed[line] = true
	}
	return true
}

// HasFolds reports whether any region is currently collapsed.
func (s *State) HasFolds() bool {
	return len(s.Collapsed) > 0
}

// FoldedRange records one collapsed region in the computed mapping: the
// actual line span and the virtual line its start collapsed onto.
type FoldedRange struct {
	Start       int
	End         int
	VirtualLine int
}

// linePair ties one actual line to its virtual index. The mapping's two
// directions are both derived from the ordered pair list, so they cannot
// drift out of sync.
type linePair struct {
	actual  int
	virtual int
	hidden  bool
}

// Mapping is the bidirectional translation between actual and virtual
// line indexes for one (content, fold state) snapshot. Hidden lines map
// forward to their region's start virtual line and have no reverse
// entry.
type Mapping struct {
	ActualToVirtual map[int]int
	VirtualToActual map[int]int
	Folded          []FoldedRange
	HasActiveFolds  bool
}

// Result is the full output of Compute: the virtual view plus its
// mapping. It has no independent lifetime; recompute it after every
// content or fold-state change.
type Result struct {
	VirtualContent string
	VirtualLines   []string
	Mapping        Mapping
}

// HasActiveFolds reports whether the virtual view differs from the
// actual content.
func (r Result) HasActiveFolds() bool {
	return r.Mapping.HasActiveFolds
}

// Compute derives the virtual content and line mapping for content under
// the given fold state. A collapsed line whose region no longer exists is
// skipped, never an error. With nothing collapsed the result is the
// identity: virtual content equals content and both maps are identity
// maps.
func Compute(content string, state *State) Result {
	lines := document.SplitLines(content)
	hidden := hiddenLines(state, len(lines))

	pairs := make([]linePair, len(lines))
	virtual := 0
	for i := range lines {
		if hidden[i] >= 0 {
			// Hidden lines share the virtual index of their region start.
			pairs[i] = linePair{actual: i, virtual: pairs[hidden[i]].virtual, hidden: true}
			continue
		}
		pairs[i] = linePair{actual: i, virtual: virtual}
		virtual++
	}

	m := Mapping{
		ActualToVirtual: make(map[int]int, len(pairs)),
		VirtualToActual: make(map[int]int, virtual),
		HasActiveFolds:  state != nil && len(state.Collapsed) > 0,
	}
	virtualLines := make([]string, 0, virtual)
	for _, p := range pairs {
		m.ActualToVirtual[p.actual] = p.virtual
		if p.hidden {
			continue
		}
		m.VirtualToActual[p.virtual] = p.actual
		virtualLines = append(virtualLines, lines[p.actual])
	}
	m.Folded = foldedRanges(state, pairs, len(lines))

	return Result{
		VirtualContent: strings.Join(virtualLines, "\n"),
		VirtualLines:   virtualLines,
		Mapping:        m,
	}
}

// hiddenLines returns, for each actual line, the start line of the
// collapsed region hiding it, or -1 if the line is visible. Overlapping
// collapsed regions hide the union of their interiors; the earliest
// start wins for attribution.
func hiddenLines(state *State, lineCount int) []int {
	hidden := make([]int, lineCount)
	for i := range hidden {
		hidden[i] = -1
	}
	if state == nil || len(state.Collapsed) == 0 {
		return hidden
	}
	starts := make([]int, 0, len(state.Collapsed))
	for line := range state.Collapsed {
		starts = append(starts, line)
	}
	sort.Ints(starts)
	for _, start := range starts {
		region, ok := state.region(start)
		if !ok {
			// Stale collapse entry, fails open.
			continue
		}
		for line := start + 1; line <= region.EndLine && line < lineCount; line++ {
			if hidden[line] < 0 {
				hidden[line] = start
			}
		}
	}
	return hidden
}

func foldedRanges(state *State, pairs []linePair, lineCount int) []FoldedRange {
	if state == nil || len(state.Collapsed) == 0 {
		return nil
	}
	starts := make([]int, 0, len(state.Collapsed))
	for line := range state.Collapsed {
		starts = append(starts, line)
	}
	sort.Ints(starts)
	var folded []FoldedRange
	for _, start := range starts {
		region, ok := state.region(start)
		if !ok || start < 0 || start >= lineCount {
			continue
		}
		end := region.EndLine
		if end >= lineCount {
			end = lineCount - 1
		}
		folded = append(folded, FoldedRange{
			Start:       start,
			End:         end,
			VirtualLine: pairs[start].virtual,
		})
	}
	return folded
}
