package fold

import "testing"

func newTestState(regions []Region, collapsed ...int) *State {
	st := NewState()
	st.Regions = regions
	for _, line := range collapsed {
		st.Collapsed[line] = true
	}
	return st
}

func TestComputeIdentityWhenNothingCollapsed(t *testing.T) {
	content := "a\nb\nc"
	res := Compute(content, newTestState([]Region{{StartLine: 0, EndLine: 2}}))
	if res.VirtualContent != content {
		t.Fatalf("virtual = %q, want %q", res.VirtualContent, content)
	}
	if res.HasActiveFolds() {
		t.Fatalf("HasActiveFolds = true, want false")
	}
	for i := 0; i < 3; i++ {
		if res.Mapping.ActualToVirtual[i] != i {
			t.Fatalf("actualToVirtual[%d] = %d, want identity", i, res.Mapping.ActualToVirtual[i])
		}
		if res.Mapping.VirtualToActual[i] != i {
			t.Fatalf("virtualToActual[%d] = %d, want identity", i, res.Mapping.VirtualToActual[i])
		}
	}
}

func TestComputeHidesRegionInterior(t *testing.T) {
	content := "a\nb\nc\nd"
	res := Compute(content, newTestState([]Region{{StartLine: 1, EndLine: 2}}, 1))
	if len(res.Mapping.VirtualToActual) != 3 {
		t.Fatalf("visible lines = %d, want 3", len(res.Mapping.VirtualToActual))
	}
	wantVirtual := []string{"a", "b", "d"}
	for i, want := range wantVirtual {
		if res.VirtualLines[i] != want {
			t.Fatalf("virtualLines[%d] = %q, want %q", i, res.VirtualLines[i], want)
		}
	}
	// Hidden line maps to its region start's virtual index.
	if res.Mapping.ActualToVirtual[2] != 1 {
		t.Fatalf("actualToVirtual[2] = %d, want 1", res.Mapping.ActualToVirtual[2])
	}
	// Line after the hidden block.
	if res.Mapping.VirtualToActual[2] != 3 {
		t.Fatalf("virtualToActual[2] = %d, want 3", res.Mapping.VirtualToActual[2])
	}
	if !res.HasActiveFolds() {
		t.Fatalf("HasActiveFolds = false, want true")
	}
}

func TestComputeFullRegionCollapse(t *testing.T) {
	// Region covering lines 1..2 of "a b c d": interior b..c hidden once
	// the start line is excluded, per the strictly-inside rule.
	content := "a\nb\nc\nd"
	res := Compute(content, newTestState([]Region{{StartLine: 0, EndLine: 2}}, 0))
	want := []string{"a", "d"}
	if len(res.VirtualLines) != len(want) {
		t.Fatalf("virtualLines = %v, want %v", res.VirtualLines, want)
	}
	for i := range want {
		if res.VirtualLines[i] != want[i] {
			t.Fatalf("virtualLines[%d] = %q, want %q", i, res.VirtualLines[i], want[i])
		}
	}
	if res.Mapping.VirtualToActual[1] != 3 {
		t.Fatalf("virtualToActual[1] = %d, want 3", res.Mapping.VirtualToActual[1])
	}
}

func TestComputeRoundTripVisibleLines(t *testing.T) {
	content := "0\n1\n2\n3\n4\n5\n6"
	st := newTestState([]Region{{1, 3}, {4, 5}}, 1, 4)
	res := Compute(content, st)
	for v, a := range res.Mapping.VirtualToActual {
		if res.Mapping.ActualToVirtual[a] != v {
			t.Fatalf("visible line %d: actualToVirtual = %d, want %d", a, res.Mapping.ActualToVirtual[a], v)
		}
	}
}

func TestComputeOverlappingRegions(t *testing.T) {
	content := "0\n1\n2\n3\n4\n5"
	st := newTestState([]Region{{1, 4}, {2, 5}}, 1, 2)
	res := Compute(content, st)
	// Union of interiors: 2..4 from the first region, 3..5 from the
	// second; line 2 itself is the second region's start but already
	// hidden by the first.
	want := []string{"0", "1"}
	if len(res.VirtualLines) != len(want) {
		t.Fatalf("virtualLines = %v, want %v", res.VirtualLines, want)
	}
	for i := range want {
		if res.VirtualLines[i] != want[i] {
			t.Fatalf("virtualLines[%d] = %q, want %q", i, res.VirtualLines[i], want[i])
		}
	}
}

func TestComputeStaleCollapseFailsOpen(t *testing.T) {
	content := "a\nb\nc"
	st := newTestState([]Region{{StartLine: 0, EndLine: 1}}, 0, 2)
	res := Compute(content, st)
	// Line 2 has no region, its collapse entry is ignored.
	want := []string{"a", "c"}
	for i := range want {
		if res.VirtualLines[i] != want[i] {
			t.Fatalf("virtualLines[%d] = %q, want %q", i, res.VirtualLines[i], want[i])
		}
	}
}

func TestComputeRegionPastEndOfContent(t *testing.T) {
	content := "a\nb"
	st := newTestState([]Region{{StartLine: 0, EndLine: 10}}, 0)
	res := Compute(content, st)
	if len(res.VirtualLines) != 1 || res.VirtualLines[0] != "a" {
		t.Fatalf("virtualLines = %v, want [a]", res.VirtualLines)
	}
	if len(res.Mapping.Folded) != 1 || res.Mapping.Folded[0].End != 1 {
		t.Fatalf("folded = %+v, want end clamped to 1", res.Mapping.Folded)
	}
}

func TestToggle(t *testing.T) {
	st := newTestState([]Region{{StartLine: 1, EndLine: 3}})
	if st.HasFolds() {
		t.Fatalf("HasFolds = true on fresh state")
	}
	if !st.Toggle(1) || !st.Collapsed[1] {
		t.Fatalf("toggle did not collapse line 1")
	}
	if st.Toggle(2) {
		t.Fatalf("toggle succeeded on a line with no region")
	}
	if !st.Toggle(1) || st.Collapsed[1] {
		t.Fatalf("toggle did not expand line 1")
	}
}

func TestStoreLifecycle(t *testing.T) {
	s := NewStore()
	st := s.Open("a.go")
	if st == nil || s.Len() != 1 {
		t.Fatalf("Open did not create state")
	}
	if again := s.Open("a.go"); again != st {
		t.Fatalf("Open created a second state for the same buffer")
	}
	if _, ok := s.Get("b.go"); ok {
		t.Fatalf("Get created a state")
	}
	s.Close("a.go")
	if _, ok := s.Get("a.go"); ok || s.Len() != 0 {
		t.Fatalf("Close did not drop the state")
	}
}
