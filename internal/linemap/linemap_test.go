package linemap

import "testing"

func TestLineMap_LookupAcrossIncludes(t *testing.T) {
	lm := New()
	lm.Add(Section{AbsStart: 1, AbsEnd: 10, RelStart: 1, RelEnd: 10, File: "main.a2l"})
	lm.Add(Section{AbsStart: 11, AbsEnd: 15, RelStart: 1, RelEnd: 5, File: "inc.a2l"})
	lm.Add(Section{AbsStart: 16, AbsEnd: 20, RelStart: 11, RelEnd: 15, File: "main.a2l"})
	lm.Finalize()

	cases := []struct {
		abs          int
		wantFile     string
		wantRelative int
		wantOK       bool
	}{
		{5, "main.a2l", 5, true},
		{12, "inc.a2l", 2, true},
		{18, "main.a2l", 13, true},
		{999, "", 0, false},
	}

	for _, c := range cases {
		file, rel, ok := lm.Lookup(c.abs)
		if ok != c.wantOK || file != c.wantFile || rel != c.wantRelative {
			t.Errorf("Lookup(%d) = (%q, %d, %v), want (%q, %d, %v)", c.abs, file, rel, ok, c.wantFile, c.wantRelative, c.wantOK)
		}
	}
}

func TestLineMap_MonotonicAndNonOverlapping(t *testing.T) {
	lm := New()
	lm.Add(Section{AbsStart: 20, AbsEnd: 30, RelStart: 1, RelEnd: 11, File: "b.a2l"})
	lm.Add(Section{AbsStart: 1, AbsEnd: 19, RelStart: 1, RelEnd: 19, File: "a.a2l"})
	lm.Finalize()

	sections := lm.Sections()
	for i := 1; i < len(sections); i++ {
		if sections[i].AbsStart <= sections[i-1].AbsEnd {
			t.Errorf("sections overlap or are unsorted: %+v then %+v", sections[i-1], sections[i])
		}
	}
}
