package seq

import (
	"fmt"
	"testing"
)

func TestAlign(t *testing.T) {
	tests := [][2]string{
		{"GATTACA", "GATTACA"},
		{"ACDEFG", "ACDFG"},
		{"ACDFG", "ACDEFG"},
		{"GATTACA", "GACTACA"},
		// Shifted sequences force the traceback through both gap states.
		{"ACDEFGHI", "CDEFGHIJ"},
	}
	answers := [][2]string{
		{"GATTACA", "GATTACA"},
		{"ACDEFG", "ACD-FG"},
		{"ACD-FG", "ACDEFG"},
		{"GATTACA", "GACTACA"},
		{"ACDEFGHI-", "-CDEFGHIJ"},
	}
	for i, test := range tests {
		computed := Align([]Residue(test[0]), []Residue(test[1]))
		testEqualSeq(t, computed.A, []Residue(answers[i][0]))
		testEqualSeq(t, computed.B, []Residue(answers[i][1]))
	}
}

func TestAlignGapPlacement(t *testing.T) {
	// With affine gap costs, a single run of three gaps must beat three
	// scattered single gaps.
	computed := Align([]Residue("ACDEFGHIKL"), []Residue("ACDKL"))
	if len(computed.A) != 10 {
		t.Fatalf("Alignment has %d columns, but should have 10",
			len(computed.A))
	}
	segs := computed.MatchedSegments()
	if len(segs) != 2 {
		t.Fatalf("Alignment has %d gap-free runs, but should have 2: %v",
			len(segs), segs)
	}
}

func TestMatchedSegments(t *testing.T) {
	tests := [][2]string{
		{"GATTACA", "GATTACA"},
		{"ACDEFG", "ACDFG"},
		{"GATTACA", "GACTACA"},
	}
	answers := [][]Segment{
		{{AStart: 0, BStart: 0, Len: 7}},
		{{AStart: 0, BStart: 0, Len: 3}, {AStart: 4, BStart: 3, Len: 2}},
		// Mismatched columns still pair residues, so a substitution does
		// not split the run.
		{{AStart: 0, BStart: 0, Len: 7}},
	}
	for i, test := range tests {
		computed := Align([]Residue(test[0]), []Residue(test[1]))
		segs := computed.MatchedSegments()
		if len(segs) != len(answers[i]) {
			t.Fatalf("\nSegments of %s / %s are\n\n%v\n\nbut answer is\n\n%v",
				test[0], test[1], segs, answers[i])
		}
		for j, seg := range segs {
			if seg != answers[i][j] {
				t.Fatalf("\nSegment %d of %s / %s is %v, but answer is %v",
					j, test[0], test[1], seg, answers[i][j])
			}
		}
	}
}

func testEqualSeq(t *testing.T, computed, answer []Residue) {
	scomputed := fmt.Sprintf("%s", computed)
	sanswer := fmt.Sprintf("%s", answer)
	if scomputed != sanswer {
		t.Fatalf("\nComputed sequence is\n\n%s\n\n"+
			"but answer is\n\n%s", scomputed, sanswer)
	}
}
