package seq

import "math"

// Alignment scoring parameters. Matches are rewarded, mismatches punished
// mildly, and gaps are tolerated but discouraged: opening a gap costs more
// than extending one, so indels clump together instead of scattering.
const (
	MatchScore     = 2.0
	MismatchScore  = -1.0
	GapOpenScore   = -0.5
	GapExtendScore = -0.1
)

// Alignment is a global pairwise alignment of two sequences. A and B always
// have the same length, with '-' residues marking gaps.
type Alignment struct {
	A, B []Residue
}

// A Segment is a maximal gap-free run of an alignment. AStart and BStart are
// residue indices (not alignment columns) into the original sequences.
type Segment struct {
	AStart, BStart, Len int
}

func newAlignment(length int) Alignment {
	return Alignment{
		A: make([]Residue, 0, length),
		B: make([]Residue, 0, length),
	}
}

// The three states of the affine-gap alignment automaton.
const (
	stateMatch = iota // A[i] aligned with B[j]
	stateGapB         // A[i] aligned with a gap
	stateGapA         // B[j] aligned with a gap
)

// Align computes the highest-scoring global alignment of A and B under an
// affine gap model (Gotoh's algorithm). The implementation follows the
// usual three-matrix formulation: one matrix per automaton state, with
// traceback pointers recorded during the fill so the traceback never has to
// re-derive a floating point comparison.
func Align(A, B []Residue) Alignment {
	la, lb := len(A), len(B)
	neg := math.Inf(-1)

	// score[s] is the (la+1)x(lb+1) score matrix for state s, flattened
	// row-major. from[s] records which state each cell was reached from.
	cols := lb + 1
	var score [3][]float64
	var from [3][]uint8
	for s := 0; s < 3; s++ {
		score[s] = make([]float64, (la+1)*cols)
		from[s] = make([]uint8, (la+1)*cols)
	}

	// Initialization: only gap states can produce a first row or column.
	score[stateMatch][0] = 0
	score[stateGapB][0] = neg
	score[stateGapA][0] = neg
	for i := 1; i <= la; i++ {
		score[stateMatch][i*cols] = neg
		score[stateGapA][i*cols] = neg
		score[stateGapB][i*cols] = GapOpenScore + float64(i-1)*GapExtendScore
		from[stateGapB][i*cols] = stateGapB
	}
	for j := 1; j <= lb; j++ {
		score[stateMatch][j] = neg
		score[stateGapB][j] = neg
		score[stateGapA][j] = GapOpenScore + float64(j-1)*GapExtendScore
		from[stateGapA][j] = stateGapA
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cur := i*cols + j

			sub := MismatchScore
			if A[i-1] == B[j-1] {
				sub = MatchScore
			}
			diag := (i-1)*cols + (j - 1)
			best, arg := max3(
				score[stateMatch][diag],
				score[stateGapB][diag],
				score[stateGapA][diag])
			score[stateMatch][cur] = best + sub
			from[stateMatch][cur] = arg

			up := (i-1)*cols + j
			best, arg = max3(
				score[stateMatch][up]+GapOpenScore,
				score[stateGapB][up]+GapExtendScore,
				score[stateGapA][up]+GapOpenScore)
			score[stateGapB][cur] = best
			from[stateGapB][cur] = arg

			left := i*cols + (j - 1)
			best, arg = max3(
				score[stateMatch][left]+GapOpenScore,
				score[stateGapB][left]+GapOpenScore,
				score[stateGapA][left]+GapExtendScore)
			score[stateGapA][cur] = best
			from[stateGapA][cur] = arg
		}
	}

	// Trace an optimal path back from the bottom-right corner, starting in
	// whichever state scored highest there.
	aligned := newAlignment(max(la, lb))
	end := la*cols + lb
	_, state := max3(
		score[stateMatch][end],
		score[stateGapB][end],
		score[stateGapA][end])

	i, j := la, lb
	for i > 0 || j > 0 {
		cur := i*cols + j
		prev := from[state][cur]
		switch state {
		case stateMatch:
			aligned.A = append(aligned.A, A[i-1])
			aligned.B = append(aligned.B, B[j-1])
			i--
			j--
		case stateGapB:
			aligned.A = append(aligned.A, A[i-1])
			aligned.B = append(aligned.B, Gap)
			i--
		case stateGapA:
			aligned.A = append(aligned.A, Gap)
			aligned.B = append(aligned.B, B[j-1])
			j--
		}
		state = prev
	}

	// The alignment was built backwards, so reverse it.
	for i, j := 0, len(aligned.A)-1; i < j; i, j = i+1, j-1 {
		aligned.A[i], aligned.A[j] = aligned.A[j], aligned.A[i]
		aligned.B[i], aligned.B[j] = aligned.B[j], aligned.B[i]
	}
	return aligned
}

// MatchedSegments decomposes the alignment into maximal gap-free runs.
// Each segment yields one residue correspondence per position, expressed in
// the index space of the original (ungapped) sequences.
func (al Alignment) MatchedSegments() []Segment {
	segments := make([]Segment, 0, 4)
	ai, bi := 0, 0
	for k := 0; k < len(al.A); k++ {
		ra, rb := al.A[k], al.B[k]
		if ra != Gap && rb != Gap {
			if n := len(segments); n > 0 &&
				segments[n-1].AStart+segments[n-1].Len == ai &&
				segments[n-1].BStart+segments[n-1].Len == bi {
				segments[n-1].Len++
			} else {
				segments = append(segments, Segment{AStart: ai, BStart: bi, Len: 1})
			}
		}
		if ra != Gap {
			ai++
		}
		if rb != Gap {
			bi++
		}
	}
	return segments
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// max3 returns the largest of three values and which argument it was.
func max3(a, b, c float64) (float64, uint8) {
	switch {
	case a >= b && a >= c:
		return a, 0
	case b >= c:
		return b, 1
	}
	return c, 2
}
