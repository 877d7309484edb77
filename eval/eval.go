// Package eval measures how close two protein structures are: it pairs
// residues by sequence alignment, superposes the paired carbon-alpha atoms
// and reports their RMSD. Structures of different length or numbering are
// fine; only sequence correspondence matters.
package eval

import (
	"log/slog"
	"math"

	"refinery/pdb"
	"refinery/rmsd"
	"refinery/seq"
)

// Result reports the comparison of an original and a refined structure
// against the same reference. Improvement is positive when the refined
// structure is closer to the reference.
type Result struct {
	RMSDOriginal    float64
	RMSDRefined     float64
	Improvement     float64
	AlignedOriginal int
	AlignedRefined  int
}

// Comparator evaluates candidate structures against a reference.
type Comparator struct {
	Logger *slog.Logger
}

// LoadChain reads a PDB file and returns the chain with the given
// identifier. If ident is 0 the first chain is used. If the chain does not
// exist, the first one is used instead and a warning is logged; the
// comparison then proceeds with reduced fidelity rather than failing.
func (c Comparator) LoadChain(path string, ident byte) (*pdb.Chain, error) {
	entry, err := pdb.Read(path)
	if err != nil {
		return nil, err
	}
	if ident == 0 {
		return entry.FirstChain(), nil
	}
	chain := entry.Chain(ident)
	if chain == nil {
		c.logger().Warn("chain not found, falling back to first chain",
			"path", path, "chain", string(ident))
		return entry.FirstChain(), nil
	}
	return chain, nil
}

// AlignedRMSD superposes cand onto ref and returns the RMSD over the
// sequence-corresponding carbon-alpha pairs, along with the number of
// pairs. The candidate's full atom set is transformed by the fit computed
// from the matched pairs; the RMSD is then measured over the matched pairs
// only.
//
// If the alignment yields no matched pairs at all, the RMSD is +Inf and a
// warning is logged. That is a sentinel, not an error: the run continues.
func (c Comparator) AlignedRMSD(ref, cand *pdb.Chain) (float64, int) {
	refCoords := ref.CaCoords()
	candCoords := cand.CaCoords()

	al := seq.Align(ref.CaSequence(), cand.CaSequence())
	segments := al.MatchedSegments()

	pairs := 0
	for _, seg := range segments {
		pairs += seg.Len
	}
	if pairs == 0 {
		c.logger().Warn("no common carbon-alpha atoms between structures",
			"reference", ref.Ident, "candidate", cand.Ident)
		return math.Inf(1), 0
	}

	refMatched := make([]pdb.Coords, 0, pairs)
	candIdx := make([]int, 0, pairs)
	for _, seg := range segments {
		for i := 0; i < seg.Len; i++ {
			refMatched = append(refMatched, refCoords[seg.AStart+i])
			candIdx = append(candIdx, seg.BStart+i)
		}
	}
	candMatched := make([]pdb.Coords, pairs)
	for i, idx := range candIdx {
		candMatched[i] = candCoords[idx]
	}

	// Fit on the matched pairs, move the whole candidate, measure on the
	// matched pairs.
	moved := rmsd.Superpose(candMatched, refMatched).Apply(candCoords)
	for i, idx := range candIdx {
		candMatched[i] = moved[idx]
	}

	c.logger().Debug("aligned structures for RMSD",
		"pairs", pairs, "segments", len(segments))
	return rmsd.Deviation(candMatched, refMatched), pairs
}

// Compare evaluates the original and refined structures against the
// reference structure, using the reference chain named by ident (0 means
// first chain). The candidates are expected to be single-chain predicted
// models; their first chain is used.
func (c Comparator) Compare(refPath, origPath, refinedPath string, ident byte) (Result, error) {
	ref, err := c.LoadChain(refPath, ident)
	if err != nil {
		return Result{}, err
	}
	orig, err := c.LoadChain(origPath, 0)
	if err != nil {
		return Result{}, err
	}
	refined, err := c.LoadChain(refinedPath, 0)
	if err != nil {
		return Result{}, err
	}

	rmsdOrig, nOrig := c.AlignedRMSD(ref, orig)
	rmsdRefined, nRefined := c.AlignedRMSD(ref, refined)
	return Result{
		RMSDOriginal:    rmsdOrig,
		RMSDRefined:     rmsdRefined,
		Improvement:     rmsdOrig - rmsdRefined,
		AlignedOriginal: nOrig,
		AlignedRefined:  nRefined,
	}, nil
}

func (c Comparator) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
