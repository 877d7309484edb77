package eval

import (
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refinery/pdb"
	"refinery/seq"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// helixCoords lays residues out on a coarse helix so that no coordinate set
// is degenerate (collinear or coincident).
func helixCoords(n int) []pdb.Coords {
	coords := make([]pdb.Coords, n)
	for i := range coords {
		a := float64(i) * 100 * math.Pi / 180
		coords[i] = pdb.Coords{
			X: 2.3 * math.Cos(a),
			Y: 2.3 * math.Sin(a),
			Z: 1.5 * float64(i),
		}
	}
	return coords
}

func makeChain(ident byte, sequence string, coords []pdb.Coords) *pdb.Chain {
	chain := &pdb.Chain{Ident: ident}
	for i, r := range sequence {
		chain.Residues = append(chain.Residues, &pdb.Residue{
			Name:        seq.Residue(r),
			SequenceNum: i + 1,
			Atoms:       []pdb.Atom{{Name: "CA", Coords: coords[i]}},
		})
	}
	return chain
}

func writeChain(t *testing.T, dir, name string, chain *pdb.Chain) string {
	t.Helper()
	path := filepath.Join(dir, name)
	entry := &pdb.Entry{Path: path, Chains: []*pdb.Chain{chain}}
	require.NoError(t, entry.WriteFile(path))
	return path
}

func shift(coords []pdb.Coords, dx, dy, dz float64) []pdb.Coords {
	out := make([]pdb.Coords, len(coords))
	for i, c := range coords {
		out[i] = pdb.Coords{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
	}
	return out
}

func TestAlignedRMSDIdenticalStructures(t *testing.T) {
	const sequence = "ACDEFGHIKLMNPQRSTVWY"
	coords := helixCoords(len(sequence))

	comp := Comparator{Logger: discard}
	ref := makeChain('A', sequence, coords)
	// A translated copy must superpose back onto the original exactly.
	cand := makeChain('A', sequence, shift(coords, 10, -5, 3))

	dist, pairs := comp.AlignedRMSD(ref, cand)
	assert.Equal(t, len(sequence), pairs)
	assert.InDelta(t, 0.0, dist, 1e-6)
}

func TestAlignedRMSDDifferentLengths(t *testing.T) {
	const refSeq = "ACDEFGHIKLMNPQRSTVWY"
	refCoords := helixCoords(len(refSeq))

	// The candidate is missing five interior residues; alignment must pair
	// up the rest.
	candSeq := refSeq[:8] + refSeq[13:]
	candCoords := append(append([]pdb.Coords{}, refCoords[:8]...),
		refCoords[13:]...)

	comp := Comparator{Logger: discard}
	dist, pairs := comp.AlignedRMSD(
		makeChain('A', refSeq, refCoords),
		makeChain('A', candSeq, candCoords))
	assert.Equal(t, len(candSeq), pairs)
	assert.InDelta(t, 0.0, dist, 1e-6)
}

func TestAlignedRMSDNoCommonAtoms(t *testing.T) {
	comp := Comparator{Logger: discard}
	ref := makeChain('A', "ACDEF", helixCoords(5))
	empty := &pdb.Chain{Ident: 'B'}

	dist, pairs := comp.AlignedRMSD(ref, empty)
	assert.Equal(t, 0, pairs)
	assert.True(t, math.IsInf(dist, 1),
		"no common atoms should report +Inf, got %f", dist)
}

func TestCompare(t *testing.T) {
	const sequence = "ACDEFGHIKLMNPQRSTVWY"
	refCoords := helixCoords(len(sequence))

	// The "original" prediction has a stretch displaced by 5 angstroms;
	// the "refined" one is a rigidly moved copy of the reference.
	origCoords := shift(refCoords, 0, 0, 0)
	for i := 5; i < 10; i++ {
		origCoords[i].Y += 5
	}
	refinedCoords := shift(refCoords, -3, 7, 2)

	dir := t.TempDir()
	refPath := writeChain(t, dir, "ref.pdb",
		makeChain('A', sequence, refCoords))
	origPath := writeChain(t, dir, "orig.pdb",
		makeChain('A', sequence, origCoords))
	refinedPath := writeChain(t, dir, "refined.pdb",
		makeChain('A', sequence, refinedCoords))

	comp := Comparator{Logger: discard}
	result, err := comp.Compare(refPath, origPath, refinedPath, 0)
	require.NoError(t, err)

	assert.Equal(t, len(sequence), result.AlignedOriginal)
	assert.Equal(t, len(sequence), result.AlignedRefined)
	assert.InDelta(t, 0.0, result.RMSDRefined, 1e-3)
	assert.Greater(t, result.RMSDOriginal, 1.0)
	assert.Greater(t, result.Improvement, 0.0)
	assert.InDelta(t, result.RMSDOriginal-result.RMSDRefined,
		result.Improvement, 1e-12)
}

func TestCompareMissingFile(t *testing.T) {
	comp := Comparator{Logger: discard}
	_, err := comp.Compare("does-not-exist.pdb", "nor-this.pdb",
		"nor-that.pdb", 0)
	assert.Error(t, err)
}

func TestLoadChain(t *testing.T) {
	dir := t.TempDir()
	path := writeChain(t, dir, "chain.pdb",
		makeChain('A', "ACDEF", helixCoords(5)))

	comp := Comparator{Logger: discard}

	chain, err := comp.LoadChain(path, 0)
	require.NoError(t, err)
	assert.Equal(t, byte('A'), chain.Ident)

	chain, err = comp.LoadChain(path, 'A')
	require.NoError(t, err)
	assert.Equal(t, byte('A'), chain.Ident)

	// A missing chain falls back to the first one rather than failing.
	chain, err = comp.LoadChain(path, 'Z')
	require.NoError(t, err)
	assert.Equal(t, byte('A'), chain.Ident)
}
