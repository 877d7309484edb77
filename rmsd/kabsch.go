// Package rmsd implements a version of the Kabsch algorithm for optimal
// rigid superposition, described in detail here:
// http://cnx.org/content/m11608/latest/
//
// In addition to computing the RMSD of two equal-length coordinate sets, the
// package exposes the underlying rigid transform so that a fit computed from
// a subset of matched atoms can be applied to a full structure.
package rmsd

import (
	"fmt"
	"math"

	"refinery/pdb"
)

// Transform is a rigid rotation plus translation computed by Superpose.
// Applying it to the source coordinate set produces the least-squares best
// fit onto the target set.
type Transform struct {
	rot                  matrix3
	srcCenter, dstCenter pdb.Coords
}

// Superpose computes the optimal rigid transform mapping xs onto ys.
//
// A brief, high-level overview:
//
// Build the 3xN matrices X and Y containing, for the sets xs and ys
// respectively, the coordinates of each of the N atoms after centering
// the atoms by subtracting the centroids.
//
// Compute the covariance matrix C=X(Y^T)
//
// Compute the SVD (Singular Value Decomposition) of C=VS(W^T)
//
// Compute d=sign(det(C))
//
// Compute the optimal rotation U as U = W([1 0 0] [0 1 0] [0 0 d])(V^T)
//
// Superpose panics if the lengths of xs and ys differ, or if either set
// is empty.
func Superpose(xs, ys []pdb.Coords) Transform {
	if len(xs) != len(ys) {
		panic(fmt.Sprintf("Superposing two structures requires that they "+
			"have equal length. But the lengths of the two structures "+
			"provided are %d and %d.", len(xs), len(ys)))
	}
	if len(xs) == 0 {
		panic("Cannot superpose empty coordinate sets.")
	}

	cx := centroid(xs)
	cy := centroid(ys)

	// Initialize the 3xN matrices X and Y from the centered coordinates.
	cols := len(xs)
	X := make([]float64, 3*cols)
	Y := make([]float64, 3*cols)
	for i := 0; i < cols; i++ {
		X[0*cols+i] = xs[i].X - cx.X
		X[1*cols+i] = xs[i].Y - cx.Y
		X[2*cols+i] = xs[i].Z - cx.Z

		Y[0*cols+i] = ys[i].X - cy.X
		Y[1*cols+i] = ys[i].Y - cy.Y
		Y[2*cols+i] = ys[i].Z - cy.Z
	}

	// Compute the covariance matrix C = X(Y^T)
	C := covariant_3x3(cols, X, Y)

	// Compute the Singular Value Decomposition of C = VS(W^T)
	V, W := C.svd()

	// If the determinant of C is negative, then we have to correct for
	// something called an "improper rotation" in that the matrix doesn't
	// constitute a "right handed system". To correct for it, we multiply
	// W by ( [1 0 0] [0 1 0] [0 0 -1] ). This makes the rotation "proper".
	if C.det() < 0 {
		adjust := matrix3{
			1, 0, 0,
			0, 1, 0,
			0, 0, -1,
		}
		W = W.mult(adjust)
	}
	return Transform{
		rot:       W.mult(V.transpose()),
		srcCenter: cx,
		dstCenter: cy,
	}
}

// Apply transforms every coordinate in cs by the rigid transform and returns
// the result as a fresh slice. The input is not modified.
func (t Transform) Apply(cs []pdb.Coords) []pdb.Coords {
	out := make([]pdb.Coords, len(cs))
	for i, c := range cs {
		x := c.X - t.srcCenter.X
		y := c.Y - t.srcCenter.Y
		z := c.Z - t.srcCenter.Z
		out[i] = pdb.Coords{
			X: t.rot[0]*x + t.rot[1]*y + t.rot[2]*z + t.dstCenter.X,
			Y: t.rot[3]*x + t.rot[4]*y + t.rot[5]*z + t.dstCenter.Y,
			Z: t.rot[6]*x + t.rot[7]*y + t.rot[8]*z + t.dstCenter.Z,
		}
	}
	return out
}

// RMSD superposes xs onto ys and returns the root-mean-square deviation of
// the superposed pairs. It panics if the lengths of xs and ys differ.
func RMSD(xs, ys []pdb.Coords) float64 {
	return Deviation(Superpose(xs, ys).Apply(xs), ys)
}

// Deviation returns the root-mean-square deviation between two coordinate
// sets as given, without any superposition. It panics if the lengths differ
// or the sets are empty.
func Deviation(xs, ys []pdb.Coords) float64 {
	if len(xs) != len(ys) {
		panic(fmt.Sprintf("Computing the RMSD of two structures requires "+
			"that they have equal length. But the lengths of the two "+
			"structures provided are %d and %d.", len(xs), len(ys)))
	}
	if len(xs) == 0 {
		panic("Cannot compute the RMSD of empty coordinate sets.")
	}
	var sum float64
	for i := range xs {
		dx := xs[i].X - ys[i].X
		dy := xs[i].Y - ys[i].Y
		dz := xs[i].Z - ys[i].Z
		sum += dx*dx + dy*dy + dz*dz
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// centroid calculates the average position of a set of coordinates.
func centroid(cs []pdb.Coords) pdb.Coords {
	var xs, ys, zs float64
	for _, c := range cs {
		xs += c.X
		ys += c.Y
		zs += c.Z
	}
	n := float64(len(cs))
	return pdb.Coords{X: xs / n, Y: ys / n, Z: zs / n}
}
