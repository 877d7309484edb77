// pdb-compare computes the sequence-aligned carbon-alpha RMSD between two
// PDB files. The chains are aligned by sequence first, so the structures do
// not need to have the same number of residues.
package main

import (
	"flag"
	"fmt"
	"os"

	"refinery/cmd/util"
	"refinery/eval"
)

var (
	flagChain1 = ""
	flagChain2 = ""
)

func init() {
	flag.StringVar(&flagChain1, "chain1", flagChain1,
		"Chain of the first structure to compare. Defaults to the\n"+
			"first chain in the file.")
	flag.StringVar(&flagChain2, "chain2", flagChain2,
		"Chain of the second structure to compare. Defaults to the\n"+
			"first chain in the file.")

	util.FlagUse("verbose")
	util.FlagParse("pdb-file pdb-file",
		"Computes the sequence-aligned carbon-alpha RMSD between two\n"+
			"protein structures.")
	util.AssertNArg(2)
}

func main() {
	path1, path2 := util.Arg(0), util.Arg(1)
	util.AssertIsFile(path1)
	util.AssertIsFile(path2)

	comp := eval.Comparator{Logger: util.NewLogger(os.Stderr)}

	chain1, err := comp.LoadChain(path1, chainIdent(flagChain1))
	util.Assert(err, "Could not read '%s'", path1)
	chain2, err := comp.LoadChain(path2, chainIdent(flagChain2))
	util.Assert(err, "Could not read '%s'", path2)

	dist, pairs := comp.AlignedRMSD(chain1, chain2)
	if pairs == 0 {
		fmt.Println("The chains have no aligned residue pairs.")
		os.Exit(1)
	}
	fmt.Printf("%0.4f over %d aligned pairs\n", dist, pairs)
}

func chainIdent(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}
