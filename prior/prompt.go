package prior

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the hypothesis prompt for one region. The reply
// format it demands matches the Hypothesis type exactly.
func BuildPrompt(req Request) string {
	var avg float64
	if len(req.Scores) > 0 {
		for _, s := range req.Scores {
			avg += s
		}
		avg /= float64(len(req.Scores))
	}

	context := req.Context
	if context == "" {
		context = "No specific context provided."
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert structural biologist. I have a protein region that was predicted with low confidence (pLDDT), likely due to it being an Intrinsically Disordered Region (IDR) that folds upon binding.

**Biological Context:**
%s

**Region Details:**
- **Sequence:** %s
- **Length:** %d residues
- **Average pLDDT:** %.2f (Low confidence)

**Task:**
Based *strictly* on the biological context above, predict the secondary structure this region adopts when bound.
**IMPORTANT:** Do NOT let the low pLDDT score dissuade you. The context confirms it folds.
If the context says it forms a helix, you MUST predict a helix and generate distance constraints for it.

**Output Format:**
Please provide your answer in JSON format with the following keys:
- "secondary_structure_prediction": "Helix" | "Sheet" | "Loop" | "Disordered"
- "confidence": "High" | "Medium" | "Low"
- "reasoning": "Brief explanation..."
- "constraints": [
    {"residue_index_1": int, "residue_index_2": int, "distance_angstroms": float, "type": "distance"}
]
**Important:** "residue_index_1" and "residue_index_2" should be the 1-based index within the *provided sequence snippet* (e.g., 1 is the first residue of the snippet).
`, context, req.Sequence, len(req.Sequence), avg)
	return b.String()
}

// BuildContextPrompt renders the prompt used to recover the
// folding-upon-binding context of a whole protein from its name and
// accession.
func BuildContextPrompt(proteinName, accession string) string {
	return fmt.Sprintf(`You are an expert structural biologist preparing input for a structure refinement pipeline.
I will give you a protein name and its UniProt ID.
Your goal is to provide a **highly specific structural description** of its folding-upon-binding behavior.

**Instructions:**
1. Identify the specific domain or region that is disordered in isolation but folds upon binding.
2. Describe the **exact secondary structure** it adopts (e.g., "forms an amphipathic alpha-helix", "folds into a three-helix bundle", "forms a beta-hairpin").
3. Mention the binding partner and the specific interface if known.
4. **Crucial:** Be as precise as possible about the shape. General statements like "it becomes ordered" are not helpful. We need "it becomes a helix".

Protein: %s
UniProt ID: %s

Output JSON format:
{
    "protein_name": "Name of the protein",
    "binding_partner": "Name of the binding partner",
    "folding_mechanism": "Detailed description of the folding event",
    "context_summary": "A single, structurally rich sentence."
}
`, proteinName, accession)
}
