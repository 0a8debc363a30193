package vcf

import "strings"

// InfoCSQ is the INFO key VEP writes its consequence annotations under.
const InfoCSQ = "CSQ"

// Variant represents a single genomic variant from a VCF file.
type Variant struct {
	Chrom         string                 // Chromosome name (e.g., "12", "chr12")
	Pos           int64                  // 1-based genomic position
	ID            string                 // Variant identifier (e.g., rs ID)
	Ref           string                 // Reference allele
	Alt           string                 // Alternate allele(s), comma separated
	Qual          float64                // Quality score
	Filter        string                 // Filter status (PASS or filter name)
	Info          map[string]interface{} // INFO field key-value pairs
	SampleColumns string                 // FORMAT and sample columns, tab joined
}

// CSQ returns the raw VEP annotations attached to the variant, one entry per
// transcript/allele combination. Returns nil when the variant carries none.
func (v *Variant) CSQ() []string {
	raw, ok := v.Info[InfoCSQ].(string)
	if !ok || raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// IsPass returns true if the variant passed all filters.
func (v *Variant) IsPass() bool {
	return v.Filter == "PASS" || v.Filter == "."
}
