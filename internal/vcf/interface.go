// Package vcf provides parsing of VEP-annotated VCF files.
package vcf

// VariantParser is the interface for parsers that read annotated variants.
type VariantParser interface {
	// Next reads the next variant.
	// Returns nil, nil when there are no more variants.
	Next() (*Variant, error)

	// CSQFields returns the VEP CSQ sub-field names declared in the header,
	// in declaration order.
	CSQFields() ([]string, error)

	// SampleNames returns the sample columns of the #CHROM header line.
	SampleNames() []string

	// LineNumber returns the current line number being processed.
	LineNumber() int
}
