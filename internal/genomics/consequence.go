// Package genomics models the somatic alterations observed in a tumor sample
// and extracts them from pipeline outputs.
package genomics

// Sequence Ontology terms used by alterations and rule tables.
const (
	// Small variants (as reported by VEP)
	ConsequenceStopGained        = "stop_gained"
	ConsequenceFrameshiftVariant = "frameshift_variant"
	ConsequenceStopLost          = "stop_lost"
	ConsequenceStartLost         = "start_lost"
	ConsequenceSpliceAcceptor    = "splice_acceptor_variant"
	ConsequenceSpliceDonor       = "splice_donor_variant"
	ConsequenceMissenseVariant   = "missense_variant"
	ConsequenceInframeInsertion  = "inframe_insertion"
	ConsequenceInframeDeletion   = "inframe_deletion"
	ConsequenceSynonymousVariant = "synonymous_variant"
	ConsequenceIntronVariant     = "intron_variant"

	// Copy number events
	ConsequenceHomozygousLoss = "homozygous_loss"
	ConsequenceLOH            = "loss_of_heterozygosity"
	ConsequenceAmplification  = "amplification"
)

// CNV calls emitted by the copy number pipeline.
const (
	CNVCallHomozygousLoss = "HOMLOSS"
	CNVCallHetLossOrLOH   = "HETLOSS_or_LOH"
	CNVCallNoCall         = "NOCALL"
)

// cnvCallTerms maps reportable CNV calls to their Sequence Ontology term.
var cnvCallTerms = map[string]string{
	CNVCallHomozygousLoss: ConsequenceHomozygousLoss,
	CNVCallHetLossOrLOH:   ConsequenceLOH,
}
