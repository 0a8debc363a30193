package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clinseq/reportgen/internal/archive"
	"github.com/clinseq/reportgen/internal/classify"
	"github.com/clinseq/reportgen/internal/genomics"
	"github.com/clinseq/reportgen/internal/report"
	"github.com/clinseq/reportgen/internal/rules"
)

// compileOptions are the inputs of one compile run. Empty paths are skipped.
type compileOptions struct {
	vcf             string
	cnvs            []string
	msi             string
	crcTable        string
	alasccaTable    string
	coverageQC      string
	purityQC        string
	contaminationQC string
	sample          string
	archivePath     string
	output          string
}

// compileInputs holds everything read from disk before any rule runs.
type compileInputs struct {
	genes         map[string]*genomics.AlteredGene
	msi           *genomics.MSIStatus
	crcTable      *classify.Table
	alasccaTable  *classify.Table
	coverage      report.QCCall
	purity        report.QCCall
	contamination report.QCCall
}

func newCompileCmd() *cobra.Command {
	var opts compileOptions

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile report features for one sample",
		Long: `Compile the genomic report features of one sample as JSON.

Each rule runs only when its inputs are given: simple somatic mutations need a
CRC mutation table, the ALASCCA class needs an ALASCCA mutation table (both
also need --vcf; pass an empty VEP file for a sample without variants), MSI
status needs an MSI file and purity needs a purity QC file. Caveats are applied
in the order coverage, purity, contamination.`,
		Example: `  reportgen compile --vcf sample.vep.vcf --cnv PTEN.json --msi msi.txt \
    --crc-rules crc.xlsx --alascca-rules alascca.xlsx \
    --coverage-qc coverage.json --purity-qc purity.json --contamination-qc contamination.json
  reportgen compile --vcf sample.vep.vcf --sample S1 --archive reports.duckdb -o report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.crcTable == "" {
				opts.crcTable = viper.GetString(keyCRCTable)
			}
			if opts.alasccaTable == "" {
				opts.alasccaTable = viper.GetString(keyAlasccaTable)
			}
			if opts.archivePath == "" {
				opts.archivePath = viper.GetString(keyArchivePath)
			}
			return runCompile(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.vcf, "vcf", "", "VEP-annotated VCF with somatic mutations")
	f.StringArrayVar(&opts.cnvs, "cnv", nil, "Per-gene copy number call JSON (repeatable)")
	f.StringVar(&opts.msi, "msi", "", "MSI status file")
	f.StringVar(&opts.crcTable, "crc-rules", "", "CRC mutation table xlsx (default: config "+keyCRCTable+")")
	f.StringVar(&opts.alasccaTable, "alascca-rules", "", "ALASCCA mutation table xlsx (default: config "+keyAlasccaTable+")")
	f.StringVar(&opts.coverageQC, "coverage-qc", "", "Coverage QC call JSON")
	f.StringVar(&opts.purityQC, "purity-qc", "", "Purity QC call JSON")
	f.StringVar(&opts.contaminationQC, "contamination-qc", "", "Contamination QC call JSON")
	f.StringVar(&opts.sample, "sample", "", "Sample ID, required for archiving")
	f.StringVar(&opts.archivePath, "archive", "", "DuckDB report archive (default: config "+keyArchivePath+")")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runCompile(stdout io.Writer, opts compileOptions) error {
	if opts.archivePath != "" && opts.sample == "" {
		return errors.New("--sample is required when archiving")
	}
	if opts.vcf == "" && (opts.crcTable != "" || opts.alasccaTable != "") {
		return errors.New("--vcf is required with mutation tables")
	}
	thresholds, err := msiThresholds()
	if err != nil {
		return err
	}

	in, err := loadInputs(opts)
	if err != nil {
		return err
	}

	var ruleSet []report.Rule
	if in.crcTable != nil {
		ruleSet = append(ruleSet, rules.NewSimpleSomaticMutationsRule(in.crcTable, in.genes))
	}
	if in.alasccaTable != nil {
		ruleSet = append(ruleSet, rules.NewAlasccaClassRule(in.alasccaTable, in.genes))
	}
	if in.msi != nil {
		ruleSet = append(ruleSet, rules.NewMsiStatusRule(in.msi, thresholds))
	}
	if in.purity != "" {
		purityRule, err := rules.PurityRuleFromQCCall(in.purity)
		if err != nil {
			return fmt.Errorf("%s: %w", opts.purityQC, err)
		}
		ruleSet = append(ruleSet, purityRule)
	}

	compiler := report.NewCompiler(ruleSet...)
	compiler.SetLogger(logger)
	if err := compiler.ExtractFeatures(); err != nil {
		return err
	}

	caveats, err := buildCaveats(in)
	if err != nil {
		return err
	}
	compiler.ApplyCaveats(caveats...)

	dict := compiler.ToDict()
	if err := writeReport(stdout, opts.output, dict); err != nil {
		return err
	}

	if opts.archivePath != "" {
		return archiveRun(opts, dict, caveats)
	}
	return nil
}

// loadInputs reads all input files concurrently. The alteration model is
// built by a single goroutine.
func loadInputs(opts compileOptions) (*compileInputs, error) {
	in := &compileInputs{}
	var g errgroup.Group

	g.Go(func() error {
		ext := genomics.NewExtractor()
		ext.SetLogger(logger)
		if opts.vcf != "" {
			if err := ext.ExtractMutationsFile(opts.vcf); err != nil {
				return fmt.Errorf("%s: %w", opts.vcf, err)
			}
		}
		for _, path := range opts.cnvs {
			if err := extractCNVFile(ext, path); err != nil {
				return err
			}
		}
		in.genes = ext.Genes()
		return nil
	})

	if opts.msi != "" {
		g.Go(func() error {
			f, err := os.Open(opts.msi)
			if err != nil {
				return fmt.Errorf("open msi file: %w", err)
			}
			defer f.Close()
			if in.msi, err = genomics.ParseMSIStatus(f); err != nil {
				return fmt.Errorf("%s: %w", opts.msi, err)
			}
			return nil
		})
	}

	for _, t := range []struct {
		path string
		dst  **classify.Table
	}{
		{opts.crcTable, &in.crcTable},
		{opts.alasccaTable, &in.alasccaTable},
	} {
		if t.path == "" {
			continue
		}
		g.Go(func() error {
			tbl, err := classify.LoadTable(t.path)
			if err != nil {
				return err
			}
			logger.Debug("loaded mutation table",
				zap.String("path", t.path),
				zap.Int("genes", len(tbl.Symbols())),
				zap.Int("classifications", tbl.Len()))
			*t.dst = tbl
			return nil
		})
	}

	for _, q := range []struct {
		path string
		dst  *report.QCCall
	}{
		{opts.coverageQC, &in.coverage},
		{opts.purityQC, &in.purity},
		{opts.contaminationQC, &in.contamination},
	} {
		if q.path == "" {
			continue
		}
		g.Go(func() error {
			call, err := report.ReadQCCallFile(q.path)
			if err != nil {
				return err
			}
			*q.dst = call
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func extractCNVFile(ext *genomics.Extractor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open cnv file: %w", err)
	}
	defer f.Close()
	if err := ext.ExtractCNVs(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// buildCaveats derives caveats from the QC calls that were given, in
// coverage, purity, contamination order.
func buildCaveats(in *compileInputs) ([]report.Caveat, error) {
	var caveats []report.Caveat
	for _, q := range []struct {
		call report.QCCall
		typ  report.CaveatType
	}{
		{in.coverage, report.CoverageCaveat},
		{in.purity, report.PurityCaveat},
		{in.contamination, report.ContaminationCaveat},
	} {
		if q.call == "" {
			continue
		}
		c, err := report.NewCaveat(q.typ, q.call)
		if err != nil {
			return nil, err
		}
		caveats = append(caveats, c)
	}
	return caveats, nil
}

// writeReport writes dict as indented JSON to path, or stdout if path is empty.
func writeReport(stdout io.Writer, path string, dict map[string]any) error {
	out, err := json.MarshalIndent(dict, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	out = append(out, '\n')

	if path == "" {
		_, err = stdout.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info("wrote report", zap.String("path", path))
	return nil
}

func archiveRun(opts compileOptions, dict map[string]any, caveats []report.Caveat) error {
	var inputs []archive.Input
	roles := []struct {
		role  string
		paths []string
	}{
		{"vcf", []string{opts.vcf}},
		{"cnv", opts.cnvs},
		{"msi", []string{opts.msi}},
		{"crc_rules", []string{opts.crcTable}},
		{"alascca_rules", []string{opts.alasccaTable}},
		{"coverage_qc", []string{opts.coverageQC}},
		{"purity_qc", []string{opts.purityQC}},
		{"contamination_qc", []string{opts.contaminationQC}},
	}
	for _, r := range roles {
		for _, p := range r.paths {
			if p == "" {
				continue
			}
			in, err := archive.NewInput(r.role, p)
			if err != nil {
				return fmt.Errorf("fingerprint input: %w", err)
			}
			inputs = append(inputs, in)
		}
	}

	store, err := archive.Open(opts.archivePath)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.SaveRun(opts.sample, dict, caveats, inputs)
	if err != nil {
		return err
	}
	logger.Info("archived report",
		zap.String("sample", run.SampleID),
		zap.String("run_id", run.ID),
		zap.String("archive", opts.archivePath))
	return nil
}
