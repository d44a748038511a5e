package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marumaru-synth/marumaru/src/analyzer"
	"github.com/marumaru-synth/marumaru/src/wavfile"
	"golang.org/x/sync/errgroup"
)

// AnalyzeCmd ...
type AnalyzeCmd struct {
	Files        []string `arg:"" name:"files" type:"existingfile" help:"WAV recordings to analyze."`
	Out          string   `short:"o" type:"path" help:"Output directory (default: next to each input)."`
	CoreEnd      float64  `default:"0.2" help:"End of the Core section as a ratio of the table."`
	ReleaseStart float64  `default:"0.8" help:"Start of the Release section as a ratio of the table."`
	NoGate       bool     `help:"Skip the spectral noise gate."`
	Config       string   `short:"c" type:"existingfile" help:"Analyzer config JSON."`
	Jobs         int      `short:"j" default:"4" help:"Files analyzed in parallel."`
	Verbose      bool     `short:"v" help:"Print analyzer log lines."`
}

type fileReport struct {
	path    string
	out     string
	result  *analyzer.Result
	err     error
	elapsed time.Duration
}

// Run ...
func (c *AnalyzeCmd) Run() error {
	config := analyzer.DefaultConfig()
	if c.Config != "" {
		cfg, err := analyzer.LoadConfig(c.Config)
		if err != nil {
			return err
		}
		config = cfg
	}
	if c.NoGate {
		config.NoiseGate = false
	}
	var logOut io.Writer = io.Discard
	if c.Verbose {
		logOut = os.Stderr
	}
	an := analyzer.New(analyzer.WithConfig(config), analyzer.WithLogger(log.New(logOut, "", 0)))

	reports := analyzeFiles(an, c.Files, c.Out, c.CoreEnd, c.ReleaseStart, c.Jobs)
	failed := 0
	for _, r := range reports {
		fmt.Println(renderReport(r))
		if r.err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(reports))
	}
	return nil
}

// analyzeFiles keeps reports in input order.
func analyzeFiles(an *analyzer.Analyzer, files []string, outDir string, coreEnd, releaseStart float64, jobs int) []fileReport {
	if jobs < 1 {
		jobs = 1
	}
	reports := make([]fileReport, len(files))
	sem := make(chan struct{}, jobs)
	var g errgroup.Group
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			reports[i] = analyzeFile(an, path, outputPath(path, outDir), coreEnd, releaseStart)
			return nil
		})
	}
	g.Wait()
	return reports
}

func analyzeFile(an *analyzer.Analyzer, path, out string, coreEnd, releaseStart float64) fileReport {
	start := time.Now()
	r := fileReport{path: path, out: out}
	samples, sampleRate, err := wavfile.Read(path)
	if err != nil {
		r.err = err
		return r
	}
	result, err := an.Analyze(samples, sampleRate, coreEnd, releaseStart)
	if err != nil {
		r.err = err
		return r
	}
	r.result = result
	if err := result.Sections().Save(out); err != nil {
		r.err = fmt.Errorf("failed to save %s: %w", out, err)
	}
	r.elapsed = time.Since(start)
	return r
}

func outputPath(path, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".wt"
	if outDir == "" {
		return filepath.Join(filepath.Dir(path), base)
	}
	return filepath.Join(outDir, base)
}
