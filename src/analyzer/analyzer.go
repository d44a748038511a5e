package analyzer

import (
	"io"
	"log"
	"math"

	"golang.org/x/sync/errgroup"
)

// Analyzer runs the offline pipeline. It is safe to reuse for sequential calls.
type Analyzer struct {
	config   Config
	logger   *log.Logger
	detector PitchDetector
}

// Option ...
type Option func(*Analyzer)

// WithLogger sends diagnostics to logger. A nil logger discards them.
func WithLogger(logger *log.Logger) Option {
	return func(a *Analyzer) {
		if logger == nil {
			logger = log.New(io.Discard, "", 0)
		}
		a.logger = logger
	}
}

// WithConfig ...
func WithConfig(config Config) Option {
	return func(a *Analyzer) {
		a.config = config
	}
}

// WithPitchDetector replaces the default YIN detector.
func WithPitchDetector(detector PitchDetector) Option {
	return func(a *Analyzer) {
		a.detector = detector
	}
}

// New ...
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		config:   DefaultConfig(),
		logger:   log.New(io.Discard, "", 0),
		detector: NewYIN(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze converts a mono recording into a segmented wavetable.
// coreEndRatio and releaseStartRatio are clamped to [0, 1].
func (a *Analyzer) Analyze(audio []float64, sampleRate int, coreEndRatio, releaseStartRatio float64) (*Result, error) {
	if len(audio) == 0 {
		return nil, newError(KindInput, "Input audio is empty.")
	}
	if sampleRate <= 0 {
		return nil, newError(KindInput, "Sample rate must be positive.")
	}
	if math.IsNaN(coreEndRatio) || math.IsNaN(releaseStartRatio) {
		return nil, newError(KindInput, "Section ratios must be numbers.")
	}
	a.logger.Println("[INFO] Applying preprocessing...")
	processed, err := a.Preprocess(audio)
	if err != nil {
		return nil, err
	}
	a.logger.Println("[INFO] Estimating F0 curve...")
	f0Curve, confidence, err := a.EstimateF0(processed, sampleRate)
	if err != nil {
		return nil, err
	}
	periodicity := Periodicity(confidence)
	mode := SelectMode(periodicity)
	a.logger.Printf("[INFO] Periodicity = %.3f, mode selected: %s\n", periodicity, mode)

	var tables [][]float64
	switch mode {
	case ModeTime:
		tables, err = a.AnalyzeTimeDomain(processed, sampleRate, f0Curve)
	case ModeHybrid:
		tables, err = a.AnalyzeHybrid(processed, sampleRate, f0Curve)
	default:
		tables, err = a.AnalyzeFreqDomain(processed)
	}
	if err != nil {
		return nil, err
	}
	tables = a.ApplyPitchSync(tables, f0Curve)
	if len(tables) == 0 || len(tables[0]) == 0 {
		return nil, newError(KindSynthesisEmpty, "Final table is empty. Cannot split sections.")
	}

	var segments Segments
	var quality QualityMetrics
	var g errgroup.Group
	g.Go(func() error {
		segments = Segment(tables[0], audio, coreEndRatio, releaseStartRatio)
		return nil
	})
	g.Go(func() error {
		quality = InspectQuality(audio, tables, f0Curve, sampleRate)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	a.logger.Printf("[INFO] Quality: correlation=%.3f residual=%.3f\n", quality.Correlation, quality.SpectralResidual)

	return &Result{
		F0Curve:     f0Curve,
		Confidence:  confidence,
		Tables:      tables,
		CoreWave:    segments.CoreWave,
		LoopWave:    segments.LoopWave,
		ReleaseWave: segments.ReleaseWave,
		CoreGain:    segments.CoreGain,
		LoopGain:    segments.LoopGain,
		ReleaseGain: segments.ReleaseGain,
		Quality:     quality,
		Periodicity: periodicity,
		Mode:        mode,
	}, nil
}
