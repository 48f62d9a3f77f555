// Package features computes the fixed-length spectral feature vector that
// the mood regression models consume. The vector layout is frozen: the
// models and their scaler were fit on exactly this ordering.
package features

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-sonar/algorithms/chroma"
	"github.com/RyanBlaney/sonido-sonar/algorithms/spectral"
	"github.com/RyanBlaney/sonido-sonar/fingerprint/analyzers"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"

	"github.com/moodcast/moodcast/pkg/logging"
)

// Vector layout: [mfcc-mean(20), mfcc-std(20), chroma-mean(12), chroma-std(12),
// centroid-mean(1), centroid-std(1), zcr-mean(1), zcr-std(1)]
const (
	NumMFCC       = 20
	NumChromaBins = 12
	VectorDim     = 2*NumMFCC + 2*NumChromaBins + 4
)

// Config holds feature extraction parameters
type Config struct {
	SampleRate       int     // expected PCM sample rate
	WindowSize       int     // STFT window size in samples
	HopSize          int     // STFT hop size in samples
	MaxWindowSeconds float64 // analysis window cap; longer clips are center-cropped
}

// DefaultConfig returns the parameters the shipped models were trained with
func DefaultConfig() Config {
	return Config{
		SampleRate:       22050,
		WindowSize:       2048,
		HopSize:          512,
		MaxWindowSeconds: 10.0,
	}
}

// Extractor turns mono PCM into a VectorDim-length feature vector
type Extractor struct {
	cfg    Config
	logger logging.Logger

	spectralCentroid *spectral.SpectralCentroid
	mfcc             *spectral.MFCC
	chromaSTFT       *chroma.ChromaSTFT
	windowGenerator  *analyzers.WindowGenerator
}

// NewExtractor creates a feature extractor
func NewExtractor(cfg Config, logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	mfccParams := spectral.MFCCParams{
		NumCoefficients: NumMFCC,
		NumMelFilters:   40,
		LowFreq:         0,
		HighFreq:        float64(cfg.SampleRate) / 2,
		UseLiftering:    false,
		LifterCoeff:     22,
	}

	return &Extractor{
		cfg:    cfg,
		logger: logger.WithFields(logging.Fields{"component": "feature_extractor"}),

		spectralCentroid: spectral.NewSpectralCentroid(cfg.SampleRate),
		mfcc:             spectral.NewMFCCWithParams(cfg.SampleRate, mfccParams),
		chromaSTFT:       chroma.NewChromaSTFTDefault(cfg.SampleRate),
		windowGenerator:  analyzers.NewWindowGenerator(),
	}
}

// Extract computes the feature vector for a mono PCM signal.
// Clips longer than MaxWindowSeconds are cropped to a centered window of that
// length before analysis; shorter clips are used whole.
func (e *Extractor) Extract(pcm []float64) ([]float64, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("feature extraction: empty signal")
	}

	segment := e.analysisWindow(pcm)

	e.logger.Debug("Extracting features", logging.Fields{
		"total_samples":    len(pcm),
		"analyzed_samples": len(segment),
		"window_size":      e.cfg.WindowSize,
		"hop_size":         e.cfg.HopSize,
	})

	window, err := e.windowGenerator.Generate(&analyzers.WindowConfig{
		Type:      analyzers.WindowHann,
		Size:      e.cfg.WindowSize,
		Normalize: true,
		Symmetric: true,
	})
	if err != nil {
		return nil, fmt.Errorf("feature extraction: window generation: %w", err)
	}

	frames := frameSignal(segment, e.cfg.WindowSize, e.cfg.HopSize)
	numFrames := len(frames)

	mfccFrames := make([][]float64, numFrames)
	chromaFrames := make([][]float64, numFrames)
	centroids := make([]float64, numFrames)
	zcrs := make([]float64, numFrames)

	for i, frame := range frames {
		magnitude := magnitudeSpectrum(frame, window.Coefficients)

		centroids[i] = e.spectralCentroid.Compute(magnitude)
		zcrs[i] = zeroCrossingRate(frame)

		power := make([]float64, len(magnitude))
		for j, mag := range magnitude {
			power[j] = mag * mag
		}
		mfccResult, err := e.mfcc.Compute(power)
		if err != nil {
			return nil, fmt.Errorf("feature extraction: MFCC at frame %d: %w", i, err)
		}
		mfccFrames[i] = coefficientRow(mfccResult.MFCC, NumMFCC)

		chromaResult, err := e.chromaSTFT.ComputeChroma(frame, e.cfg.WindowSize, e.cfg.HopSize, window)
		if err != nil {
			return nil, fmt.Errorf("feature extraction: chroma at frame %d: %w", i, err)
		}
		if len(chromaResult) > 0 {
			chromaFrames[i] = coefficientRow(chromaResult[0], NumChromaBins)
		} else {
			chromaFrames[i] = make([]float64, NumChromaBins)
		}
	}

	vector := make([]float64, 0, VectorDim)
	vector = appendBandStats(vector, mfccFrames, NumMFCC)
	vector = appendBandStats(vector, chromaFrames, NumChromaBins)
	vector = appendScalarStats(vector, centroids)
	vector = appendScalarStats(vector, zcrs)

	if len(vector) != VectorDim {
		return nil, fmt.Errorf("feature extraction: produced %d dimensions, want %d", len(vector), VectorDim)
	}
	return vector, nil
}

// analysisWindow applies the centered-window crop policy
func (e *Extractor) analysisWindow(pcm []float64) []float64 {
	maxSamples := int(e.cfg.MaxWindowSeconds * float64(e.cfg.SampleRate))
	if maxSamples <= 0 || len(pcm) <= maxSamples {
		return pcm
	}
	offset := (len(pcm) - maxSamples) / 2
	return pcm[offset : offset+maxSamples]
}

// frameSignal splits PCM into windowSize frames advancing by hopSize.
// A signal shorter than one window is zero-padded into a single frame.
func frameSignal(pcm []float64, windowSize, hopSize int) [][]float64 {
	if len(pcm) < windowSize {
		frame := make([]float64, windowSize)
		copy(frame, pcm)
		return [][]float64{frame}
	}

	numFrames := 1 + (len(pcm)-windowSize)/hopSize
	frames := make([][]float64, numFrames)
	for i := range numFrames {
		start := i * hopSize
		frames[i] = pcm[start : start+windowSize]
	}
	return frames
}

// magnitudeSpectrum windows a frame and returns the positive-frequency
// magnitude spectrum
func magnitudeSpectrum(frame, window []float64) []float64 {
	windowed := make([]float64, len(frame))
	for i := range frame {
		w := 1.0
		if i < len(window) {
			w = window[i]
		}
		windowed[i] = frame[i] * w
	}

	spectrum := fft.FFTReal(windowed)
	freqBins := len(spectrum)/2 + 1
	magnitude := make([]float64, freqBins)
	for i := range freqBins {
		magnitude[i] = cmplx.Abs(spectrum[i])
	}
	return magnitude
}

// zeroCrossingRate computes the fraction of adjacent sample pairs whose sign
// differs
func zeroCrossingRate(frame []float64) float64 {
	if len(frame) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame)-1)
}

// coefficientRow clips or zero-pads a coefficient slice to the expected width
func coefficientRow(coeffs []float64, width int) []float64 {
	row := make([]float64, width)
	copy(row, coeffs)
	return row
}

// appendBandStats appends per-band means followed by per-band population
// standard deviations
func appendBandStats(vector []float64, frames [][]float64, width int) []float64 {
	means := make([]float64, width)
	stds := make([]float64, width)
	band := make([]float64, len(frames))

	for b := range width {
		for i, frame := range frames {
			band[i] = frame[b]
		}
		means[b] = stat.Mean(band, nil)
		stds[b] = popStdDev(band)
	}

	vector = append(vector, means...)
	return append(vector, stds...)
}

// appendScalarStats appends the mean and population standard deviation of a
// scalar descriptor
func appendScalarStats(vector []float64, values []float64) []float64 {
	return append(vector, stat.Mean(values, nil), popStdDev(values))
}

func popStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return math.Sqrt(stat.PopVariance(values, nil))
}
