package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodcast/moodcast/pkg/logging"
)

func sine(freq float64, sampleRate int, seconds float64) []float64 {
	n := int(float64(sampleRate) * seconds)
	pcm := make([]float64, n)
	for i := range pcm {
		pcm[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return pcm
}

func TestExtractVectorShape(t *testing.T) {
	cfg := DefaultConfig()
	extractor := NewExtractor(cfg, logging.NewNopLogger())

	vector, err := extractor.Extract(sine(440, cfg.SampleRate, 1.0))
	require.NoError(t, err)
	require.Len(t, vector, VectorDim)

	centroidMean := vector[2*NumMFCC+2*NumChromaBins]
	assert.Greater(t, centroidMean, 0.0, "pure tone should have a positive centroid")

	zcrMean := vector[2*NumMFCC+2*NumChromaBins+2]
	assert.Greater(t, zcrMean, 0.0)
	assert.Less(t, zcrMean, 0.5, "a 440 Hz tone crosses zero rarely")

	for i, v := range vector {
		assert.Falsef(t, math.IsNaN(v) || math.IsInf(v, 0), "dimension %d is not finite", i)
	}
}

func TestExtractShortClipZeroPads(t *testing.T) {
	cfg := DefaultConfig()
	extractor := NewExtractor(cfg, logging.NewNopLogger())

	// Shorter than one STFT window
	vector, err := extractor.Extract(sine(440, cfg.SampleRate, 0.01))
	require.NoError(t, err)
	assert.Len(t, vector, VectorDim)
}

func TestExtractEmptySignal(t *testing.T) {
	extractor := NewExtractor(DefaultConfig(), logging.NewNopLogger())

	_, err := extractor.Extract(nil)
	assert.Error(t, err)
}

func TestAnalysisWindowCentersLongClips(t *testing.T) {
	cfg := Config{SampleRate: 100, WindowSize: 16, HopSize: 8, MaxWindowSeconds: 1}
	extractor := NewExtractor(cfg, logging.NewNopLogger())

	pcm := make([]float64, 300)
	for i := range pcm {
		pcm[i] = float64(i)
	}

	segment := extractor.analysisWindow(pcm)
	require.Len(t, segment, 100)
	assert.Equal(t, 100.0, segment[0], "crop should start a quarter of the way in")

	short := extractor.analysisWindow(pcm[:50])
	assert.Len(t, short, 50)
}

func TestFrameSignal(t *testing.T) {
	pcm := make([]float64, 100)

	frames := frameSignal(pcm, 32, 16)
	assert.Len(t, frames, 5)
	for _, frame := range frames {
		assert.Len(t, frame, 32)
	}

	padded := frameSignal(pcm[:10], 32, 16)
	require.Len(t, padded, 1)
	assert.Len(t, padded[0], 32)
}

func TestZeroCrossingRate(t *testing.T) {
	alternating := []float64{1, -1, 1, -1, 1}
	assert.InDelta(t, 1.0, zeroCrossingRate(alternating), 1e-9)

	constant := []float64{0.5, 0.5, 0.5}
	assert.InDelta(t, 0.0, zeroCrossingRate(constant), 1e-9)

	assert.Equal(t, 0.0, zeroCrossingRate([]float64{1}))
}
