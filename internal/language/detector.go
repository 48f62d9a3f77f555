// Package language identifies the spoken language of an audio clip by
// delegating to an external whisper inference server. Detection is a
// best-effort signal: failures degrade to an absent estimate and never
// abort the pipeline.
package language

import (
	"context"
)

// Estimate is the detector output. Code may be empty when detection failed
// or the server is unsure.
type Estimate struct {
	Code       string  `json:"language"`
	Confidence float64 `json:"language_confidence"`
}

// Absent reports whether no language was detected
func (e Estimate) Absent() bool {
	return e.Code == ""
}

// Detector resolves the spoken language of an audio file
type Detector interface {
	Detect(ctx context.Context, audioPath string) (Estimate, error)
}

// NoopDetector always reports an absent language. Used when no whisper
// server is configured.
type NoopDetector struct{}

func (NoopDetector) Detect(ctx context.Context, audioPath string) (Estimate, error) {
	return Estimate{}, nil
}
