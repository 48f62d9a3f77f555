// Package decode turns uploaded audio files into mono float64 PCM at a
// fixed sample rate, which is the only audio representation the feature
// extraction pipeline understands.
package decode

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// DefaultSampleRate is the rate the mood models were trained at.
const DefaultSampleRate = 22050

// DecodeFile decodes a WAV or MP3 file into mono PCM at targetRate.
// Unreadable or empty audio is a fatal input error.
func DecodeFile(path string, targetRate int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewDecodeError(path, ErrCodeDecoding, "failed to open audio file", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return DecodeWAV(f, path, targetRate)
	case ".mp3":
		return DecodeMP3(f, path, targetRate)
	default:
		// Sniff: try WAV first (cheap header check), then MP3
		if pcm, err := DecodeWAV(f, path, targetRate); err == nil {
			return pcm, nil
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, NewDecodeError(path, ErrCodeDecoding, "failed to rewind audio file", err)
		}
		if pcm, err := DecodeMP3(f, path, targetRate); err == nil {
			return pcm, nil
		}
		return nil, NewDecodeError(path, ErrCodeUnsupported, "unsupported audio format, expected WAV or MP3", nil)
	}
}

// DecodeWAV decodes a RIFF/WAVE stream into mono PCM at targetRate.
func DecodeWAV(r io.ReadSeeker, path string, targetRate int) ([]float64, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, NewDecodeError(path, ErrCodeInvalidFormat, "not a valid WAV file", nil)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, NewDecodeError(path, ErrCodeDecoding, "failed to read WAV samples", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, NewDecodeError(path, ErrCodeEmptyAudio, "WAV file contains no samples", nil)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	// Normalize integer samples to [-1, 1]
	scale := math.Pow(2, float64(dec.BitDepth)-1)
	if scale == 0 {
		scale = 32768
	}
	samples := make([]float64, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float64(s) / scale
	}

	mono := downmix(samples, channels)
	return Resample(mono, buf.Format.SampleRate, targetRate), nil
}

// DecodeMP3 decodes an MP3 stream into mono PCM at targetRate.
// go-mp3 always emits 16-bit little-endian stereo.
func DecodeMP3(r io.Reader, path string, targetRate int) ([]float64, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, NewDecodeError(path, ErrCodeDecoding, "failed to open MP3 stream", err)
	}

	var samples []float64
	buf := make([]byte, 8192)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			for i := 0; i+3 < n; i += 4 {
				left := int16(buf[i]) | int16(buf[i+1])<<8
				right := int16(buf[i+2]) | int16(buf[i+3])<<8
				samples = append(samples, (float64(left)+float64(right))/2/32768.0)
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, NewDecodeError(path, ErrCodeDecoding, "failed to read MP3 samples", err)
		}
	}

	if len(samples) == 0 {
		return nil, NewDecodeError(path, ErrCodeEmptyAudio, "MP3 file contains no samples", nil)
	}
	return Resample(samples, dec.SampleRate(), targetRate), nil
}

// downmix averages interleaved channels into a mono signal
func downmix(samples []float64, channels int) []float64 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	mono := make([]float64, frames)
	for i := range frames {
		var sum float64
		for c := range channels {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}

// Resample converts PCM between sample rates using linear interpolation.
// Good enough for feature extraction; this is not a playback path.
func Resample(samples []float64, fromRate, toRate int) []float64 {
	if fromRate == toRate || fromRate <= 0 || toRate <= 0 || len(samples) == 0 {
		return samples
	}

	ratio := float64(fromRate) / float64(toRate)
	outLen := int(float64(len(samples)) / ratio)
	if outLen < 1 {
		outLen = 1
	}

	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
	}
	return out
}
