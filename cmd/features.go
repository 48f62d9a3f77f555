package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moodcast/moodcast/pkg/audio/decode"
	"github.com/moodcast/moodcast/pkg/audio/features"
	"github.com/moodcast/moodcast/pkg/logging"
)

var featuresRaw bool

// featuresCmd represents the features command
var featuresCmd = &cobra.Command{
	Use:   "features <audio-file>",
	Short: "Extract and print the feature vector for an audio file",
	Long: `Decode an audio file and print its aggregated feature vector.
Useful for debugging decode and extraction problems without touching the
model or the catalog.

Examples:
  # Print summary statistics
  moodcast features clip.wav

  # Dump the full vector as JSON
  moodcast features --raw clip.mp3`,
	Args: cobra.ExactArgs(1),
	RunE: runFeatures,
}

func init() {
	rootCmd.AddCommand(featuresCmd)

	featuresCmd.Flags().BoolVar(&featuresRaw, "raw", false, "print the full vector as JSON")
}

func runFeatures(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(config.LogLevel)
	featureCfg := features.Config{
		SampleRate:       config.Audio.SampleRate,
		WindowSize:       config.Audio.WindowSize,
		HopSize:          config.Audio.HopSize,
		MaxWindowSeconds: config.Audio.MaxWindowSeconds,
	}

	pcm, err := decode.DecodeFile(args[0], featureCfg.SampleRate)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	extractor := features.NewExtractor(featureCfg, logger)
	vector, err := extractor.Extract(pcm)
	if err != nil {
		return fmt.Errorf("feature extraction failed: %w", err)
	}

	if featuresRaw {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(vector)
	}

	fmt.Printf("file:        %s\n", args[0])
	fmt.Printf("samples:     %d @ %d Hz\n", len(pcm), featureCfg.SampleRate)
	fmt.Printf("dimensions:  %d\n", len(vector))
	fmt.Printf("mfcc mean:   %v\n", compact(vector[:features.NumMFCC]))
	fmt.Printf("chroma mean: %v\n", compact(vector[2*features.NumMFCC:2*features.NumMFCC+features.NumChromaBins]))
	fmt.Printf("centroid:    %.2f\n", vector[2*features.NumMFCC+2*features.NumChromaBins])
	fmt.Printf("zcr:         %.4f\n", vector[2*features.NumMFCC+2*features.NumChromaBins+2])
	return nil
}

func compact(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(int(v*100)) / 100
	}
	return out
}
