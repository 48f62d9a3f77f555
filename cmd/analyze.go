package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moodcast/moodcast/internal/app"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <audio-file>",
	Short: "Estimate valence, arousal and mood for an audio file",
	Long: `Decode an audio file, extract spectral features and run the
valence/arousal regressors to produce a mood label.

Examples:
  # Analyze a local clip
  moodcast analyze clip.mp3

  # Point at a different model directory
  moodcast analyze --model-dir ./artifacts clip.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.New(config)
	if err != nil {
		return err
	}

	inference, err := application.Pipeline().Analyze(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(inference)
}
