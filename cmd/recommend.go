package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moodcast/moodcast/internal/app"
	"github.com/moodcast/moodcast/internal/recommend"
)

var (
	// Recommend command flags
	recommendMood     string
	recommendLanguage string
	recommendGenres   []string
	recommendArtists  []string
	recommendTracks   []string
	recommendKeywords []string
	recommendAudio    string
	recommendLimit    int
)

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Search the catalog for mood-matched tracks",
	Long: `Expand a mood and optional hints into catalog search queries, rank
the merged results and print them as JSON.

Either --mood or --audio must be given. With --audio the mood and language
are inferred from the clip first; explicit hints still win.

Examples:
  # Recommend from an explicit mood
  moodcast recommend --mood "happy energetic" --language en

  # Refine with keywords and genres
  moodcast recommend --mood relaxed --keywords lofi,chill --genres jazz

  # Run the full pipeline from an audio clip
  moodcast recommend --audio clip.mp3 --limit 10`,
	Args: func(cmd *cobra.Command, args []string) error {
		if recommendMood == "" && recommendAudio == "" {
			return fmt.Errorf("requires --mood or --audio")
		}
		return nil
	},
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVar(&recommendMood, "mood", "", "mood text to search around")
	recommendCmd.Flags().StringVar(&recommendLanguage, "language", "", "language code (ta, te, hi, ml, kn, en, es, ko)")
	recommendCmd.Flags().StringSliceVar(&recommendGenres, "genres", nil, "genre hints")
	recommendCmd.Flags().StringSliceVar(&recommendArtists, "artists", nil, "artist name hints")
	recommendCmd.Flags().StringSliceVar(&recommendTracks, "tracks", nil, "track name hints")
	recommendCmd.Flags().StringSliceVar(&recommendKeywords, "keywords", nil, "free-text keywords")
	recommendCmd.Flags().StringVar(&recommendAudio, "audio", "", "audio file to infer mood and language from")
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 0, "maximum ranked results (default 30)")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.New(config)
	if err != nil {
		return err
	}

	hints := recommend.SearchHints{
		Mood:     recommendMood,
		Language: recommendLanguage,
		Genres:   recommendGenres,
		Artists:  recommendArtists,
		Tracks:   recommendTracks,
		Keywords: recommendKeywords,
	}

	ctx := context.Background()
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if recommendAudio != "" {
		result, err := application.Pipeline().RecommendFromAudio(ctx, recommendAudio, hints, recommendLimit)
		if err != nil {
			return fmt.Errorf("recommendation failed: %w", err)
		}
		return encoder.Encode(result)
	}

	result, err := application.Pipeline().Recommend(ctx, hints, recommendLimit)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}
	return encoder.Encode(result)
}
