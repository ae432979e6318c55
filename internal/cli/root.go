package cli

import (
	"github.com/mgpai22/subcanvas/internal/config"
	"github.com/mgpai22/subcanvas/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "subcanvas",
	Short: "Overlay time-synced subtitles on video frames",
	Long: `Subcanvas plays a video through a headless player, looks up the subtitle
cue active at every frame and composites it onto the picture.

Subtitles are read from SRT, VTT, ASS/SSA, STL or TTML files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Config file (default ./"+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
