package cmd

import (
	"github.com/spf13/cobra"
)

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit <file-or-glob>",
	Short: "Process local PDF or image files into notes",
	Long: `Submit one or more source documents for processing. The argument may be
a single file or a glob pattern; matched PDFs and images are mirrored into
the raw directory and run through the extraction pipeline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger()
		defer logger.Sync()

		pipeline, err := buildPipeline(cfg, logger)
		if err != nil {
			return err
		}

		paths, err := pipeline.SubmitFiles(cmd.Context(), args[0], cfg.RawDir)
		if err != nil {
			return err
		}
		logger.Infow("done", "notes", len(paths))
		for _, path := range paths {
			cmd.Println(path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
}
