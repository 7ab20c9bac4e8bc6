package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	statsModelPath string
	statsConfig    string
	statsTop       int
	statsToken     string
	statsVerbose   bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show model statistics and top tokens",
	Long: `Show statistics for the trained model: training counts, vocabulary
size, class priors and the most discriminative spam and ham tokens.

With --token the statistics for a single token are shown instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime(statsConfig, statsModelPath, statsVerbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		model, err := openModel(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		if statsToken != "" {
			tokenStats := model.TokenStats(statsToken)
			if tokenStats == nil {
				fmt.Printf("Token %q is not in the vocabulary\n", statsToken)
				return nil
			}
			fmt.Printf("Token: %s\n", tokenStats.Token)
			fmt.Printf("Spam count: %d\n", tokenStats.SpamCount)
			fmt.Printf("Ham count: %d\n", tokenStats.HamCount)
			fmt.Printf("P(token|spam): %.6g\n", tokenStats.SpamProb)
			fmt.Printf("P(token|ham): %.6g\n", tokenStats.HamProb)
			fmt.Printf("Spamminess: %.1f%%\n", tokenStats.Spamminess*100)
			return nil
		}

		info := model.Info()
		fmt.Printf("💾 Model: %s (trained %s)\n\n",
			modelLocation(&cfg.Model), info.TrainedAt.Format("2006-01-02 15:04:05"))

		model.PrintStats(os.Stdout, statsTop)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsModelPath, "model", "m", "", "Model file path (overrides config, forces file backend)")
	statsCmd.Flags().StringVarP(&statsConfig, "config", "c", "", "Configuration file path")
	statsCmd.Flags().IntVarP(&statsTop, "top", "n", 10, "Number of top tokens to show per class")
	statsCmd.Flags().StringVarP(&statsToken, "token", "t", "", "Show statistics for a single token")
	statsCmd.Flags().BoolVarP(&statsVerbose, "verbose", "v", false, "Verbose output")
}
