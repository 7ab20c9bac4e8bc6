package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zpam-sms",
	Short: "ZPAM SMS - Naive Bayes spam filter for text messages",
	Long: `ZPAM SMS is a multinomial Naive Bayes spam filter for short text messages.
It trains on labelled SMS datasets like the UCI SMS Spam Collection and
classifies messages as spam or ham in microseconds.

Part of the ZPAM family - free, fast, and reliable.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ZPAM SMS - Naive Bayes Spam Filter")
		fmt.Println("Use 'zpam-sms --help' for usage information")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(configCmd)
}
