package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zpam/sms-filter/pkg/classifier"
)

var (
	classifyModelPath string
	classifyConfig    string
	classifyLogSpace  bool
	classifyExplain   bool
	classifyVerbose   bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify [message...]",
	Short: "Classify a message as spam or ham",
	Long: `Classify one SMS message as spam or ham using the trained model.

The message is taken from the command line arguments. With no arguments,
messages are read from stdin, one per line, and classified in bulk:

  echo "free prize, claim now" | zpam-sms classify
  zpam-sms classify "see you at lunch?"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime(classifyConfig, classifyModelPath, classifyVerbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if classifyLogSpace {
			cfg.Classifier.LogSpace = true
		}

		model, err := openModel(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			return classifyStdin(model, cfg.Classifier.LogSpace)
		}

		return classifyMessage(model, strings.Join(args, " "), cfg.Classifier.LogSpace)
	},
}

func classifyMessage(model *classifier.Model, text string, logSpace bool) error {
	start := time.Now()
	var prediction classifier.Prediction
	if logSpace {
		prediction = model.ClassifyLog(text)
	} else {
		prediction = model.Classify(text)
	}
	duration := time.Since(start)

	verdict := "HAM (Clean)"
	if prediction.Label == classifier.Spam {
		verdict = "SPAM"
	}
	mode := "multiplicative"
	if prediction.LogSpace {
		mode = "log-space"
	}

	fmt.Printf("ZPAM SMS Results:\n")
	fmt.Printf("Message: %s\n", text)
	fmt.Printf("Classification: %s\n", verdict)
	fmt.Printf("Scores (%s): spam=%g ham=%g\n", mode, prediction.SpamScore, prediction.HamScore)
	fmt.Printf("Processing time: %.1fµs\n", float64(duration.Nanoseconds())/1e3)

	if prediction.Degenerate {
		fmt.Printf("⚠️  Both scores underflowed to zero; defaulted to ham. Retry with --log-space.\n")
	}

	if classifyExplain {
		fmt.Printf("\n")
		explainTokens(model, text)
	}

	return nil
}

// classifyStdin reads one message per line and prints "label<TAB>text",
// mirroring the dataset format so output can be piped back in.
func classifyStdin(model *classifier.Model, logSpace bool) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var total, spam, degenerate int
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		var prediction classifier.Prediction
		if logSpace {
			prediction = model.ClassifyLog(line)
		} else {
			prediction = model.Classify(line)
		}

		total++
		if prediction.Label == classifier.Spam {
			spam++
		}
		if prediction.Degenerate {
			degenerate++
		}
		fmt.Printf("%s\t%s\n", prediction.Label, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stdin: %v", err)
	}

	fmt.Fprintf(os.Stderr, "📊 Classified %d messages: %d spam, %d ham\n", total, spam, total-spam)
	if degenerate > 0 {
		fmt.Fprintf(os.Stderr, "⚠️  %d messages underflowed to zero scores; consider --log-space\n", degenerate)
	}
	return nil
}

// explainTokens prints the per-token statistics behind a verdict.
func explainTokens(model *classifier.Model, text string) {
	tokens := classifier.Tokenize(text)
	if len(tokens) == 0 {
		fmt.Printf("No tokens in message\n")
		return
	}

	fmt.Printf("Token breakdown:\n")
	fmt.Printf("  %-20s %10s %10s %12s\n", "TOKEN", "SPAM", "HAM", "SPAMMINESS")
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		if seen[token] {
			continue
		}
		seen[token] = true

		stats := model.TokenStats(token)
		if stats == nil {
			fmt.Printf("  %-20s %10s %10s %12s\n", token, "-", "-", "(not in vocabulary)")
			continue
		}
		fmt.Printf("  %-20s %10d %10d %11.1f%%\n",
			stats.Token, stats.SpamCount, stats.HamCount, stats.Spamminess*100)
	}
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyModelPath, "model", "m", "", "Model file path (overrides config, forces file backend)")
	classifyCmd.Flags().StringVarP(&classifyConfig, "config", "c", "", "Configuration file path")
	classifyCmd.Flags().BoolVar(&classifyLogSpace, "log-space", false, "Score in log-space (rescues very long messages from underflow)")
	classifyCmd.Flags().BoolVarP(&classifyExplain, "explain", "e", false, "Show per-token statistics behind the verdict")
	classifyCmd.Flags().BoolVarP(&classifyVerbose, "verbose", "v", false, "Verbose output")
}
