package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zpam/sms-filter/pkg/classifier"
	"github.com/zpam/sms-filter/pkg/dataset"
	"github.com/zpam/sms-filter/pkg/evaluation"
)

var (
	trainInput     string
	trainFormat    string
	trainAlpha     float64
	trainModelPath string
	trainConfig    string
	trainHoldout   float64
	trainSeed      int64
	trainVerbose   bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the Naive Bayes model on a labelled dataset",
	Long: `Train the multinomial Naive Bayes model on a labelled SMS dataset.

The dataset is a TSV file with one message per line ("label<TAB>text",
labels "spam" or "ham") or a CSV file with label and text columns. The
trained model is saved to the configured model store.

With --holdout a fraction of the dataset is used for training and the
rest is evaluated after training so you get an accuracy report for free.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if trainInput == "" {
			return fmt.Errorf("--input dataset file is required")
		}

		cfg, logger, err := loadRuntime(trainConfig, trainModelPath, trainVerbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cmd.Flags().Changed("alpha") {
			cfg.Classifier.Alpha = trainAlpha
		}
		if cmd.Flags().Changed("seed") {
			cfg.Dataset.Seed = trainSeed
		}

		format, err := dataset.ParseFormat(trainFormat)
		if err != nil {
			return err
		}

		fmt.Printf("🧠 ZPAM SMS Training\n")
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("📁 Dataset: %s\n", trainInput)
		fmt.Printf("💾 Model: %s\n", modelLocation(&cfg.Model))
		fmt.Printf("🧮 Smoothing alpha: %g\n", cfg.Classifier.Alpha)
		if trainHoldout > 0 {
			fmt.Printf("✂️  Holdout split: %.0f%% train / %.0f%% test (seed %d)\n",
				trainHoldout*100, (1-trainHoldout)*100, cfg.Dataset.Seed)
		}
		fmt.Printf("\n")

		docs, err := dataset.Load(trainInput, format)
		if err != nil {
			return fmt.Errorf("failed to load dataset: %v", err)
		}

		stats := dataset.Summarize(docs)
		fmt.Printf("📊 Loaded %d messages (%d spam, %d ham)\n", stats.Total, stats.Spam, stats.Ham)

		var holdout []classifier.Document
		if trainHoldout > 0 {
			docs, holdout, err = dataset.Split(docs, trainHoldout, cfg.Dataset.Seed)
			if err != nil {
				return err
			}
			fmt.Printf("✂️  Training on %d messages, holding out %d\n", len(docs), len(holdout))
		}

		start := time.Now()
		model, err := classifier.Train(docs, classifier.WithAlpha(cfg.Classifier.Alpha))
		if err != nil {
			return fmt.Errorf("failed to train model: %v", err)
		}
		duration := time.Since(start)

		ctx := cmd.Context()
		if err := saveModel(ctx, cfg, logger, model); err != nil {
			return err
		}

		fmt.Printf("\n🎉 Training Complete!\n")
		fmt.Printf("📊 Messages processed: %d\n", len(docs))
		fmt.Printf("⏱️  Time taken: %v\n", duration)
		fmt.Printf("📈 Rate: %.0f messages/second\n", float64(len(docs))/duration.Seconds())
		fmt.Printf("💾 Model saved to: %s\n", modelLocation(&cfg.Model))

		fmt.Printf("\n")
		model.PrintStats(os.Stdout, 5)

		if len(holdout) > 0 {
			result, err := evaluation.Evaluate(ctx, model, holdout, evaluation.Options{
				Workers:  cfg.Classifier.Workers,
				LogSpace: cfg.Classifier.LogSpace,
			})
			if err != nil {
				return fmt.Errorf("failed to evaluate holdout set: %v", err)
			}
			fmt.Printf("\n")
			evaluation.RenderReport(os.Stdout, result)
		}

		return nil
	},
}

func init() {
	trainCmd.Flags().StringVarP(&trainInput, "input", "i", "", "Labelled dataset file (TSV or CSV)")
	trainCmd.Flags().StringVarP(&trainFormat, "format", "f", "auto", "Dataset format: tsv, csv or auto")
	trainCmd.Flags().Float64VarP(&trainAlpha, "alpha", "a", classifier.DefaultAlpha, "Laplace smoothing parameter (overrides config)")
	trainCmd.Flags().StringVarP(&trainModelPath, "model", "m", "", "Model file path (overrides config, forces file backend)")
	trainCmd.Flags().StringVarP(&trainConfig, "config", "c", "", "Configuration file path")
	trainCmd.Flags().Float64Var(&trainHoldout, "holdout", 0, "Train on this fraction and evaluate the rest (0 = train on everything)")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 42, "Shuffle seed for the holdout split (overrides config)")
	trainCmd.Flags().BoolVarP(&trainVerbose, "verbose", "v", false, "Verbose output")

	trainCmd.MarkFlagRequired("input")
}
