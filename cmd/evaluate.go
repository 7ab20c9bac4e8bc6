package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zpam/sms-filter/pkg/classifier"
	"github.com/zpam/sms-filter/pkg/dataset"
	"github.com/zpam/sms-filter/pkg/evaluation"
)

var (
	evalInput     string
	evalFormat    string
	evalModelPath string
	evalConfig    string
	evalSplit     float64
	evalSeed      int64
	evalLogSpace  bool
	evalWorkers   int
	evalVerbose   bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate classification accuracy on a labelled dataset",
	Long: `Evaluate the model against a labelled dataset and report the confusion
matrix, accuracy, precision, recall and F1 score (spam = positive class).

By default the stored model is evaluated against the whole dataset. With
--split the dataset is shuffled and divided first: the model is trained
on the train fraction and scored on the rest, so no stored model is
needed and the numbers are honest out-of-sample figures.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if evalInput == "" {
			return fmt.Errorf("--input dataset file is required")
		}

		cfg, logger, err := loadRuntime(evalConfig, evalModelPath, evalVerbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if evalLogSpace {
			cfg.Classifier.LogSpace = true
		}
		if cmd.Flags().Changed("workers") {
			cfg.Classifier.Workers = evalWorkers
		}
		if cmd.Flags().Changed("seed") {
			cfg.Dataset.Seed = evalSeed
		}

		format, err := dataset.ParseFormat(evalFormat)
		if err != nil {
			return err
		}

		docs, err := dataset.Load(evalInput, format)
		if err != nil {
			return fmt.Errorf("failed to load dataset: %v", err)
		}

		stats := dataset.Summarize(docs)
		fmt.Printf("🔍 ZPAM SMS Evaluation\n")
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("📁 Dataset: %s (%d messages, %d spam, %d ham)\n",
			evalInput, stats.Total, stats.Spam, stats.Ham)

		var model *classifier.Model
		if evalSplit > 0 {
			var train []classifier.Document
			train, docs, err = dataset.Split(docs, evalSplit, cfg.Dataset.Seed)
			if err != nil {
				return err
			}
			fmt.Printf("✂️  Split: training on %d, evaluating on %d (seed %d)\n",
				len(train), len(docs), cfg.Dataset.Seed)

			model, err = classifier.Train(train, classifier.WithAlpha(cfg.Classifier.Alpha))
			if err != nil {
				return fmt.Errorf("failed to train model: %v", err)
			}
		} else {
			fmt.Printf("💾 Model: %s\n", modelLocation(&cfg.Model))
			model, err = openModel(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
		}
		fmt.Printf("\n")

		result, err := evaluation.Evaluate(cmd.Context(), model, docs, evaluation.Options{
			Workers:  cfg.Classifier.Workers,
			LogSpace: cfg.Classifier.LogSpace,
		})
		if err != nil {
			return fmt.Errorf("failed to evaluate: %v", err)
		}

		evaluation.RenderReport(os.Stdout, result)
		return nil
	},
}

func init() {
	evaluateCmd.Flags().StringVarP(&evalInput, "input", "i", "", "Labelled dataset file (TSV or CSV)")
	evaluateCmd.Flags().StringVarP(&evalFormat, "format", "f", "auto", "Dataset format: tsv, csv or auto")
	evaluateCmd.Flags().StringVarP(&evalModelPath, "model", "m", "", "Model file path (overrides config, forces file backend)")
	evaluateCmd.Flags().StringVarP(&evalConfig, "config", "c", "", "Configuration file path")
	evaluateCmd.Flags().Float64Var(&evalSplit, "split", 0, "Train/test split fraction (0 = evaluate stored model on everything)")
	evaluateCmd.Flags().Int64Var(&evalSeed, "seed", 42, "Shuffle seed for --split (overrides config)")
	evaluateCmd.Flags().BoolVar(&evalLogSpace, "log-space", false, "Score in log-space")
	evaluateCmd.Flags().IntVarP(&evalWorkers, "workers", "j", 0, "Concurrent workers (0 = number of CPUs)")
	evaluateCmd.Flags().BoolVarP(&evalVerbose, "verbose", "v", false, "Verbose output")

	evaluateCmd.MarkFlagRequired("input")
}
