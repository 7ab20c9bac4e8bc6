package cmd

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/zpam/sms-filter/pkg/classifier"
	"github.com/zpam/sms-filter/pkg/dataset"
)

var (
	benchmarkInput      string
	benchmarkFormat     string
	benchmarkModelPath  string
	benchmarkConfig     string
	benchmarkRuns       int
	benchmarkConcurrent int
	benchmarkLogSpace   bool
	benchmarkVerbose    bool
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Performance benchmark and analysis",
	Long: `Benchmark classification latency and throughput on a message dataset.

The stored model is used when one exists; otherwise a model is trained
on the benchmark dataset itself first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchmarkInput == "" {
			return fmt.Errorf("--input dataset file is required")
		}

		cfg, logger, err := loadRuntime(benchmarkConfig, benchmarkModelPath, benchmarkVerbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		format, err := dataset.ParseFormat(benchmarkFormat)
		if err != nil {
			return err
		}

		docs, err := dataset.Load(benchmarkInput, format)
		if err != nil {
			return fmt.Errorf("failed to load dataset: %v", err)
		}
		texts := make([]string, len(docs))
		for i, doc := range docs {
			texts[i] = doc.Text
		}

		model, err := openModel(cmd.Context(), cfg, logger)
		if err != nil {
			fmt.Printf("📚 No stored model, training on the benchmark dataset\n")
			model, err = classifier.Train(docs, classifier.WithAlpha(cfg.Classifier.Alpha))
			if err != nil {
				return fmt.Errorf("failed to train model: %v", err)
			}
		}

		fmt.Printf("🚀 ZPAM SMS Performance Benchmark\n")
		fmt.Printf("📁 Input dataset: %s\n", benchmarkInput)
		fmt.Printf("💬 Messages: %d\n", len(texts))
		fmt.Printf("🔄 Benchmark runs: %d\n", benchmarkRuns)
		fmt.Printf("⚡ Concurrent workers: %d\n", benchmarkConcurrent)
		if benchmarkLogSpace {
			fmt.Printf("🧮 Scoring mode: log-space\n")
		}
		fmt.Printf("\n")

		benchmark := &classificationBenchmark{model: model, logSpace: benchmarkLogSpace}
		result := benchmark.Run(texts, benchmarkRuns, benchmarkConcurrent)
		displayBenchmarkResults(result)

		return nil
	},
}

// BenchmarkResult contains performance metrics
type BenchmarkResult struct {
	TotalMessages  int
	TotalTime      time.Duration
	AvgTimePerMsg  float64 // microseconds
	MinTime        time.Duration
	MaxTime        time.Duration
	MedianTime     time.Duration
	P95Time        time.Duration
	P99Time        time.Duration
	MessagesPerSec float64

	// Classification results
	SpamDetected int
	HamDetected  int
	Degenerate   int

	// Individual message times
	MessageTimes []time.Duration
}

// classificationBenchmark drives repeated classification of a corpus.
type classificationBenchmark struct {
	model    *classifier.Model
	logSpace bool
}

// Run executes the benchmark
func (b *classificationBenchmark) Run(texts []string, runs int, concurrent int) *BenchmarkResult {
	result := &BenchmarkResult{
		TotalMessages: len(texts) * runs,
		MessageTimes:  make([]time.Duration, 0, len(texts)*runs),
	}

	// Warm up caches and the scheduler before timing anything.
	for i := 0; i < len(texts) && i < 100; i++ {
		b.classify(texts[i])
	}

	fmt.Printf("🏃 Running benchmark...\n")

	var mu sync.Mutex
	var wg sync.WaitGroup

	// Channel to control concurrency
	semaphore := make(chan struct{}, concurrent)

	start := time.Now()

	for run := 0; run < runs; run++ {
		for _, text := range texts {
			wg.Add(1)

			go func(message string) {
				defer wg.Done()

				// Acquire semaphore
				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				msgStart := time.Now()
				prediction := b.classify(message)
				msgDuration := time.Since(msgStart)

				// Update results (thread-safe)
				mu.Lock()
				result.MessageTimes = append(result.MessageTimes, msgDuration)
				if prediction.Label == classifier.Spam {
					result.SpamDetected++
				} else {
					result.HamDetected++
				}
				if prediction.Degenerate {
					result.Degenerate++
				}
				mu.Unlock()
			}(text)
		}
	}

	wg.Wait()
	result.TotalTime = time.Since(start)

	calculateStatistics(result)

	return result
}

func (b *classificationBenchmark) classify(text string) classifier.Prediction {
	if b.logSpace {
		return b.model.ClassifyLog(text)
	}
	return b.model.Classify(text)
}

// calculateStatistics computes performance statistics
func calculateStatistics(result *BenchmarkResult) {
	if len(result.MessageTimes) == 0 {
		return
	}

	// Sort times for percentile calculations
	times := make([]time.Duration, len(result.MessageTimes))
	copy(times, result.MessageTimes)
	sort.Slice(times, func(i, j int) bool {
		return times[i] < times[j]
	})

	var totalNanos int64
	for _, t := range times {
		totalNanos += t.Nanoseconds()
	}

	result.AvgTimePerMsg = float64(totalNanos) / float64(len(times)) / 1e3 // Convert to µs
	result.MinTime = times[0]
	result.MaxTime = times[len(times)-1]

	// Percentiles
	result.MedianTime = times[len(times)/2]
	result.P95Time = times[int(float64(len(times))*0.95)]
	result.P99Time = times[int(float64(len(times))*0.99)]

	// Throughput
	result.MessagesPerSec = float64(len(times)) / result.TotalTime.Seconds()
}

// displayBenchmarkResults shows formatted benchmark results
func displayBenchmarkResults(result *BenchmarkResult) {
	fmt.Printf("📊 Benchmark Results\n")
	fmt.Printf("═══════════════════════════════════════\n\n")

	// Performance metrics
	fmt.Printf("⚡ Performance Metrics:\n")
	fmt.Printf("  Total messages processed: %d\n", result.TotalMessages)
	fmt.Printf("  Total time: %v\n", result.TotalTime)
	fmt.Printf("  Average time per message: %.2f µs\n", result.AvgTimePerMsg)
	fmt.Printf("  Messages per second: %.0f\n", result.MessagesPerSec)
	fmt.Printf("\n")

	// Time distribution
	fmt.Printf("📈 Time Distribution:\n")
	fmt.Printf("  Min time: %.2f µs\n", float64(result.MinTime.Nanoseconds())/1e3)
	fmt.Printf("  Max time: %.2f µs\n", float64(result.MaxTime.Nanoseconds())/1e3)
	fmt.Printf("  Median time: %.2f µs\n", float64(result.MedianTime.Nanoseconds())/1e3)
	fmt.Printf("  95th percentile: %.2f µs\n", float64(result.P95Time.Nanoseconds())/1e3)
	fmt.Printf("  99th percentile: %.2f µs\n", float64(result.P99Time.Nanoseconds())/1e3)
	fmt.Printf("\n")

	// Classification results
	fmt.Printf("🎯 Classification Results:\n")
	fmt.Printf("  Spam detected: %d\n", result.SpamDetected)
	fmt.Printf("  Ham detected: %d\n", result.HamDetected)
	if result.Degenerate > 0 {
		fmt.Printf("  ⚠️ Underflowed scores: %d (consider --log-space)\n", result.Degenerate)
	}
	fmt.Printf("\n")

	// Performance assessment
	fmt.Printf("🏆 Performance Assessment:\n")
	if result.AvgTimePerMsg < 10.0 {
		fmt.Printf("  ✅ EXCELLENT: Average time %.2f µs < 10 µs\n", result.AvgTimePerMsg)
	} else if result.AvgTimePerMsg < 100.0 {
		fmt.Printf("  ✅ GOOD: Average time %.2f µs < 100 µs target\n", result.AvgTimePerMsg)
	} else {
		fmt.Printf("  ❌ NEEDS IMPROVEMENT: Average time %.2f µs > 100 µs target\n", result.AvgTimePerMsg)
	}

	if result.MessagesPerSec > 100000 {
		fmt.Printf("  🚀 HIGH THROUGHPUT: %.0f messages/second\n", result.MessagesPerSec)
	} else if result.MessagesPerSec > 10000 {
		fmt.Printf("  ⚡ GOOD THROUGHPUT: %.0f messages/second\n", result.MessagesPerSec)
	} else {
		fmt.Printf("  🐌 LOW THROUGHPUT: %.0f messages/second\n", result.MessagesPerSec)
	}

	fmt.Printf("\n")
}

func init() {
	benchmarkCmd.Flags().StringVarP(&benchmarkInput, "input", "i", "", "Input dataset file (TSV or CSV)")
	benchmarkCmd.Flags().StringVarP(&benchmarkFormat, "format", "f", "auto", "Dataset format: tsv, csv or auto")
	benchmarkCmd.Flags().StringVarP(&benchmarkModelPath, "model", "m", "", "Model file path (overrides config, forces file backend)")
	benchmarkCmd.Flags().StringVarP(&benchmarkConfig, "config", "c", "", "Configuration file path")
	benchmarkCmd.Flags().IntVarP(&benchmarkRuns, "runs", "r", 3, "Number of benchmark runs")
	benchmarkCmd.Flags().IntVarP(&benchmarkConcurrent, "concurrent", "j", 4, "Number of concurrent workers")
	benchmarkCmd.Flags().BoolVar(&benchmarkLogSpace, "log-space", false, "Score in log-space")
	benchmarkCmd.Flags().BoolVarP(&benchmarkVerbose, "verbose", "v", false, "Verbose output")

	benchmarkCmd.MarkFlagRequired("input")
}
