package evaluation

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

var (
	hamColor   = color.New(color.FgGreen)
	spamColor  = color.New(color.FgRed, color.Bold)
	boldColor  = color.New(color.Bold)
	faintColor = color.New(color.Faint)
)

// RenderReport writes a human-readable evaluation report with the
// confusion matrix and derived metrics.
func RenderReport(w io.Writer, result *Result) {
	mode := "multiplicative"
	if result.LogSpace {
		mode = "log-space"
	}

	fmt.Fprintf(w, "📊 Evaluation Results\n")
	fmt.Fprintf(w, "════════════════════════════════════════\n")
	fmt.Fprintf(w, "Messages: %d (%s scoring)\n\n", result.Total, mode)

	fmt.Fprintf(w, "%s\n", boldColor.Sprint("Confusion Matrix (actual × predicted):"))
	fmt.Fprintf(w, "               %12s %12s\n", spamColor.Sprint("spam"), hamColor.Sprint("ham"))
	fmt.Fprintf(w, "  %s %12d %12d\n", spamColor.Sprintf("%-12s", "spam"), result.TruePositive, result.FalseNegative)
	fmt.Fprintf(w, "  %s %12d %12d\n\n", hamColor.Sprintf("%-12s", "ham"), result.FalsePositive, result.TrueNegative)

	fmt.Fprintf(w, "%s\n", boldColor.Sprint("Metrics (spam = positive class):"))
	fmt.Fprintf(w, "  Accuracy:  %6.2f%%\n", result.Accuracy()*100)
	fmt.Fprintf(w, "  Precision: %6.2f%%\n", result.Precision()*100)
	fmt.Fprintf(w, "  Recall:    %6.2f%%\n", result.Recall()*100)
	fmt.Fprintf(w, "  F1 score:  %6.2f%%\n", result.F1()*100)

	if result.Degenerate > 0 {
		fmt.Fprintf(w, "\n⚠️  %d message(s) underflowed to a degenerate tie; consider log-space scoring\n", result.Degenerate)
	}

	if result.Duration > 0 {
		throughput := float64(result.Total) / result.Duration.Seconds()
		fmt.Fprintf(w, "\n%s\n", faintColor.Sprintf("Evaluated in %v (%.0f msg/sec)",
			result.Duration.Round(time.Millisecond), throughput))
	}
}
