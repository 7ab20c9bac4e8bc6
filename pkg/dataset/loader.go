package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zpam/sms-filter/pkg/classifier"
)

// Format identifies a corpus file format.
type Format string

const (
	// FormatTSV is the SMSSpamCollection layout: one message per line,
	// label and text separated by a single tab.
	FormatTSV Format = "tsv"
	// FormatCSV is a header-carrying CSV with label and text columns.
	FormatCSV Format = "csv"
	// FormatAuto picks the format from the file extension.
	FormatAuto Format = "auto"
)

// ParseFormat validates a format name from config or flags.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTSV:
		return FormatTSV, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatAuto, Format(""):
		return FormatAuto, nil
	default:
		return FormatAuto, fmt.Errorf("%w: unknown dataset format %q", classifier.ErrInvalidInput, s)
	}
}

// Load reads a labeled corpus from path. FormatAuto resolves ".csv" to
// CSV and everything else to TSV.
func Load(path string, format Format) ([]classifier.Document, error) {
	if format == FormatAuto {
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			format = FormatCSV
		} else {
			format = FormatTSV
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %v", err)
	}
	defer file.Close()

	switch format {
	case FormatCSV:
		return readCSV(file)
	default:
		return readTSV(file)
	}
}

// LoadTSV reads a tab-separated corpus file.
func LoadTSV(path string) ([]classifier.Document, error) {
	return Load(path, FormatTSV)
}

// LoadCSV reads a CSV corpus file with a header row.
func LoadCSV(path string) ([]classifier.Document, error) {
	return Load(path, FormatCSV)
}

func readTSV(r io.Reader) ([]classifier.Document, error) {
	var docs []classifier.Document

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		labelStr, text, found := strings.Cut(line, "\t")
		if !found {
			return nil, fmt.Errorf("%w: line %d has no tab separator", classifier.ErrInvalidInput, lineNum)
		}

		label, err := classifier.ParseLabel(labelStr)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		docs = append(docs, classifier.Document{Text: text, Label: label})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %v", err)
	}

	return docs, nil
}

func readCSV(r io.Reader) ([]classifier.Document, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %v", err)
	}

	// Locate label and text columns by name, falling back to the
	// first two columns.
	labelIdx, textIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "label", "class", "category":
			labelIdx = i
		case "text", "message", "sms", "body":
			textIdx = i
		}
	}
	if labelIdx == -1 {
		labelIdx = 0
	}
	if textIdx == -1 {
		if labelIdx == 0 {
			textIdx = 1
		} else {
			textIdx = 0
		}
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: CSV needs label and text columns", classifier.ErrInvalidInput)
	}

	var docs []classifier.Document
	lineNum := 1
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %v", err)
		}
		lineNum++

		if len(record) <= labelIdx || len(record) <= textIdx {
			return nil, fmt.Errorf("%w: line %d has too few columns", classifier.ErrInvalidInput, lineNum)
		}

		label, err := classifier.ParseLabel(record[labelIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		docs = append(docs, classifier.Document{Text: record[textIdx], Label: label})
	}

	return docs, nil
}

// Stats summarizes the class balance of a corpus.
type Stats struct {
	Total int
	Spam  int
	Ham   int
}

// Summarize counts messages per class.
func Summarize(docs []classifier.Document) Stats {
	stats := Stats{Total: len(docs)}
	for _, doc := range docs {
		if doc.Label == classifier.Spam {
			stats.Spam++
		} else {
			stats.Ham++
		}
	}
	return stats
}
