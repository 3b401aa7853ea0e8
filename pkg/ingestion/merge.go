package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/chanwatch/chanwatch/pkg/models"
)

// Merge combines canonical tables from different origins into one table,
// stable-sorted by timestamp ascending. Rows keep their workspace tags,
// so filtering the result by workspace reproduces each source exactly.
func Merge(tables ...[]models.Message) []models.Message {
	size := 0
	for _, t := range tables {
		size += len(t)
	}

	merged := make([]models.Message, 0, size)
	for _, t := range tables {
		merged = append(merged, t...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})

	return merged
}

// canonicalHeader is the column set of a written canonical table. The
// normalizer accepts it back unchanged, so write-then-parse is a no-op
// on the canonical columns.
var canonicalHeader = []string{"workspace", "channel", "user", "ts", "sentences"}

// WriteCSV writes messages as a canonical CSV table
func WriteCSV(w io.Writer, messages []models.Message) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(canonicalHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, msg := range messages {
		record := []string{
			msg.Workspace,
			msg.Channel,
			msg.User,
			msg.Timestamp.UTC().Format(time.RFC3339),
			msg.Text,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes messages as a canonical CSV table to a file
func WriteCSVFile(filename string, messages []models.Message) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return WriteCSV(file, messages)
}
