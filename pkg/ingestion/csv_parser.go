package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chanwatch/chanwatch/pkg/models"
)

// Column names accepted in source tables. The timestamp and text columns
// each have two accepted spellings; the first listed wins when both exist.
var (
	timestampColumns = []string{"created_utc", "ts"}
	textColumns      = []string{"sentences", "text"}
)

// ParserConfig contains configuration for the CSV normalizer
type ParserConfig struct {
	DefaultWorkspace string // Workspace tag for tables without a workspace column
	SkipErrors       bool   // Whether to skip records with errors
}

// DefaultParserConfig returns default parser configuration
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		DefaultWorkspace: "slack",
		SkipErrors:       true,
	}
}

// CSVParser normalizes heterogeneous tabular exports (Slack-shaped or
// already-canonical tables) into canonical Message records
type CSVParser struct {
	config         ParserConfig
	totalRecords   int
	parsedRecords  int
	droppedRecords int
	errorCount     int
	errors         []error
}

// NewCSVParser creates a new CSV normalizer instance
func NewCSVParser(config ...ParserConfig) *CSVParser {
	cfg := DefaultParserConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return &CSVParser{
		config: cfg,
		errors: make([]error, 0),
	}
}

// ParseFile normalizes a CSV file into canonical messages.
// A missing file is an error here; the cached Loader maps it to an
// empty table per the pipeline's input-error taxonomy.
func (p *CSVParser) ParseFile(filename string) ([]models.Message, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse normalizes CSV data from a reader into canonical messages.
// Rows whose timestamp cannot be resolved are dropped, not erred.
func (p *CSVParser) Parse(r io.Reader) ([]models.Message, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true // Handle quotes in fields
	reader.TrimLeadingSpace = true

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Map header columns
	columnMap := make(map[string]int)
	for i, col := range header {
		columnMap[strings.TrimSpace(col)] = i
	}

	if _, ok := columnMap["channel"]; !ok {
		return nil, fmt.Errorf("required column channel not found in CSV")
	}
	if !hasAnyColumn(columnMap, timestampColumns) {
		return nil, fmt.Errorf("no timestamp column found in CSV (expected one of %v)", timestampColumns)
	}
	if !hasAnyColumn(columnMap, textColumns) {
		return nil, fmt.Errorf("no text column found in CSV (expected one of %v)", textColumns)
	}

	p.totalRecords = 0
	p.parsedRecords = 0
	p.droppedRecords = 0
	p.errorCount = 0

	var messages []models.Message

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if p.config.SkipErrors {
				p.recordError(fmt.Errorf("failed to read record %d: %w", p.totalRecords+1, err))
				p.totalRecords++
				continue
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		p.totalRecords++

		msg, ok := p.parseRecord(record, columnMap)
		if !ok {
			// Unresolvable timestamp: filtered, not an error
			p.droppedRecords++
			continue
		}

		messages = append(messages, msg)
		p.parsedRecords++
	}

	return messages, nil
}

// parseRecord converts a CSV record to a canonical Message. The second
// return value is false when the row must be dropped (no parseable
// timestamp).
func (p *CSVParser) parseRecord(record []string, columnMap map[string]int) (models.Message, bool) {
	// Helper function to get field value safely
	getField := func(fieldName string) string {
		if idx, ok := columnMap[fieldName]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	ts, ok := resolveTimestamp(getField("created_utc"), getField("ts"))
	if !ok {
		return models.Message{}, false
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		Workspace: getField("workspace"),
		Channel:   getField("channel"),
		User:      getField("user"),
		Timestamp: ts,
		Text:      resolveText(getField("sentences"), getField("text")),
	}

	if msg.Workspace == "" {
		msg.Workspace = p.config.DefaultWorkspace
	}
	if msg.User == "" {
		msg.User = models.UnknownUser
	}

	return msg, true
}

// resolveTimestamp applies the column preference order: an epoch-seconds
// value first, then an ISO-like (or Slack epoch) string.
func resolveTimestamp(createdUTC, ts string) (time.Time, bool) {
	if createdUTC != "" {
		if t, err := parseEpochSeconds(createdUTC); err == nil {
			return t, true
		}
	}
	if ts != "" {
		if t, err := parseTimestamp(ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// resolveText picks the canonical text body from the accepted source
// columns. Text is always a string; empty is allowed.
func resolveText(sentences, text string) string {
	if sentences != "" {
		return sentences
	}
	return text
}

// parseEpochSeconds parses a Unix timestamp in seconds, with an optional
// fractional part (e.g. "1599934232.150700").
func parseEpochSeconds(s string) (time.Time, error) {
	if strings.Contains(s, ".") {
		parts := strings.SplitN(s, ".", 2)
		seconds, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid epoch timestamp: %s", s)
		}
		frac, err := strconv.ParseFloat("0."+parts[1], 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid epoch timestamp: %s", s)
		}
		return time.Unix(seconds, int64(frac*1e9)), nil
	}

	seconds, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch timestamp: %s", s)
	}
	return time.Unix(seconds, 0), nil
}

// parseTimestamp parses the ISO-like timestamp spellings found in
// exports, falling back to epoch-seconds forms (Slack's "ts" column).
func parseTimestamp(ts string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",       // YYYY-MM-DD HH:MM:SS
		"2006-01-02T15:04:05Z",      // ISO 8601
		"2006-01-02T15:04:05-07:00", // ISO 8601 with timezone
		time.RFC3339,
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}

	// Slack exports carry epoch timestamps in the ts column
	return parseEpochSeconds(ts)
}

func hasAnyColumn(columnMap map[string]int, names []string) bool {
	for _, name := range names {
		if _, ok := columnMap[name]; ok {
			return true
		}
	}
	return false
}

// recordError records a parsing error
func (p *CSVParser) recordError(err error) {
	p.errorCount++
	p.errors = append(p.errors, err)
}

// GetErrors returns all parsing errors
func (p *CSVParser) GetErrors() []error {
	return p.errors
}

// GetStats returns parsing statistics
func (p *CSVParser) GetStats() (total, parsed, dropped, errors int) {
	return p.totalRecords, p.parsedRecords, p.droppedRecords, p.errorCount
}
