package ingestion

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/chanwatch/chanwatch/pkg/models"
)

// RedditWorkspace is the fixed workspace tag for records converted from a
// Reddit export.
const RedditWorkspace = "Reddit"

// redditRecord is one JSON-lines record from a Reddit export. Posts carry
// title/selftext, comments carry body; created_utc is epoch seconds and
// may be fractional.
type redditRecord struct {
	Subreddit  string      `json:"subreddit"`
	Author     string      `json:"author"`
	CreatedUTC json.Number `json:"created_utc"`
	Title      string      `json:"title"`
	SelfText   string      `json:"selftext"`
	Body       string      `json:"body"`
}

// JSONLConverter converts a Reddit-shaped JSON-lines export into canonical
// Message records. Malformed lines and lines without a parseable
// timestamp are dropped silently, matching the CSV normalizer's taxonomy.
type JSONLConverter struct {
	totalRecords   int
	parsedRecords  int
	droppedRecords int
}

// NewJSONLConverter creates a new JSON-lines converter instance
func NewJSONLConverter() *JSONLConverter {
	return &JSONLConverter{}
}

// ConvertFile converts a JSON-lines file into canonical messages
func (c *JSONLConverter) ConvertFile(filename string) ([]models.Message, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return c.Convert(file)
}

// maxLineBytes bounds one JSON-lines record; Reddit selftext routinely
// exceeds bufio.Scanner's 64KB default.
const maxLineBytes = 1 << 20

// Convert reads one JSON object per line and maps it to the canonical
// shape: subreddit becomes the channel, author the user, and the post
// title and body are joined into the text column. Each line is decoded
// independently, so a malformed line drops only itself.
func (c *JSONLConverter) Convert(r io.Reader) ([]models.Message, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	c.totalRecords = 0
	c.parsedRecords = 0
	c.droppedRecords = 0

	var messages []models.Message

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		c.totalRecords++

		var rec redditRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			// Malformed line: filtered, not an error
			c.droppedRecords++
			continue
		}

		ts, ok := resolveTimestamp(rec.CreatedUTC.String(), "")
		if !ok {
			c.droppedRecords++
			continue
		}

		user := rec.Author
		if user == "" || user == "[deleted]" {
			user = models.UnknownUser
		}

		messages = append(messages, models.Message{
			ID:        uuid.NewString(),
			Workspace: RedditWorkspace,
			Channel:   rec.Subreddit,
			User:      user,
			Timestamp: ts,
			Text:      redditText(rec),
		})
		c.parsedRecords++
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return messages, nil
}

// redditText joins the text-bearing fields of a record into one body.
func redditText(rec redditRecord) string {
	parts := make([]string, 0, 2)
	if rec.Title != "" {
		parts = append(parts, rec.Title)
	}
	if rec.SelfText != "" {
		parts = append(parts, rec.SelfText)
	} else if rec.Body != "" {
		parts = append(parts, rec.Body)
	}
	return strings.Join(parts, " ")
}

// GetStats returns conversion statistics
func (c *JSONLConverter) GetStats() (total, parsed, dropped int) {
	return c.totalRecords, c.parsedRecords, c.droppedRecords
}
