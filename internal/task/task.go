package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Priority assigned to every imported card.
const Priority = "M"

// Task is the normalized record handed to the host task manager. The
// attribute names are the taskwarrior UDA set used for Kanboard imports;
// CardID is the uniqueness key the host reconciles repeated runs on.
type Task struct {
	Project     string     `json:"project"`
	Priority    string     `json:"priority"`
	Due         *time.Time `json:"due,omitempty"`
	Description string     `json:"description"`

	Name      string `json:"kanboardcard"`
	CardID    int64  `json:"kanboardcardid"`
	Board     string `json:"kanboardboard"`
	List      string `json:"kanboardlist"`
	ShortLink string `json:"kanboardshortlink"`
	ShortURL  string `json:"kanboardshorturl"`
	URL       string `json:"kanboardurl"`

	Annotations []string `json:"annotations"`
	Tags        []string `json:"tags,omitempty"`
}

// Annotation pairs a comment author with the comment text.
type Annotation struct {
	Author string
	Text   string
}

// BuildAnnotations formats one annotation per comment, in comment order.
// Each annotation carries the card's short URL so the note can be traced
// back to its source.
func BuildAnnotations(comments []Annotation, shortURL string) []string {
	annotations := make([]string, 0, len(comments))
	for _, c := range comments {
		text := strings.TrimSpace(c.Text)
		annotations = append(annotations, fmt.Sprintf("@%s - %s (%s)", c.Author, text, shortURL))
	}
	return annotations
}

// Description builds the verbose fallback description for hosts that do not
// understand the Kanboard attributes.
func Description(name, shortURL string, number int64) string {
	return fmt.Sprintf("(kb)Task#%d - %s .. %s", number, name, shortURL)
}

// dueFormats are tried in order when parsing a due date.
var dueFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDue parses a remote due date. An absent or unparseable value maps to
// nil, never an error. Plain integers are taken as unix seconds.
func ParseDue(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" || raw == "null" {
		return nil
	}
	for _, format := range dueFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return &t
		}
	}
	if ts, err := strconv.ParseInt(raw, 10, 64); err == nil && ts > 0 {
		t := time.Unix(ts, 0).UTC()
		return &t
	}
	return nil
}
