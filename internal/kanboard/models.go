package kanboard

import (
	"encoding/json"
	"strconv"
	"strings"
)

// IntOrString decodes a JSON number that Kanboard may emit either as a
// number or as a quoted string.
type IntOrString int64

func (n *IntOrString) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*n = IntOrString(v)
	return nil
}

// Int64 returns the plain value.
func (n IntOrString) Int64() int64 { return int64(n) }

// FlexString decodes a JSON string, number, or null into its text form.
// Kanboard is not consistent about which one it sends.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(raw)
	return nil
}

// Board is a Kanboard project, the top-level grouping of columns.
type Board struct {
	ID   IntOrString `json:"id"`
	Name string      `json:"name"`
}

// Column is a workflow stage within a board.
type Column struct {
	ID    IntOrString `json:"id"`
	Title string      `json:"title"`
}

// Label is a tag source attached to a card.
type Label struct {
	Name string `json:"name"`
}

// Card is a work item within a column. Subtasks share the same shape and are
// decoded into the same type.
type Card struct {
	ID        IntOrString `json:"id"`
	Name      string      `json:"name"`
	ShortLink string      `json:"shortLink"`
	ShortURL  string      `json:"shortUrl"`
	URL       string      `json:"url"`
	IDShort   IntOrString `json:"idShort"`
	Due       FlexString  `json:"due"`
	Labels    []Label     `json:"labels"`
}

// Comment is a note on a card; only the author and text are consumed.
type Comment struct {
	MemberCreator struct {
		Username string `json:"username"`
	} `json:"memberCreator"`
	Data struct {
		Text string `json:"text"`
	} `json:"data"`
}
