package service

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/kanwarrior/kanwarrior/internal/kanboard"
	"github.com/kanwarrior/kanwarrior/internal/task"
)

// templateFuncs are the helpers available to label templates.
var templateFuncs = template.FuncMap{
	"replace": func(s, old, new string) string {
		return strings.ReplaceAll(s, old, new)
	},
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
}

// parseLabelTemplate compiles a label template. Unknown fields fail at
// render time, not here.
func parseLabelTemplate(text string) (*template.Template, error) {
	tmpl, err := template.New("label").Funcs(templateFuncs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse label template: %w", err)
	}
	return tmpl, nil
}

// tagContext is the data a label template renders against: the label name
// plus the record built so far.
type tagContext struct {
	Label string
	task.Task
}

// mapRecord converts one remote card (or subtask) into a task record. Tags
// are only set when labels are imported as tags.
func (s *Service) mapRecord(card kanboard.Card, boardName, listName string, annotations []string) (task.Task, error) {
	record := task.Task{
		Project:     boardName,
		Priority:    task.Priority,
		Due:         task.ParseDue(string(card.Due)),
		Description: task.Description(card.Name, card.ShortURL, card.IDShort.Int64()),
		Name:        card.Name,
		CardID:      card.ID.Int64(),
		Board:       boardName,
		List:        listName,
		ShortLink:   card.ShortLink,
		ShortURL:    card.ShortURL,
		URL:         card.URL,
		Annotations: annotations,
	}

	if s.cfg.ImportLabelsAsTags {
		tags, err := s.renderTags(record, card.Labels)
		if err != nil {
			return task.Task{}, err
		}
		record.Tags = tags
	}
	return record, nil
}

// renderTags renders one tag per label, preserving label order.
func (s *Service) renderTags(record task.Task, labels []kanboard.Label) ([]string, error) {
	tags := make([]string, 0, len(labels))
	for _, label := range labels {
		var buf strings.Builder
		ctx := tagContext{Label: label.Name, Task: record}
		if err := s.labelTmpl.Execute(&buf, ctx); err != nil {
			return nil, fmt.Errorf("render tag for label %q on card %d: %w", label.Name, record.CardID, err)
		}
		tags = append(tags, buf.String())
	}
	return tags, nil
}
