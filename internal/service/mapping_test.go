package service

import (
	"strings"
	"testing"

	"github.com/kanwarrior/kanwarrior/internal/kanboard"
)

func TestMapRecordNoDue(t *testing.T) {
	s, err := New(nil, testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	record, err := s.mapRecord(kanboard.Card{ID: 100, Name: "Fix bug"}, "Proj", "Doing", nil)
	if err != nil {
		t.Fatalf("mapRecord: %v", err)
	}
	if record.Due != nil {
		t.Errorf("absent due should map to nil, got %v", record.Due)
	}
}

func TestMapRecordInvalidDue(t *testing.T) {
	s, err := New(nil, testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	card := kanboard.Card{ID: 100, Name: "Fix bug", Due: "soonish"}
	record, err := s.mapRecord(card, "Proj", "Doing", nil)
	if err != nil {
		t.Fatalf("invalid due must not be an error: %v", err)
	}
	if record.Due != nil {
		t.Errorf("invalid due should map to nil, got %v", record.Due)
	}
}

func TestTagsOmittedWhenDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.ImportLabelsAsTags = false

	s, err := New(nil, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	card := kanboard.Card{
		ID:     100,
		Name:   "Fix bug",
		Labels: []kanboard.Label{{Name: "urgent"}, {Name: "backend"}},
	}
	record, err := s.mapRecord(card, "Proj", "Doing", nil)
	if err != nil {
		t.Fatalf("mapRecord: %v", err)
	}
	if record.Tags != nil {
		t.Errorf("tags must be omitted when disabled, got %v", record.Tags)
	}
}

func TestDefaultTemplateUnderscoresSpaces(t *testing.T) {
	cfg := testConfig()
	cfg.ImportLabelsAsTags = true

	s, err := New(nil, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	card := kanboard.Card{
		ID:     100,
		Name:   "Fix bug",
		Labels: []kanboard.Label{{Name: "In Progress"}, {Name: "urgent"}},
	}
	record, err := s.mapRecord(card, "Proj", "Doing", nil)
	if err != nil {
		t.Fatalf("mapRecord: %v", err)
	}
	if len(record.Tags) != 2 || record.Tags[0] != "In_Progress" || record.Tags[1] != "urgent" {
		t.Errorf("tags = %v, want [In_Progress urgent] in label order", record.Tags)
	}
}

func TestTemplateSeesRecordContext(t *testing.T) {
	cfg := testConfig()
	cfg.ImportLabelsAsTags = true
	cfg.LabelTemplate = `{{lower .Board}}.{{replace .Label " " "_"}}`

	s, err := New(nil, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	card := kanboard.Card{ID: 100, Labels: []kanboard.Label{{Name: "In Progress"}}}
	record, err := s.mapRecord(card, "Proj", "Doing", nil)
	if err != nil {
		t.Fatalf("mapRecord: %v", err)
	}
	if len(record.Tags) != 1 || record.Tags[0] != "proj.In_Progress" {
		t.Errorf("tags = %v, want [proj.In_Progress]", record.Tags)
	}
}

func TestMalformedTemplateFailsFast(t *testing.T) {
	cfg := testConfig()
	cfg.ImportLabelsAsTags = true
	cfg.LabelTemplate = `{{replace .Label`

	if _, err := New(nil, cfg); err == nil {
		t.Fatal("expected parse error for malformed template")
	}
}

func TestTemplateRenderErrorIsFatalForCard(t *testing.T) {
	cfg := testConfig()
	cfg.ImportLabelsAsTags = true
	cfg.LabelTemplate = `{{.NoSuchField}}`

	s, err := New(nil, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	card := kanboard.Card{ID: 100, Labels: []kanboard.Label{{Name: "urgent"}}}
	if _, err := s.mapRecord(card, "Proj", "Doing", nil); err == nil {
		t.Fatal("expected render error to propagate")
	} else if !strings.Contains(err.Error(), "urgent") {
		t.Errorf("error should name the label: %v", err)
	}
}
