package service

import (
	"context"
	"iter"
	"text/template"

	"github.com/kanwarrior/kanwarrior/internal/config"
	"github.com/kanwarrior/kanwarrior/internal/kanboard"
	"github.com/kanwarrior/kanwarrior/internal/logger"
	"github.com/kanwarrior/kanwarrior/internal/task"
)

// API is the Kanboard surface the service pulls from.
type API interface {
	GetAllProjects(ctx context.Context) ([]kanboard.Board, error)
	GetProjectByID(ctx context.Context, projectID int64) (kanboard.Board, error)
	GetColumns(ctx context.Context, projectID int64) ([]kanboard.Column, error)
	GetActiveTasks(ctx context.Context, listID int64) ([]kanboard.Card, error)
	GetAllComments(ctx context.Context, taskID int64) ([]kanboard.Comment, error)
	GetAllSubtasks(ctx context.Context, taskID int64) ([]kanboard.Card, error)
}

// Service turns remote cards into normalized task records.
type Service struct {
	api       API
	cfg       *config.Config
	labelTmpl *template.Template
}

// New builds a service. The label template is parsed up front so a broken
// template fails before any network call; it is only parsed when labels are
// imported as tags at all.
func New(api API, cfg *config.Config) (*Service, error) {
	s := &Service{api: api, cfg: cfg}
	if cfg.ImportLabelsAsTags {
		tmpl, err := parseLabelTemplate(cfg.LabelTemplate)
		if err != nil {
			return nil, err
		}
		s.labelTmpl = tmpl
	}
	return s, nil
}

// Tasks returns the record stream: for every board, every kept column and
// every active card, the card's subtask records first, then the card record.
// The sequence is lazy and single-pass; the first fetch or mapping error
// ends it. No deduplication happens across boards.
func (s *Service) Tasks(ctx context.Context) iter.Seq2[task.Task, error] {
	return func(yield func(task.Task, error) bool) {
		boards, err := s.boards(ctx)
		if err != nil {
			yield(task.Task{}, err)
			return
		}
		for _, board := range boards {
			columns, err := s.columns(ctx, board)
			if err != nil {
				yield(task.Task{}, err)
				return
			}
			for _, column := range columns {
				cards, err := s.api.GetActiveTasks(ctx, column.ID.Int64())
				if err != nil {
					yield(task.Task{}, err)
					return
				}
				for _, card := range cards {
					if !s.emitCard(ctx, yield, card, board.Name, column.Title) {
						return
					}
				}
			}
		}
	}
}

// emitCard yields the subtask records for a card, then the card record
// itself. Each record gets its own comment-derived annotations. Returns
// false when iteration must stop.
func (s *Service) emitCard(ctx context.Context, yield func(task.Task, error) bool, card kanboard.Card, boardName, listName string) bool {
	subtasks, err := s.api.GetAllSubtasks(ctx, card.ID.Int64())
	if err != nil {
		yield(task.Task{}, err)
		return false
	}

	for _, record := range append(subtasks, card) {
		annotations, err := s.annotations(ctx, record)
		if err != nil {
			yield(task.Task{}, err)
			return false
		}
		mapped, err := s.mapRecord(record, boardName, listName, annotations)
		if err != nil {
			yield(task.Task{}, err)
			return false
		}
		if !yield(mapped, nil) {
			return false
		}
	}
	return true
}

// boards returns the boards to pull cards from: the configured ids fetched
// individually in configured order, or every board visible to the account.
func (s *Service) boards(ctx context.Context) ([]kanboard.Board, error) {
	if len(s.cfg.IncludeBoards) == 0 {
		return s.api.GetAllProjects(ctx)
	}
	boards := make([]kanboard.Board, 0, len(s.cfg.IncludeBoards))
	for _, id := range s.cfg.IncludeBoards {
		board, err := s.api.GetProjectByID(ctx, id)
		if err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, nil
}

// columns returns the board's columns after the include/exclude filters.
func (s *Service) columns(ctx context.Context, board kanboard.Board) ([]kanboard.Column, error) {
	columns, err := s.api.GetColumns(ctx, board.ID.Int64())
	if err != nil {
		return nil, err
	}
	kept := FilterColumns(columns, s.cfg.IncludeLists, s.cfg.ExcludeLists)
	logger.Get(ctx).Debug().
		Str("board", board.Name).
		Int("columns", len(columns)).
		Int("kept", len(kept)).
		Msg("columns filtered")
	return kept, nil
}

// FilterColumns applies the include filter, then the exclude filter, both by
// exact title equality. An empty filter keeps everything; remote order is
// preserved.
func FilterColumns(columns []kanboard.Column, include, exclude []string) []kanboard.Column {
	if len(include) > 0 {
		included := toSet(include)
		var kept []kanboard.Column
		for _, column := range columns {
			if included[column.Title] {
				kept = append(kept, column)
			}
		}
		columns = kept
	}
	if len(exclude) > 0 {
		excluded := toSet(exclude)
		var kept []kanboard.Column
		for _, column := range columns {
			if !excluded[column.Title] {
				kept = append(kept, column)
			}
		}
		columns = kept
	}
	return columns
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// annotations fetches a record's comments and formats them.
func (s *Service) annotations(ctx context.Context, card kanboard.Card) ([]string, error) {
	comments, err := s.api.GetAllComments(ctx, card.ID.Int64())
	if err != nil {
		return nil, err
	}
	pairs := make([]task.Annotation, 0, len(comments))
	for _, c := range comments {
		pairs = append(pairs, task.Annotation{Author: c.MemberCreator.Username, Text: c.Data.Text})
	}
	return task.BuildAnnotations(pairs, card.ShortURL), nil
}
