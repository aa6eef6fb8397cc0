package service

import (
	"reflect"
	"testing"

	"github.com/kanwarrior/kanwarrior/internal/kanboard"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// The title alphabet is kept small so generated filters actually overlap
// with generated columns.
var columnTitles = []string{"Backlog", "Ready", "Doing", "Review", "Done", "Archive"}

func genTitle() gopter.Gen {
	return gen.OneConstOf(columnTitles[0], columnTitles[1], columnTitles[2],
		columnTitles[3], columnTitles[4], columnTitles[5])
}

func genColumn() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(1, 500),
		genTitle(),
	).Map(func(values []interface{}) kanboard.Column {
		return kanboard.Column{
			ID:    kanboard.IntOrString(values[0].(int64)),
			Title: values[1].(string),
		}
	})
}

func genColumns() gopter.Gen {
	return gen.SliceOf(genColumn())
}

func genTitleList() gopter.Gen {
	return gen.SliceOf(genTitle())
}

func titleSet(titles []string) map[string]bool {
	set := make(map[string]bool, len(titles))
	for _, title := range titles {
		set[title] = true
	}
	return set
}

// TestFilterColumnsProperties checks the filter algebra: include is a
// set-intersection by exact title, exclude a set-difference, and applying
// both equals include-then-exclude.
func TestFilterColumnsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.MaxSize = 20

	properties := gopter.NewProperties(parameters)

	properties.Property("include keeps exactly the listed titles", prop.ForAll(
		func(columns []kanboard.Column, include []string) bool {
			kept := FilterColumns(columns, include, nil)
			if len(include) == 0 {
				return reflect.DeepEqual(kept, columns)
			}
			included := titleSet(include)
			var want []kanboard.Column
			for _, column := range columns {
				if included[column.Title] {
					want = append(want, column)
				}
			}
			return reflect.DeepEqual(kept, want)
		},
		genColumns(),
		genTitleList(),
	))

	properties.Property("exclude drops exactly the listed titles", prop.ForAll(
		func(columns []kanboard.Column, exclude []string) bool {
			kept := FilterColumns(columns, nil, exclude)
			if len(exclude) == 0 {
				return reflect.DeepEqual(kept, columns)
			}
			excluded := titleSet(exclude)
			var want []kanboard.Column
			for _, column := range columns {
				if !excluded[column.Title] {
					want = append(want, column)
				}
			}
			return reflect.DeepEqual(kept, want)
		},
		genColumns(),
		genTitleList(),
	))

	properties.Property("both filters equal include then exclude", prop.ForAll(
		func(columns []kanboard.Column, include, exclude []string) bool {
			both := FilterColumns(columns, include, exclude)
			sequential := FilterColumns(FilterColumns(columns, include, nil), nil, exclude)
			return reflect.DeepEqual(both, sequential)
		},
		genColumns(),
		genTitleList(),
		genTitleList(),
	))

	properties.Property("filtering preserves remote order", prop.ForAll(
		func(columns []kanboard.Column, include, exclude []string) bool {
			kept := FilterColumns(columns, include, exclude)
			// kept must be a subsequence of columns
			i := 0
			for _, column := range columns {
				if i < len(kept) && reflect.DeepEqual(kept[i], column) {
					i++
				}
			}
			return i == len(kept)
		},
		genColumns(),
		genTitleList(),
		genTitleList(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFilterColumnsExactMatch(t *testing.T) {
	columns := []kanboard.Column{
		{ID: 1, Title: "Doing"},
		{ID: 2, Title: "doing"},
	}

	kept := FilterColumns(columns, []string{"Doing"}, nil)
	if len(kept) != 1 || kept[0].ID != 1 {
		t.Fatalf("title match must be exact, got %v", kept)
	}
}
