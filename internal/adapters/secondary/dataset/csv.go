package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gpenessot/deckgen/internal/domain/entities"
	"github.com/gpenessot/deckgen/internal/domain/ports"
)

// CSVLoader loads catalog-style CSV files into cleaned datasets
type CSVLoader struct{}

// NewCSVLoader creates a new CSV dataset loader
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// Load reads, cleans and enriches the CSV at path. Rows with empty cells are
// dropped, and derivable columns (duration_min, genre, year_added) are
// appended when their source columns are present.
func (l *CSVLoader) Load(ctx context.Context, path string) (*entities.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path) // #nosec G304 - dataset path is the caller's own input
	if err != nil {
		if os.IsNotExist(err) {
			return nil, entities.NewNotFoundError(path, err)
		}
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, entities.NewFormatError(path, err)
	}

	if len(records) < 2 {
		return nil, entities.NewFormatError(path, fmt.Errorf("dataset needs a header and at least one row"))
	}

	columns := records[0]
	rows := dropIncompleteRows(records[1:])

	columns, rows = enrich(columns, rows)
	return entities.NewDataset(columns, rows), nil
}

// dropIncompleteRows removes rows with any empty cell
func dropIncompleteRows(records [][]string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		complete := true
		for _, cell := range record {
			if strings.TrimSpace(cell) == "" {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, record)
		}
	}
	return rows
}

// enrich appends derived columns when their sources exist
func enrich(columns []string, rows [][]string) ([]string, [][]string) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	type derivation struct {
		name   string
		derive func(row []string) string
	}

	var derivations []derivation

	if durIdx, ok := index["duration"]; ok {
		typeIdx, hasType := index["type"]
		derivations = append(derivations, derivation{
			name: "duration_min",
			derive: func(row []string) string {
				// Minutes only make sense for movies; series durations
				// are season counts
				if hasType && !strings.EqualFold(row[typeIdx], "Movie") {
					return ""
				}
				return extractNumber(row[durIdx])
			},
		})
	}

	if listIdx, ok := index["listed_in"]; ok {
		derivations = append(derivations, derivation{
			name: "genre",
			derive: func(row []string) string {
				return strings.TrimSpace(strings.SplitN(row[listIdx], ",", 2)[0])
			},
		})
	}

	if dateIdx, ok := index["date_added"]; ok {
		derivations = append(derivations, derivation{
			name: "year_added",
			derive: func(row []string) string {
				return extractYear(row[dateIdx])
			},
		})
	}

	if len(derivations) == 0 {
		return columns, rows
	}

	for _, d := range derivations {
		columns = append(columns, d.name)
	}
	for i, row := range rows {
		for _, d := range derivations {
			row = append(row, d.derive(row))
		}
		rows[i] = row
	}
	return columns, rows
}

var numberPattern = regexp.MustCompile(`\d+`)

// extractNumber pulls the first integer out of a value like "90 min"
func extractNumber(s string) string {
	return numberPattern.FindString(s)
}

// dateLayouts are the formats seen in mixed catalog exports
var dateLayouts = []string{
	"January 2, 2006",
	"2-Jan-06",
	"2006-01-02",
	"01/02/2006",
}

// extractYear parses a date string in any known layout and returns its year
func extractYear(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return strconv.Itoa(t.Year())
		}
	}
	return ""
}

// Ensure CSVLoader implements ports.DatasetLoader
var _ ports.DatasetLoader = (*CSVLoader)(nil)
