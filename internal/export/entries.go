package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jwulff/picolor-go/internal/altitude"
	"github.com/jwulff/picolor-go/internal/domain"
)

// WithHeights returns the entries with the derived height filled in relative
// to the calibration reference. With no reference the entries pass through
// unchanged.
func WithHeights(entries []domain.SensorEntry, reference *domain.SensorEntry) []domain.SensorEntry {
	if reference == nil {
		return entries
	}
	result := make([]domain.SensorEntry, len(entries))
	for i, entry := range entries {
		height := altitude.HeightFrom(entry.SensorData, *reference)
		entry.Height = &height
		result[i] = entry
	}
	return result
}

// EntriesJSON renders entries as the downloadable JSON document.
func EntriesJSON(entries []domain.SensorEntry, reference *domain.SensorEntry) (string, error) {
	document := struct {
		Entries []domain.SensorEntry `json:"entries"`
	}{Entries: WithHeights(entries, reference)}

	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode entries: %w", err)
	}
	return string(data), nil
}

// EntriesCSV renders entries as CSV with one flattened column per leaf
// value. The header is the sorted union of all columns, so entries with and
// without a location still line up.
func EntriesCSV(entries []domain.SensorEntry, reference *domain.SensorEntry) (string, error) {
	rows := make([]map[string]any, 0, len(entries))
	for _, entry := range WithHeights(entries, reference) {
		row, err := Flatten(entry)
		if err != nil {
			return "", err
		}
		rows = append(rows, row)
	}

	headers := sortedKeys(rows)

	var buf strings.Builder
	writer := csv.NewWriter(&buf)
	if err := writer.Write(headers); err != nil {
		return "", err
	}
	for _, row := range rows {
		record := make([]string, len(headers))
		for i, header := range headers {
			record[i] = formatCell(row[header])
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
