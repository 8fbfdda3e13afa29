package export

import (
	"encoding/json"
	"fmt"

	"github.com/jwulff/picolor-go/internal/domain"
)

// JSONFrom renders the config as an indented JSON document, the same shape
// the store persists.
func JSONFrom(config domain.MatrixConfig) (string, error) {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode matrix: %w", err)
	}
	return string(data), nil
}

// FromJSON accepts either a full MatrixConfig document or a bare sparse
// matrix and merges the pixels into a copy of config. Explicit black triples
// are dropped on the way in, so the result always satisfies the sparse
// representation's invariant.
func FromJSON(config domain.MatrixConfig, text string) (domain.MatrixConfig, error) {
	var probe struct {
		Matrix *domain.SparseMatrix `json:"matrix"`
	}
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return domain.MatrixConfig{}, fmt.Errorf("invalid pasted document: %w", err)
	}

	var matrix domain.SparseMatrix
	if probe.Matrix != nil {
		matrix = *probe.Matrix
	} else {
		if err := json.Unmarshal([]byte(text), &matrix); err != nil {
			return domain.MatrixConfig{}, fmt.Errorf("invalid pasted matrix: %w", err)
		}
	}

	result := config
	result.Matrix = matrix.Normalize()
	return result, nil
}
