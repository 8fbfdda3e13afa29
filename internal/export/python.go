// Package export renders matrices as Python source or JSON documents, parses
// both shapes back, and flattens sensor entries for CSV download.
package export

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jwulff/picolor-go/internal/domain"
)

// ErrNoPixels is returned when pasted Python text contains no numeric
// triples.
var ErrNoPixels = errors.New("no color triples found")

var tripleRe = regexp.MustCompile(`(\d+)\s*,\s*(\d+)\s*,\s*(\d+)`)

// PythonName converts a matrix name to the generated constant's name.
func PythonName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// PythonFrom renders the config as a Python list-of-tuples literal, one row
// per line, with unset pixels written as the black background triple.
func PythonFrom(config domain.MatrixConfig) string {
	rows := make([]string, 0, config.Height)
	for y := 0; y < config.Height; y++ {
		cells := make([]string, 0, config.Width)
		for x := 0; x < config.Width; x++ {
			color, ok := config.Matrix.At(x, y)
			if !ok {
				color = domain.Black
			}
			cells = append(cells, fmt.Sprintf("(%d, %d, %d)", color.R, color.G, color.B))
		}
		rows = append(rows, strings.Join(cells, ", "))
	}
	return fmt.Sprintf("%s = [\n      %s,\n  ]", PythonName(config.Name), strings.Join(rows, ",\n    "))
}

// FromPython extracts numeric triples from pasted Python text and lays them
// out row-major into a copy of config. Triples equal to black are not stored.
// Text without any triples yields ErrNoPixels; the caller decides whether
// that stays silent.
func FromPython(config domain.MatrixConfig, text string) (domain.MatrixConfig, error) {
	matches := tripleRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return domain.MatrixConfig{}, ErrNoPixels
	}

	colors := make([]domain.RGB, 0, len(matches))
	for _, match := range matches {
		r, _ := strconv.Atoi(match[1])
		g, _ := strconv.Atoi(match[2])
		b, _ := strconv.Atoi(match[3])
		colors = append(colors, domain.NewRGB(uint8(r), uint8(g), uint8(b)))
	}

	result := config
	result.Matrix = make(domain.SparseMatrix)
	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			i := y*config.Width + x
			if i >= len(colors) {
				continue
			}
			result.Matrix.Set(x, y, colors[i])
		}
	}
	return result, nil
}
