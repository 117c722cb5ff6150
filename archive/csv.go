package archive

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/akononovicius/flicker-snorp/experiment"
)

// ErrMalformed is returned when a PSD file cannot be parsed.
var ErrMalformed = errors.New("archive: malformed psd file")

// Spectrum is the content of a PSD file.
type Spectrum struct {
	Freqs     []float64
	Empirical []float64
	Theory    []float64
}

// WriteCSV writes one row per frequency: log10 of the frequency, the
// simulated PSD and the theoretical PSD, each with four decimals.
func WriteCSV(w io.Writer, s Spectrum) error {
	n := len(s.Freqs)
	if len(s.Empirical) != n || len(s.Theory) != n {
		return fmt.Errorf("archive: column lengths differ: freqs=%d empirical=%d theory=%d",
			n, len(s.Empirical), len(s.Theory))
	}

	cw := csv.NewWriter(w)
	row := make([]string, 3)
	for i := range n {
		row[0] = formatLog(s.Freqs[i])
		row[1] = formatLog(s.Empirical[i])
		row[2] = formatLog(s.Theory[i])
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV and undoes the logarithm.
func ReadCSV(r io.Reader) (Spectrum, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	var s Spectrum
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		if err != nil {
			return Spectrum{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		vals := make([]float64, 3)
		for j, field := range rec {
			v, err := parseLog(field)
			if err != nil {
				return Spectrum{}, fmt.Errorf("%w: line %d column %d: %w", ErrMalformed, line, j+1, err)
			}
			vals[j] = v
		}
		s.Freqs = append(s.Freqs, vals[0])
		s.Empirical = append(s.Empirical, vals[1])
		s.Theory = append(s.Theory, vals[2])
	}
}

// Save writes the averaged and theoretical PSD of res into dir and returns
// the file path. The directory is created if needed.
func Save(dir string, res *experiment.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	path := filepath.Join(dir, FileName(res.Pulse, res.Gap, res.Seed))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	werr := WriteCSV(f, Spectrum{Freqs: res.Freqs, Empirical: res.Empirical, Theory: res.Theory})
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, werr)
	}
	return path, nil
}

// Load reads a PSD file from disk.
func Load(path string) (Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return Spectrum{}, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func formatLog(v float64) string {
	l := math.Log10(v)
	switch {
	case math.IsNaN(l):
		return "nan"
	case math.IsInf(l, 1):
		return "inf"
	case math.IsInf(l, -1):
		return "-inf"
	}
	return strconv.FormatFloat(l, 'f', 4, 64)
}

func parseLog(field string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "nan":
		return math.NaN(), nil
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return 0, nil
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, err
	}
	return math.Pow(10, l), nil
}
