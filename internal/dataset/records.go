package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/juliecor/zonal-backend/internal/models"
)

// headerTokens identify an optional header row in a record file.
var headerTokens = []string{"region", "province", "municipality", "barangay", "street", "vicinity", "classification", "zonal"}

// DecodeRecords reads a CSV or TSV record file. The delimiter is
// auto-detected from the first line and a header row is skipped when
// its cells contain known column names. Rows have up to 8 positional
// fields; trailing fields are optional. An unparseable zonal value
// becomes NaN, never an error.
func DecodeRecords(r io.Reader) ([]models.Record, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(string(first))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []models.Record
	rowIdx := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rowIdx++
		if rowIdx == 1 && isHeaderRow(row) {
			continue
		}
		if isEmptyRow(row) {
			continue
		}
		records = append(records, rowToRecord(row))
	}
	return records, nil
}

func detectDelimiter(firstLine string) rune {
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}
	if strings.Count(firstLine, "\t") > strings.Count(firstLine, ",") {
		return '\t'
	}
	return ','
}

func isHeaderRow(row []string) bool {
	for _, cell := range row {
		cell = strings.ToLower(strings.TrimSpace(cell))
		for _, token := range headerTokens {
			if cell == token || strings.HasPrefix(cell, token+" ") {
				return true
			}
		}
	}
	return false
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func rowToRecord(row []string) models.Record {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return models.Record{
		Region:         field(0),
		Province:       field(1),
		Municipality:   field(2),
		Barangay:       field(3),
		Street:         field(4),
		Vicinity:       field(5),
		Classification: field(6),
		ZonalValue:     parseZonalValue(field(7)),
	}
}

// parseZonalValue tolerates currency symbols and thousands separators;
// anything that still fails to parse is recorded as NaN so matching
// can penalize it instead of crashing.
func parseZonalValue(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₱")
	s = strings.TrimPrefix(s, "PHP")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
