package campusnav

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	surveyColumnsID       = []string{"s.no", "sno", "id", "vertex_id"}
	surveyColumnsLat      = []string{"latitudinal", "latitude", "lat"}
	surveyColumnsLon      = []string{"longitudinal", "longitude", "lon", "lng"}
	surveyColumnsCategory = []string{"colour", "color", "category"}
	surveyColumnsNext     = []string{"next", "series"}

	edgeColumnsSource = []string{"from", "source", "from_vertex_id", "source_node"}
	edgeColumnsTarget = []string{"to", "target", "to_vertex_id", "target_node"}
	edgeColumnsWeight = []string{"distance", "weight", "length", "length_meters"}
)

type csvOptions struct {
	comma       rune
	skipInvalid bool
}

// WithComma sets field delimiter. Default is ','
func WithComma(comma rune) func(*csvOptions) {
	return func(opts *csvOptions) {
		opts.comma = comma
	}
}

// WithSkipInvalid makes reader drop rows having non-numeric coordinates instead of failing
func WithSkipInvalid(skip bool) func(*csvOptions) {
	return func(opts *csvOptions) {
		opts.skipInvalid = skip
	}
}

func newCSVReader(r io.Reader, options ...func(*csvOptions)) (*csv.Reader, *csvOptions) {
	opts := &csvOptions{comma: ','}
	for _, option := range options {
		option(opts)
	}
	reader := csv.NewReader(r)
	reader.Comma = opts.comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader, opts
}

// csvHeader maps normalized column names to their positions
type csvHeader map[string]int

func readHeader(reader *csv.Reader) (csvHeader, error) {
	row, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("No header")
		}
		return nil, errors.Wrap(err, "Can't read header")
	}
	header := make(csvHeader, len(row))
	for i, name := range row {
		name = strings.TrimPrefix(name, "\ufeff")
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return header, nil
}

// column returns position of the first matching alias or -1
func (header csvHeader) column(aliases []string) int {
	for _, alias := range aliases {
		if idx, ok := header[alias]; ok {
			return idx
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ReadSurveyCSV reads surveyed points. Header is required; recognized columns are
// 's.no'/'id', 'latitudinal'/'lat', 'longitudinal'/'lon', 'colour'/'category' and optional 'next'/'series'
// (identifiers separated by '|')
func ReadSurveyCSV(r io.Reader, options ...func(*csvOptions)) ([]SurveyPoint, error) {
	reader, opts := newCSVReader(r, options...)
	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}
	idIdx := header.column(surveyColumnsID)
	latIdx := header.column(surveyColumnsLat)
	lonIdx := header.column(surveyColumnsLon)
	if idIdx < 0 || latIdx < 0 || lonIdx < 0 {
		return nil, fmt.Errorf("Header must contain id, latitude and longitude columns")
	}
	categoryIdx := header.column(surveyColumnsCategory)
	nextIdx := header.column(surveyColumnsNext)

	points := []SurveyPoint{}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "Can't read line %d", line)
		}
		if isBlankRow(row) {
			continue
		}
		lat, errLat := strconv.ParseFloat(cell(row, latIdx), 64)
		lon, errLon := strconv.ParseFloat(cell(row, lonIdx), 64)
		if errLat != nil || errLon != nil {
			if opts.skipInvalid {
				continue
			}
			return nil, fmt.Errorf("Bad coordinates on line %d: '%s', '%s'", line, cell(row, latIdx), cell(row, lonIdx))
		}
		id, err := strconv.ParseInt(cell(row, idIdx), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse id on line %d", line)
		}
		next, err := parseLinkage(cell(row, nextIdx))
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse linkage on line %d", line)
		}
		points = append(points, SurveyPoint{
			ID:       NodeID(id),
			Lat:      lat,
			Lon:      lon,
			Category: Category(strings.ToLower(cell(row, categoryIdx))),
			Next:     next,
		})
	}
	return points, nil
}

func parseLinkage(s string) ([]NodeID, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "|")
	next := make([]NodeID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		next = append(next, NodeID(id))
	}
	return next, nil
}

// ReadEdgesCSV reads explicit connectivity: 'from', 'to' and optional 'distance' columns.
// Empty distance means that weight has to be evaluated from coordinates
func ReadEdgesCSV(r io.Reader, options ...func(*csvOptions)) ([]EdgeRecord, error) {
	reader, _ := newCSVReader(r, options...)
	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}
	sourceIdx := header.column(edgeColumnsSource)
	targetIdx := header.column(edgeColumnsTarget)
	if sourceIdx < 0 || targetIdx < 0 {
		return nil, fmt.Errorf("Header must contain source and target columns")
	}
	weightIdx := header.column(edgeColumnsWeight)

	edges := []EdgeRecord{}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "Can't read line %d", line)
		}
		if isBlankRow(row) {
			continue
		}
		source, err := strconv.ParseInt(cell(row, sourceIdx), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse source on line %d", line)
		}
		target, err := strconv.ParseInt(cell(row, targetIdx), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse target on line %d", line)
		}
		record := EdgeRecord{Source: NodeID(source), Target: NodeID(target)}
		if raw := cell(row, weightIdx); raw != "" {
			weight, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "Can't parse weight on line %d", line)
			}
			record.Weight = weight
			record.HasWeight = true
		}
		edges = append(edges, record)
	}
	return edges, nil
}
