package campusnav

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// NetworkSource describes where network data comes from
type NetworkSource struct {
	// Format is one of: csv, json, osm, pbf
	Format string
	// NodesFile is survey points CSV, JSON network document or OSM file depending on Format
	NodesFile string
	// EdgesFile is optional explicit connectivity CSV (csv format only)
	EdgesFile string
	// Comma is CSV delimiter. Zero means ','
	Comma rune
	// SkipInvalid drops CSV rows with non-numeric coordinates
	SkipInvalid bool
	OSM         OSMConfiguration
}

// String returns short human readable description of the source
func (source NetworkSource) String() string {
	if source.EdgesFile != "" {
		return fmt.Sprintf("%s:%s+%s", source.Format, source.NodesFile, source.EdgesFile)
	}
	return fmt.Sprintf("%s:%s", source.Format, source.NodesFile)
}

// LoadSurveyData reads survey points and edges from given source
func LoadSurveyData(ctx context.Context, source NetworkSource) (SurveyData, error) {
	switch strings.ToLower(source.Format) {
	case "csv", "":
		return loadCSV(source)
	case "json":
		file, err := os.Open(source.NodesFile)
		if err != nil {
			return SurveyData{}, errors.Wrap(err, "File open")
		}
		defer file.Close()
		return ReadNetworkJSON(file)
	case "osm", "pbf", "xml":
		format, err := GuessOSMFormat(source.NodesFile)
		if err != nil {
			return SurveyData{}, err
		}
		file, err := os.Open(source.NodesFile)
		if err != nil {
			return SurveyData{}, errors.Wrap(err, "File open")
		}
		defer file.Close()
		return ReadOSM(ctx, file, format, source.OSM)
	default:
		return SurveyData{}, fmt.Errorf("Network format '%s' is not handled yet", source.Format)
	}
}

func loadCSV(source NetworkSource) (SurveyData, error) {
	options := []func(*csvOptions){WithSkipInvalid(source.SkipInvalid)}
	if source.Comma != 0 {
		options = append(options, WithComma(source.Comma))
	}
	fileNodes, err := os.Open(source.NodesFile)
	if err != nil {
		return SurveyData{}, errors.Wrap(err, "File open")
	}
	defer fileNodes.Close()
	points, err := ReadSurveyCSV(fileNodes, options...)
	if err != nil {
		return SurveyData{}, errors.Wrapf(err, "Can't read points from '%s'", source.NodesFile)
	}
	data := SurveyData{Points: points}
	if source.EdgesFile == "" {
		return data, nil
	}
	fileEdges, err := os.Open(source.EdgesFile)
	if err != nil {
		return SurveyData{}, errors.Wrap(err, "File open")
	}
	defer fileEdges.Close()
	data.Edges, err = ReadEdgesCSV(fileEdges, options...)
	if err != nil {
		return SurveyData{}, errors.Wrapf(err, "Can't read edges from '%s'", source.EdgesFile)
	}
	return data, nil
}

// BuildNetwork loads data, constructs graph with given policy and prepares locator and solver
func BuildNetwork(ctx context.Context, source NetworkSource, policy ConnectivityPolicy, options ...func(*Network)) (*Network, error) {
	data, err := LoadSurveyData(ctx, source)
	if err != nil {
		return nil, errors.Wrap(err, "Can't load network data")
	}
	graph, err := NewGraph(data, policy)
	if err != nil {
		return nil, errors.Wrap(err, "Can't build graph")
	}
	options = append([]func(*Network){WithSource(source.String())}, options...)
	network, err := NewNetwork(graph, options...)
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare network")
	}
	return network, nil
}
