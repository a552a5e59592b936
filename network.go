package campusnav

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// GeomFormat is encoding of geometry column in exported files
type GeomFormat uint16

const (
	GEOM_WKT = GeomFormat(iota + 1)
	GEOM_GEOJSON
)

func (iotaIdx GeomFormat) String() string {
	if iotaIdx < GEOM_WKT || iotaIdx > GEOM_GEOJSON {
		return "undefined"
	}
	return [...]string{"wkt", "geojson"}[iotaIdx-1]
}

// ParseGeomFormat returns geometry format for given textual representation
func ParseGeomFormat(s string) (GeomFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wkt", "":
		return GEOM_WKT, nil
	case "geojson":
		return GEOM_GEOJSON, nil
	default:
		return 0, fmt.Errorf("Unknown geometry format '%s'", s)
	}
}

func (iotaIdx GeomFormat) point(pt GeoPoint) string {
	if iotaIdx == GEOM_GEOJSON {
		return PrepareGeoJSONPoint(pt)
	}
	return PrepareWKTPoint(pt)
}

func (iotaIdx GeomFormat) line(pts []GeoPoint) string {
	if iotaIdx == GEOM_GEOJSON {
		return PrepareGeoJSONLinestring(pts)
	}
	return PrepareWKTLinestring(pts)
}

// ExportToCSV writes two files: '<name>_nodes.csv' and '<name>_edges.csv'
func (graph *Graph) ExportToCSV(fname string, geomFormat GeomFormat) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameNodes := fnameParts[0] + "_nodes.csv"
	fnameEdges := fnameParts[0] + "_edges.csv"

	err := graph.exportNodesToCSV(fnameNodes, geomFormat)
	if err != nil {
		return errors.Wrap(err, "Can't export nodes")
	}

	err = graph.exportEdgesToCSV(fnameEdges, geomFormat)
	if err != nil {
		return errors.Wrap(err, "Can't export edges")
	}
	return nil
}

func (graph *Graph) exportNodesToCSV(fname string, geomFormat GeomFormat) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = ';'

	err = writer.Write([]string{"id", "latitude", "longitude", "category", "degree", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, node := range graph.nodes {
		err = writer.Write([]string{
			fmt.Sprintf("%d", node.ID),
			fmt.Sprintf("%f", node.Lat),
			fmt.Sprintf("%f", node.Lon),
			string(node.Category),
			fmt.Sprintf("%d", len(graph.adjacency[node.ID])),
			geomFormat.point(node.GeoPoint()),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write node")
		}
	}
	return closeCSV(file, writer)
}

func (graph *Graph) exportEdgesToCSV(fname string, geomFormat GeomFormat) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = ';'

	err = writer.Write([]string{"from", "to", "distance", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, edge := range graph.edges {
		source, _ := graph.Node(edge.Source)
		target, _ := graph.Node(edge.Target)
		err = writer.Write([]string{
			fmt.Sprintf("%d", edge.Source),
			fmt.Sprintf("%d", edge.Target),
			fmt.Sprintf("%f", edge.Weight),
			geomFormat.line([]GeoPoint{source.GeoPoint(), target.GeoPoint()}),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write edge")
		}
	}
	return closeCSV(file, writer)
}

// closeCSV flushes buffered rows and closes file, reporting the first failure
func closeCSV(file *os.File, writer *csv.Writer) error {
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return errors.Wrap(err, "Can't flush rows")
	}
	if err := file.Close(); err != nil {
		return errors.Wrap(err, "Can't close file")
	}
	return nil
}
