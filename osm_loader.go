package campusnav

import (
	"context"
	"io"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

// OSMScanner is common interface of osmxml and osmpbf scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

func newOSMScanner(ctx context.Context, r io.Reader, format OSMFormat) (OSMScanner, error) {
	switch format {
	case OSM_XML:
		return osmxml.New(ctx, r), nil
	case OSM_PBF:
		return osmpbf.New(ctx, r, 4), nil
	default:
		return nil, errors.Errorf("OSM format %d is not supported", format)
	}
}

// ReadOSM extracts survey data from OSM file. Ways passing configuration filter give explicit edges between
// consecutive way nodes (weights are left for evaluation from coordinates); every referenced node becomes a point
// with category equal to the tag value of the first way it belongs to. Way direction is ignored: network is undirected.
//
// Two passes are made (ways, then nodes), so reader must be seekable
func ReadOSM(ctx context.Context, rs io.ReadSeeker, format OSMFormat, cfg OSMConfiguration) (SurveyData, error) {
	if cfg.EntityName == "" {
		cfg.EntityName = "highway"
	}

	/* Process ways */
	edges := []EdgeRecord{}
	nodesSeen := make(map[osm.NodeID]Category)
	{
		scannerWays, err := newOSMScanner(ctx, rs, format)
		if err != nil {
			return SurveyData{}, err
		}
		for scannerWays.Scan() {
			obj := scannerWays.Object()
			if obj.ObjectID().Type() != "way" {
				continue
			}
			way := obj.(*osm.Way)
			tag := way.Tags.Find(cfg.EntityName)
			if tag == "" || !cfg.CheckTag(tag) {
				continue
			}
			for i, node := range way.Nodes {
				if _, ok := nodesSeen[node.ID]; !ok {
					nodesSeen[node.ID] = Category(tag)
				}
				if i == 0 || way.Nodes[i-1].ID == node.ID {
					continue
				}
				edges = append(edges, EdgeRecord{Source: NodeID(way.Nodes[i-1].ID), Target: NodeID(node.ID)})
			}
		}
		err = scannerWays.Err()
		scannerWays.Close()
		if err != nil {
			return SurveyData{}, errors.Wrap(err, "Scanner error on Ways")
		}
	}

	// Seek file to start
	_, err := rs.Seek(0, io.SeekStart)
	if err != nil {
		return SurveyData{}, errors.Wrap(err, "Can't repeat seeking after ways scanning")
	}

	/* Process nodes */
	points := make([]SurveyPoint, 0, len(nodesSeen))
	found := make(map[NodeID]struct{}, len(nodesSeen))
	{
		scannerNodes, err := newOSMScanner(ctx, rs, format)
		if err != nil {
			return SurveyData{}, err
		}
		for scannerNodes.Scan() {
			obj := scannerNodes.Object()
			if obj.ObjectID().Type() != "node" {
				continue
			}
			node := obj.(*osm.Node)
			category, ok := nodesSeen[node.ID]
			if !ok {
				continue
			}
			if _, ok := found[NodeID(node.ID)]; ok {
				continue
			}
			found[NodeID(node.ID)] = struct{}{}
			points = append(points, SurveyPoint{
				ID:       NodeID(node.ID),
				Lat:      node.Lat,
				Lon:      node.Lon,
				Category: category,
			})
		}
		err = scannerNodes.Err()
		scannerNodes.Close()
		if err != nil {
			return SurveyData{}, errors.Wrap(err, "Scanner error on Nodes")
		}
	}

	// Extracts clipped by bounding box reference nodes which are not in the file: drop such edges
	filtered := edges[:0]
	for _, edge := range edges {
		_, okSource := found[edge.Source]
		_, okTarget := found[edge.Target]
		if okSource && okTarget {
			filtered = append(filtered, edge)
		}
	}
	return SurveyData{Points: points, Edges: filtered}, nil
}
