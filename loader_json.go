package campusnav

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// raw structures matching the JSON network document
type rawNetwork struct {
	Nodes []rawNode `json:"nodes"`
	Edges []rawEdge `json:"edges"`
}

type rawNode struct {
	ID       int64   `json:"id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Category string  `json:"category"`
	Next     []int64 `json:"next"`
}

type rawEdge struct {
	From     int64    `json:"from"`
	To       int64    `json:"to"`
	Distance *float64 `json:"distance"`
}

// ReadNetworkJSON reads network document: {"nodes": [{id, lat, lon, category, next}], "edges": [{from, to, distance}]}.
// Edge distance is optional
func ReadNetworkJSON(r io.Reader) (SurveyData, error) {
	var raw rawNetwork
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return SurveyData{}, errors.Wrap(err, "Can't decode network")
	}
	data := SurveyData{
		Points: make([]SurveyPoint, 0, len(raw.Nodes)),
		Edges:  make([]EdgeRecord, 0, len(raw.Edges)),
	}
	for _, n := range raw.Nodes {
		point := SurveyPoint{
			ID:       NodeID(n.ID),
			Lat:      n.Lat,
			Lon:      n.Lon,
			Category: Category(n.Category),
		}
		for _, next := range n.Next {
			point.Next = append(point.Next, NodeID(next))
		}
		data.Points = append(data.Points, point)
	}
	for _, e := range raw.Edges {
		record := EdgeRecord{Source: NodeID(e.From), Target: NodeID(e.To)}
		if e.Distance != nil {
			record.Weight = *e.Distance
			record.HasWeight = true
		}
		data.Edges = append(data.Edges, record)
	}
	return data, nil
}
