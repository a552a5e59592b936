// Package catalog holds named campus destinations.
package catalog

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/LdDl/campusnav"
)

// Destination is named place users can navigate to.
type Destination struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	ImageURL string  `json:"image_url,omitempty"`
}

// GeoPoint returns location of destination.
func (d Destination) GeoPoint() campusnav.GeoPoint {
	return campusnav.GeoPoint{Lat: d.Lat, Lon: d.Lon}
}

// Catalog is read-only ordered list of destinations.
type Catalog struct {
	items []Destination
}

// New returns catalog of given destinations (order is kept).
func New(items []Destination) *Catalog {
	copied := make([]Destination, len(items))
	copy(copied, items)
	return &Catalog{items: copied}
}

// Read decodes JSON array of destinations.
func Read(r io.Reader) (*Catalog, error) {
	var items []Destination
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, errors.Wrap(err, "Can't decode destinations")
	}
	for _, item := range items {
		if item.Lat < -90 || item.Lat > 90 || item.Lon < -180 || item.Lon > 180 {
			return nil, errors.Errorf("Destination '%s' has invalid coordinates", item.Name)
		}
	}
	return &Catalog{items: items}, nil
}

// Load reads catalog from file. Empty path gives empty catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(nil), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer file.Close()
	return Read(file)
}

// All returns copy of every destination in catalog order.
func (c *Catalog) All() []Destination {
	items := make([]Destination, len(c.items))
	copy(items, c.items)
	return items
}

// Len returns number of destinations.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Find returns the first destination whose name contains query (case-insensitive).
// Blank query matches nothing.
func (c *Catalog) Find(query string) (Destination, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Destination{}, false
	}
	for _, item := range c.items {
		if strings.Contains(strings.ToLower(item.Name), query) {
			return item, true
		}
	}
	return Destination{}, false
}
