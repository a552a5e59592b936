package campusnav

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OSMConfiguration allows to filter ways by certain tags from OSM data
type OSMConfiguration struct {
	EntityName string // Currently we support 'highway' only
	// Tags is list of accepted values. Empty list accepts any value of EntityName
	Tags []string
}

// DefaultOSMConfiguration accepts every way a pedestrian could walk on campus
func DefaultOSMConfiguration() OSMConfiguration {
	return OSMConfiguration{
		EntityName: "highway",
		Tags: []string{
			"footway", "path", "pedestrian", "steps", "living_street", "service",
			"residential", "unclassified", "tertiary", "secondary", "primary", "track", "cycleway",
		},
	}
}

// CheckTag checks if incoming tag is represented in configuration
func (cfg *OSMConfiguration) CheckTag(tag string) bool {
	if len(cfg.Tags) == 0 {
		return true
	}
	for i := range cfg.Tags {
		if cfg.Tags[i] == tag {
			return true
		}
	}
	return false
}

// OSMFormat is encoding of OSM file
type OSMFormat uint16

const (
	OSM_XML = OSMFormat(iota + 1)
	OSM_PBF
)

func (iotaIdx OSMFormat) String() string {
	if iotaIdx < OSM_XML || iotaIdx > OSM_PBF {
		return "undefined"
	}
	return [...]string{"xml", "pbf"}[iotaIdx-1]
}

// GuessOSMFormat returns format for given filename using its extension
func GuessOSMFormat(filename string) (OSMFormat, error) {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".osm.pbf") {
		return OSM_PBF, nil
	}
	ext := filepath.Ext(lower)
	switch ext {
	case ".osm", ".xml":
		return OSM_XML, nil
	case ".pbf":
		return OSM_PBF, nil
	default:
		return 0, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, filename)
	}
}
