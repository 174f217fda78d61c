package services

import (
	"encoding/binary"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// encodeGeometry parses a GeoJSON LineString and returns its WKB encoding.
// An empty input clears the geometry.
func encodeGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, BadRequest("Invalid geometry: %v", err)
	}
	line, ok := g.(*geom.LineString)
	if !ok {
		return nil, BadRequest("Invalid geometry: expected LineString")
	}
	if line.NumCoords() < 2 {
		return nil, BadRequest("Invalid geometry: a path needs at least two points")
	}
	return wkb.Marshal(line, binary.LittleEndian)
}

// DecodeGeometry converts stored WKB back into a GeoJSON string.
func DecodeGeometry(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(raw)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
