// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package geo

import (
	"context"
	"errors"
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"
)

// ErrMapAsset marks every failure to obtain or parse the map geometry.
// Callers test for it with errors.Is and show an inline warning.
var ErrMapAsset = errors.New("map asset unavailable")

// AssetLoader provides the world-map geometry.
type AssetLoader interface {
	Load(ctx context.Context) (*geojson.FeatureCollection, error)
}

// FileAsset loads the geometry from a GeoJSON file on disk. The file is
// read on every call so edits show up on the next map entry.
type FileAsset struct {
	Path string
}

// Load reads and parses the file.
func (a FileAsset) Load(ctx context.Context) (*geojson.FeatureCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMapAsset, err)
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrMapAsset, a.Path, err)
	}
	return ParseAsset(data)
}

// ParseAsset decodes a GeoJSON feature collection.
func ParseAsset(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrMapAsset, err)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("%w: no features", ErrMapAsset)
	}
	return fc, nil
}

// FeatureName returns the feature's "name" property, used for matching.
func FeatureName(f *geojson.Feature) string {
	return stringProperty(f, "name")
}

// FeatureLabel returns the display name: ADMIN if present, then name.
func FeatureLabel(f *geojson.Feature) string {
	if s := stringProperty(f, "ADMIN"); s != "" {
		return s
	}
	if s := stringProperty(f, "name"); s != "" {
		return s
	}
	return "Unknown"
}

func stringProperty(f *geojson.Feature, key string) string {
	if f == nil || f.Properties == nil {
		return ""
	}
	s, _ := f.Properties[key].(string)
	return s
}
