package processor

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/woozymasta/topoloc/internal/config"
	"github.com/woozymasta/topoloc/internal/geo"
	"github.com/woozymasta/topoloc/internal/topology"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"gopkg.in/yaml.v3"
)

// yamlLocation adds the optional H3 cell to a row.
type yamlLocation struct {
	geo.Location `yaml:",inline"`
	H3           string `yaml:"h3,omitempty"`
}

// encode renders locations in the job format.
func encode(job config.Job, locs []geo.Location) ([]byte, error) {
	switch job.Format {
	case config.FormatGeoJSON:
		return encodeGeoJSON(job, locs)
	case config.FormatYAML:
		return encodeYAML(job, locs)
	case config.FormatText, "":
		return encodeText(locs), nil
	default:
		return nil, eris.Errorf("unknown format %q", job.Format)
	}
}

// encodeText writes the header and one unquoted line per location.
func encodeText(locs []geo.Location) []byte {
	var buf bytes.Buffer
	buf.Grow((len(locs) + 1) * 32)

	buf.WriteString(geo.Header)
	buf.WriteByte('\n')
	for _, l := range locs {
		buf.WriteString(l.String())
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

func encodeGeoJSON(job config.Job, locs []geo.Location) ([]byte, error) {
	fc := geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(locs)),
	}

	for i, l := range locs {
		f, err := geo.Feature(l, job.H3Resolution)
		if err != nil {
			return nil, coordinateError(job.Input, i, err)
		}
		fc.Features = append(fc.Features, f)
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "marshal geojson")
	}

	return append(data, '\n'), nil
}

func encodeYAML(job config.Job, locs []geo.Location) ([]byte, error) {
	rows := make([]yamlLocation, len(locs))

	for i, l := range locs {
		rows[i].Location = l
		if job.H3Resolution <= 0 {
			continue
		}

		cell, err := geo.H3Cell(l, job.H3Resolution)
		if err != nil {
			return nil, coordinateError(job.Input, i, err)
		}
		rows[i].H3 = cell
	}

	data, err := yaml.Marshal(rows)
	if err != nil {
		return nil, eris.Wrap(err, "marshal yaml")
	}

	return data, nil
}

// coordinateError reports a non-numeric coordinate as a schema error of its source property.
func coordinateError(path string, index int, err error) error {
	var ce *geo.CoordinateError
	if !errors.As(err, &ce) {
		return err
	}

	field := topology.PropertyLatitude
	if ce.Field == "longitude" {
		field = topology.PropertyLongitude
	}

	return &topology.SchemaError{
		Path:   path,
		Field:  "properties." + field,
		Reason: "is not a number: " + ce.Value,
		Index:  index,
	}
}
