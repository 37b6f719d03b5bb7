// Package report derives the summary tables the loaded datasets exist to
// answer: average median earnings per college control type and academic year,
// and average median earnings per state joined against the boundary table.
package report

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/edstats/scorecard/geo"
	"github.com/edstats/scorecard/panel"
	"github.com/edstats/scorecard/schema"
)

const earningsColumn = "MD_EARN_WNE_P10"

// EarningsByControl averages median earnings per (control type, academic
// year), decoding the raw control values to their labels through the
// catalog's decode table. Keys look like "Public, 2013-2014". An unmapped
// control value is an error; rows missing the control value entirely
// contribute nothing.
func EarningsByControl(ds *panel.Dataset, cat *schema.Catalog) (map[string]float64, error) {
	control, ok := cat.Column("CONTROL")
	if !ok {
		return nil, errors.New("catalog has no CONTROL column")
	}
	means, err := ds.MeanBy(earningsColumn, "CONTROL", schema.AcademicYearColumn)
	if err != nil {
		return nil, errors.Wrap(err, "averaging by control and year")
	}
	decoded := make(map[string]float64, len(means))
	for key, mean := range means {
		raw, year, _ := strings.Cut(key, ", ")
		if raw == "" {
			continue
		}
		label, err := control.Label(raw)
		if err != nil {
			return nil, errors.Wrap(err, "decoding control type")
		}
		decoded[label+", "+year] = mean
	}
	return decoded, nil
}

// StateEarnings is one boundary feature joined with the mean earnings of its
// state's institutions. Mean is meaningful only when HasData is true.
type StateEarnings struct {
	Feature *geo.Feature
	Mean    float64
	HasData bool
}

// EarningsByState averages median earnings per state, decodes the raw FIPS
// codes to state names through the catalog's decode table, and left-joins the
// result onto the boundary table by name: every feature appears exactly once,
// in table order, whether or not any institution reported from it. An
// unmapped FIPS code is an error; rows missing the code entirely contribute
// nothing.
func EarningsByState(ds *panel.Dataset, cat *schema.Catalog, boundaries *geo.Table) ([]StateEarnings, error) {
	fips, ok := cat.Column("ST_FIPS")
	if !ok {
		return nil, errors.New("catalog has no ST_FIPS column")
	}
	means, err := ds.MeanBy(earningsColumn, "ST_FIPS")
	if err != nil {
		return nil, errors.Wrap(err, "averaging by state")
	}
	byName := make(map[string]float64, len(means))
	for raw, mean := range means {
		if raw == "" {
			continue
		}
		name, err := fips.Label(raw)
		if err != nil {
			return nil, errors.Wrap(err, "decoding state")
		}
		byName[name] = mean
	}

	joined := make([]StateEarnings, 0, boundaries.Len())
	for _, feature := range boundaries.Features() {
		mean, ok := byName[feature.Name]
		joined = append(joined, StateEarnings{Feature: feature, Mean: mean, HasData: ok})
	}
	return joined, nil
}
