// Package series groups flat measurement lists into per-side sub-series for
// charting and derives the matching legend.
package series

import (
	"time"

	"github.com/physiotrack/physio-sync/internal/models"
)

// Point is one (date, value) pair of a charted sub-series
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// LegendEntry names a non-empty sub-series and its assigned color
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var sideLabels = map[models.Side]string{
	models.SideSingle:        "Single",
	models.SideRight:         "Right",
	models.SideLeft:          "Left",
	models.SideRightInternal: "Right Internal Rotation",
	models.SideLeftInternal:  "Left Internal Rotation",
	models.SideRightExternal: "Right External Rotation",
	models.SideLeftExternal:  "Left External Rotation",
}

var sideColors = map[models.Side]string{
	models.SideSingle:        "blue",
	models.SideRight:         "green",
	models.SideLeft:          "red",
	models.SideRightInternal: "green",
	models.SideLeftInternal:  "red",
	models.SideRightExternal: "teal",
	models.SideLeftExternal:  "orange",
}

// GroupBySide partitions records into the seven fixed side buckets. Records
// with an unrecognized side tag land in the Single bucket; every record lands
// in exactly one bucket. Record order within a bucket follows input order.
func GroupBySide(records []models.MeasurementRecord) map[models.Side][]Point {
	groups := make(map[models.Side][]Point, len(models.SideOrder))
	for _, side := range models.SideOrder {
		groups[side] = []Point{}
	}

	for _, rec := range records {
		side := models.ParseSide(rec.Side)
		groups[side] = append(groups[side], Point{Date: rec.TestDate, Value: rec.Value})
	}

	return groups
}

// Legend derives the chart legend: one (label, color) entry per non-empty
// bucket, in the fixed side order.
func Legend(groups map[models.Side][]Point) []LegendEntry {
	var legend []LegendEntry
	for _, side := range models.SideOrder {
		if len(groups[side]) == 0 {
			continue
		}
		legend = append(legend, LegendEntry{
			Label: sideLabels[side],
			Color: sideColors[side],
		})
	}
	return legend
}
