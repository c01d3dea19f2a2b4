// Package export renders trip plans for files and spreadsheets.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kerhervel/parkplan/core/model"
)

// WriteJSON writes the trip plan to w in indented JSON format.
func WriteJSON(w io.Writer, tp *model.TripPlan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tp)
}

// WriteCSV writes the itinerary to w in CSV format, one row per committed
// block across all days. Unscheduled rides do not appear; use the JSON form
// for the full plan.
func WriteCSV(w io.Writer, tp *model.TripPlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "park_id", "kind", "name", "start", "end", "expected_wait_min", "walking_min", "reasoning"}); err != nil {
		return err
	}
	for _, day := range tp.Days {
		for _, it := range day.Items {
			rec := []string{
				day.Date,
				it.ParkID,
				it.Kind.String(),
				it.Name,
				it.Start.Format(time.RFC3339),
				it.End.Format(time.RFC3339),
				strconv.Itoa(it.ExpectedWait),
				strconv.Itoa(it.WalkingMinutes),
				it.Reasoning,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
