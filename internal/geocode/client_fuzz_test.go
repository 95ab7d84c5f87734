package geocode

import (
	"errors"
	"testing"
)

func FuzzFirstCandidate(f *testing.F) {
	f.Add(37.05, -2.39, "Tabernas, Almeria, ES", true, true)
	f.Add(0.0, 0.0, "", false, false)

	f.Fuzz(func(t *testing.T, lat, lon float64, formatted string, hasLat, hasLon bool) {
		c := candidate{}
		if hasLat {
			c.Latitude = &lat
		}
		if hasLon {
			c.Longitude = &lon
		}
		if formatted != "" {
			c.FormattedAddress = &formatted
		}

		loc, err := firstCandidate([]candidate{c})
		if hasLat && hasLon {
			if err != nil {
				t.Fatalf("complete candidate rejected: %v", err)
			}
			if loc.Latitude != lat || loc.Longitude != lon {
				t.Fatalf("coordinates not taken from first candidate")
			}
			return
		}
		if !errors.Is(err, ErrUpstream) {
			t.Fatalf("incomplete candidate should map to upstream error, got %v", err)
		}
	})
}
