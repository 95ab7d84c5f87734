package httpserver

import (
	"strings"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func TestValidateMovieRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     movieRequest
		wantErr bool
	}{
		{"valid", movieRequest{Title: "The Matrix", Year: intPtr(1999)}, false},
		{"valid without year", movieRequest{Title: "The Matrix"}, false},
		{"missing title", movieRequest{Year: intPtr(1999)}, true},
		{"year below floor", movieRequest{Title: "Old", Year: intPtr(1899)}, true},
		{"year above ceiling", movieRequest{Title: "Future", Year: intPtr(2024)}, true},
		{"year at floor", movieRequest{Title: "Edge", Year: intPtr(1900)}, false},
		{"year at ceiling", movieRequest{Title: "Edge", Year: intPtr(2023)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMovieRequest(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateMovieRequest(%+v) error = %v, wantErr %v", tt.req, err, tt.wantErr)
			}
		})
	}
}

func TestValidateReviewRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     reviewRequest
		wantErr bool
	}{
		{"valid", reviewRequest{Author: "Frodo", Rating: floatPtr(5)}, false},
		{"rating zero allowed", reviewRequest{Author: "Frodo", Rating: floatPtr(0)}, false},
		{"rating missing", reviewRequest{Author: "Frodo"}, true},
		{"rating above five", reviewRequest{Author: "Frodo", Rating: floatPtr(5.1)}, true},
		{"rating negative", reviewRequest{Author: "Frodo", Rating: floatPtr(-0.5)}, true},
		{"author too short", reviewRequest{Author: "ab", Rating: floatPtr(4)}, true},
		{"author at min", reviewRequest{Author: "abc", Rating: floatPtr(4)}, false},
		{"author at max", reviewRequest{Author: strings.Repeat("a", 60), Rating: floatPtr(4)}, false},
		{"author too long", reviewRequest{Author: strings.Repeat("a", 61), Rating: floatPtr(4)}, true},
		{"description at max", reviewRequest{Author: "Frodo", Rating: floatPtr(4), Description: strings.Repeat("d", 260)}, false},
		{"description too long", reviewRequest{Author: "Frodo", Rating: floatPtr(4), Description: strings.Repeat("d", 261)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReviewRequest(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateReviewRequest(%+v) error = %v, wantErr %v", tt.req, err, tt.wantErr)
			}
		})
	}
}
