package httpserver

import (
	"encoding/json"
	"testing"
)

func FuzzValidateReviewRequest(f *testing.F) {
	seeds := []string{
		`{"author":"Frodo","rating":5,"reviewLocation":"Vera"}`,
		`{"author":"ab","rating":-1}`,
		`{"rating":"five"}`,
		`{}`,
		``,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		var req reviewRequest
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return
		}
		_ = validateReviewRequest(req)
	})
}
