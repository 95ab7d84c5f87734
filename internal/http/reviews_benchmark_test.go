package httpserver

import (
	"fmt"
	"net/http"
	"testing"
)

func BenchmarkHandleCreateReview(b *testing.B) {
	srv := buildTestServer(b)
	token := mustRegister(b, srv, "bench@example.com")
	movieID := mustCreateTestMovie(b, srv, token, "Benchmark Movie")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := doRequest(srv, http.MethodPost, "/movies/"+movieID+"/reviews", "", map[string]interface{}{
			"author":         fmt.Sprintf("bench-author-%d", i),
			"rating":         4,
			"reviewLocation": "Vera, Almeria",
		})
		if rec.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
		}
	}
}
