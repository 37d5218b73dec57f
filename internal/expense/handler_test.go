package expense

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestRoutesCoverAllOperations(t *testing.T) {
	router := NewHandler(nil).Routes()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/"},
		{http.MethodGet, "/123"},
		{http.MethodPut, "/123"},
		{http.MethodDelete, "/123"},
		{http.MethodGet, "/group/5"},
		{http.MethodGet, "/user/5"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			if !router.Match(chi.NewRouteContext(), tt.method, tt.path) {
				t.Errorf("no route matches %s %s", tt.method, tt.path)
			}
		})
	}
}
