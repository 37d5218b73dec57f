package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Name  string  `validate:"required,min=1,max=100"`
	Email string  `validate:"required,email"`
	Kind  string  `validate:"required,oneof=EQUAL PERCENTAGE EXACT_AMOUNT"`
	Limit float64 `validate:"omitempty,gt=0"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     sampleRequest
		wantErr []string
	}{
		{
			name: "valid request",
			req:  sampleRequest{Name: "Trip", Email: "a@b.com", Kind: "EQUAL", Limit: 5},
		},
		{
			name:    "missing required fields",
			req:     sampleRequest{Kind: "EQUAL"},
			wantErr: []string{"name is required", "email is required"},
		},
		{
			name:    "bad email",
			req:     sampleRequest{Name: "Trip", Email: "not-an-email", Kind: "EQUAL"},
			wantErr: []string{"email must be a valid email address"},
		},
		{
			name:    "value outside allowed set",
			req:     sampleRequest{Name: "Trip", Email: "a@b.com", Kind: "SHARES"},
			wantErr: []string{"kind must be one of: EQUAL PERCENTAGE EXACT_AMOUNT"},
		},
		{
			name:    "non-positive optional value",
			req:     sampleRequest{Name: "Trip", Email: "a@b.com", Kind: "EQUAL", Limit: -1},
			wantErr: []string{"limit must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.req)
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Struct() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Struct() = nil, want error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err.Error(), want)
				}
			}
		})
	}
}
