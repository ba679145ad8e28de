package validation

import (
	"errors"
	"net/http"
	"testing"

	apperrors "roomly/pkg/errors"
)

type sample struct {
	Name   string   `json:"name" validate:"required,max=5"`
	Amount int64    `json:"amount" validate:"required,ne=0"`
	Tags   []string `json:"tags" validate:"unique"`
}

func TestStruct(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		input     sample
		wantField string
	}{
		{"valid", sample{Name: "ok", Amount: 5}, ""},
		{"missing name", sample{Amount: 5}, "name"},
		{"long name", sample{Name: "toolong", Amount: 5}, "name"},
		{"zero amount", sample{Name: "ok"}, "amount"},
		{"duplicate tags", sample{Name: "ok", Amount: 1, Tags: []string{"a", "a"}}, "tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(v, tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Struct() error = %v", err)
				}
				return
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) || len(verrs) == 0 {
				t.Fatalf("Struct() error = %v, want ValidationErrors", err)
			}
			if verrs[0].Field != tt.wantField {
				t.Errorf("field = %q, want %q", verrs[0].Field, tt.wantField)
			}
		})
	}
}

func TestToAppError(t *testing.T) {
	err := ToAppError("Invalid request", ValidationErrors{{Field: "name", Message: "name is required"}})
	if got := apperrors.AsAppError(err).StatusCode(); got != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", got)
	}

	err = ToAppError("Invalid request", errors.New("bad"))
	if got := apperrors.AsAppError(err).StatusCode(); got != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", got)
	}
}
