package validate_test

import (
	"testing"

	"github.com/ardanlabs/radcoin/foundation/validate"
)

func Test_Check(t *testing.T) {
	type model struct {
		Name  string `json:"name" validate:"required"`
		Count int    `json:"count" validate:"gte=1"`
	}

	if err := validate.Check(model{Name: "radcoin", Count: 1}); err != nil {
		t.Fatalf("Should pass a valid model: %v", err)
	}

	err := validate.Check(model{})
	if !validate.IsFieldErrors(err) {
		t.Fatalf("Should get field errors, got %v", err)
	}

	fields := validate.GetFieldErrors(err).Fields()
	if _, exists := fields["name"]; !exists {
		t.Fatalf("Should name the json field, got %v", fields)
	}

	if _, exists := fields["count"]; !exists {
		t.Fatalf("Should report the count field, got %v", fields)
	}
}
