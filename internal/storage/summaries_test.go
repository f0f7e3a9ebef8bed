package storage

import (
	"testing"

	"github.com/claude/vitalsync/internal/models"
)

// TestMarshalNullable checks absent values become SQL NULL rather than
// JSON null, so scans can distinguish never-recorded from recorded-empty.
func TestMarshalNullable(t *testing.T) {
	got, err := marshalNullable((*models.CalorieTotals)(nil), true)
	if err != nil {
		t.Fatalf("marshalNullable absent: %v", err)
	}
	if got != nil {
		t.Errorf("absent value = %q, want nil", got)
	}

	got, err = marshalNullable(&models.CalorieTotals{Active: 300, Total: 1500}, false)
	if err != nil {
		t.Fatalf("marshalNullable present: %v", err)
	}
	want := `{"active":300,"total":1500}`
	if string(got) != want {
		t.Errorf("present value = %s, want %s", got, want)
	}
}
