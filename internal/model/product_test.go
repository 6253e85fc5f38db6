package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductPatch_ExpiryDate(t *testing.T) {
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	next := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		body string
		want *time.Time
	}{
		{"absent key keeps the date", `{"quantity": 3}`, &current},
		{"null clears the date", `{"expiryDate": null}`, nil},
		{"value replaces the date", `{"expiryDate": "2026-06-30T00:00:00Z"}`, &next},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patch ProductPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &patch))

			exp := current
			p := Product{Name: "Milk", ExpiryDate: &exp}
			patch.Apply(&p)

			if tt.want == nil {
				assert.Nil(t, p.ExpiryDate)
				return
			}
			require.NotNil(t, p.ExpiryDate)
			assert.True(t, tt.want.Equal(*p.ExpiryDate))
		})
	}
}

func TestProductPatch_InvalidExpiryDate(t *testing.T) {
	var patch ProductPatch
	assert.Error(t, json.Unmarshal([]byte(`{"expiryDate": "soon"}`), &patch))
}

func TestProductPatch_ApplyCopiesDate(t *testing.T) {
	next := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	patch := ProductPatch{ExpiryDate: SetTime(next)}

	var p Product
	patch.Apply(&p)
	require.NotNil(t, p.ExpiryDate)
	*patch.ExpiryDate.Value = next.AddDate(1, 0, 0)
	assert.True(t, next.Equal(*p.ExpiryDate))
}
