package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalParam(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "", want: time.Time{}},
		{in: "2025-09-01", want: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2025-09-01T10:30:00Z", want: time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC)},
		{in: "09/01/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Date
			err := d.UnmarshalParam(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(d.Time), "got %v", d.Time)
		})
	}
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var v struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2025-09-01","end":null}`), &v))

	assert.Equal(t, "2025-09-01", v.Start.Format(dateLayout))
	assert.True(t, v.End.IsZero())
	assert.Nil(t, v.End.Ptr())
	require.NotNil(t, v.Start.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`{"start":20250901}`), &v))
}
