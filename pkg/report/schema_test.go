package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(r *RunResult)
		wantErr bool
	}{
		{name: "valid", mutate: func(*RunResult) {}},
		{
			name:    "nil list",
			mutate:  func(r *RunResult) { r.MissingImports = nil },
			wantErr: true,
		},
		{
			name:    "empty description list",
			mutate:  func(r *RunResult) { r.UnusedImports[0].Unused = []string{} },
			wantErr: true,
		},
		{
			name:    "malformed description",
			mutate:  func(r *RunResult) { r.DuplicateImports[0].Duplicates = []string{"A"} },
			wantErr: true,
		},
		{
			name:    "negative counter",
			mutate:  func(r *RunResult) { r.Stats.TotalFiles = -1 },
			wantErr: true,
		},
		{
			name:    "counter disagrees with entries",
			mutate:  func(r *RunResult) { r.Stats.FilesWithDuplicates = 5 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := sampleResult(t)
			tt.mutate(result)

			err := Validate(result)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidReport)

				return
			}

			require.NoError(t, err)
		})
	}
}
