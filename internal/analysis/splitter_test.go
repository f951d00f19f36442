package analysis

import "testing"

func TestSplitSegments(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantAnalysis string
		wantErrors   string
	}{
		{
			name:         "marker present",
			raw:          "Content (4/5): good\nERRORS:\n[]",
			wantAnalysis: "Content (4/5): good\n",
			wantErrors:   "ERRORS:\n[]",
		},
		{
			name:         "marker absent",
			raw:          "Content (4/5): good",
			wantAnalysis: "Content (4/5): good",
			wantErrors:   "",
		},
		{
			name:         "marker at start",
			raw:          "ERRORS: []",
			wantAnalysis: "",
			wantErrors:   "ERRORS: []",
		},
		{
			name:         "only first marker splits",
			raw:          "text ERRORS: [] ERRORS: []",
			wantAnalysis: "text ",
			wantErrors:   "ERRORS: [] ERRORS: []",
		},
		{
			name:         "empty input",
			raw:          "",
			wantAnalysis: "",
			wantErrors:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysisSeg, errorsSeg := SplitSegments(tt.raw)
			if analysisSeg != tt.wantAnalysis {
				t.Errorf("analysis segment = %q, want %q", analysisSeg, tt.wantAnalysis)
			}
			if errorsSeg != tt.wantErrors {
				t.Errorf("errors segment = %q, want %q", errorsSeg, tt.wantErrors)
			}
		})
	}
}
