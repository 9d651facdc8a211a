package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{
			"both present accumulate",
			Label{Value: "a", Source: "recall"},
			Label{Value: "b", Source: "rerank"},
			Label{Value: "a|b", Source: "recall,rerank"},
		},
		{
			"empty existing takes incoming",
			Label{},
			Label{Value: "b", Source: "rerank"},
			Label{Value: "b", Source: "rerank"},
		},
		{
			"empty incoming keeps existing",
			Label{Value: "a", Source: "recall"},
			Label{},
			Label{Value: "a", Source: "recall"},
		},
		{
			"missing existing source",
			Label{Value: "a"},
			Label{Value: "b", Source: "rerank"},
			Label{Value: "a|b", Source: "rerank"},
		},
		{
			"missing incoming source",
			Label{Value: "a", Source: "recall"},
			Label{Value: "b"},
			Label{Value: "a|b", Source: "recall"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeLabel(tt.existing, tt.incoming); got != tt.want {
				t.Errorf("MergeLabel = %+v, want %+v", got, tt.want)
			}
		})
	}
}
