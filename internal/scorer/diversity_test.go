package scorer

import "testing"

func TestDiversity_EmptyBatch(t *testing.T) {
	if got := Diversity("What is the capital of France?", nil); got != 1.0 {
		t.Errorf("expected 1.0 for empty batch, got %f", got)
	}
}

func TestDiversity_SelfIdentical(t *testing.T) {
	q := "What is the capital of France?"
	if got := Diversity(q, []string{q}); got != 0.0 {
		t.Errorf("expected 0.0 against identical question, got %f", got)
	}
}

func TestDiversity_CaseAndWhitespaceInsensitive(t *testing.T) {
	got := Diversity("What is the capital of France?", []string{"  WHAT IS THE CAPITAL OF FRANCE?  "})
	if got != 0.0 {
		t.Errorf("expected 0.0 after normalization, got %f", got)
	}
}

func TestDiversity_NearDuplicate(t *testing.T) {
	got := Diversity(
		"What is the capital of France?",
		[]string{"What is the capital of France??"},
	)
	if got > 0.1 {
		t.Errorf("expected near-zero diversity for near-duplicate, got %f", got)
	}
}

func TestDiversity_UnrelatedQuestions(t *testing.T) {
	got := Diversity(
		"How do plants convert sunlight into energy?",
		[]string{
			"What is the capital of France?",
			"Who wrote the national anthem?",
		},
	)
	if got < 0.5 {
		t.Errorf("expected high diversity for unrelated question, got %f", got)
	}
}

func TestDiversity_TakesWorstCase(t *testing.T) {
	q := "What is the capital of France?"
	others := []string{
		"How do plants convert sunlight into energy?",
		q, // exact duplicate dominates
	}
	if got := Diversity(q, others); got != 0.0 {
		t.Errorf("expected 0.0 when any duplicate exists, got %f", got)
	}
}

func TestSimilarityRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "abc", "abc", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "abc", "", 0.0},
		{"disjoint", "abc", "xyz", 0.0},
		{"one substitution", "abcd", "abxd", 0.75},
		{"one insertion", "abc", "abcd", 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := similarityRatio(tt.a, tt.b); !almostEqual(got, tt.expected) {
				t.Errorf("similarityRatio(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		if got := levenshtein([]rune(tt.a), []rune(tt.b)); got != tt.expected {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
		}
	}
}
