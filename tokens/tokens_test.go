package tokens

import "testing"

func TestEstimateEmptyString(t *testing.T) {
	if got := Estimate(""); got != 0 {
		t.Fatalf("expected 0 tokens for empty string, got %d", got)
	}
}

func TestEstimateGrowsWithLength(t *testing.T) {
	short := Estimate("hello")
	long := Estimate("hello hello hello hello hello hello hello hello")
	if long <= short {
		t.Fatalf("expected longer text to estimate more tokens: short=%d long=%d", short, long)
	}
}

func TestEstimateCountsClassTransitions(t *testing.T) {
	// "a1" crosses a letter->digit boundary; expect at least 2 tokens.
	if got := Estimate("a1"); got < 2 {
		t.Fatalf("expected at least 2 tokens for a class transition, got %d", got)
	}
}

func TestSavingsPositiveWhenConverted(t *testing.T) {
	original := `{"name":"Alice","role":"admin"}`
	converted := `name,role` + "\n" + `Alice,admin`
	s := Savings(original, converted)
	if s <= 0 {
		t.Fatalf("expected positive savings, got %.2f", s)
	}
}

func TestSavingsZeroOnEmptyOriginal(t *testing.T) {
	if got := Savings("", "anything"); got != 0 {
		t.Fatalf("expected 0 savings for empty original, got %.2f", got)
	}
}

func TestSavingsNegativeWhenConvertedGrows(t *testing.T) {
	original := "a"
	converted := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	if s := Savings(original, converted); s >= 0 {
		t.Fatalf("expected negative savings when output grows, got %.2f", s)
	}
}
