package env

import "testing"

func TestGetTrimsAndFallsBack(t *testing.T) {
	t.Setenv("ASESFY_TEST_PORT", "  9090 ")
	if got := Get("ASESFY_TEST_PORT", "8080"); got != "9090" {
		t.Fatalf("expected 9090, got %q", got)
	}

	t.Setenv("ASESFY_TEST_PORT", "   ")
	if got := Get("ASESFY_TEST_PORT", "8080"); got != "8080" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
}

func TestFirstSkipsBlankKeys(t *testing.T) {
	t.Setenv("ASESFY_TEST_A", "")
	t.Setenv("ASESFY_TEST_B", "b")
	got, ok := First("ASESFY_TEST_A", "ASESFY_TEST_B")
	if !ok || got != "b" {
		t.Fatalf("expected b, got %q ok=%v", got, ok)
	}

	if _, ok := First("ASESFY_TEST_A"); ok {
		t.Fatal("expected no value for blank keys")
	}
}
