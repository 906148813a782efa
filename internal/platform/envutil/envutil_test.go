package envutil

import (
	"testing"
	"time"
)

func TestString(t *testing.T) {
	t.Setenv("LR_TEST_STRING", "  value ")
	if got := String("LR_TEST_STRING", "def"); got != "value" {
		t.Fatalf("got %q", got)
	}
	if got := String("LR_TEST_STRING_MISSING", "def"); got != "def" {
		t.Fatalf("got %q", got)
	}
}

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("LR_TEST_INT", "abc")
	if got := Int("LR_TEST_INT", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
	t.Setenv("LR_TEST_INT", "42")
	if got := Int("LR_TEST_INT", 7); got != 42 {
		t.Fatalf("got %d", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"true": true, "ON": true, "0": false, "no": false}
	for raw, want := range cases {
		t.Setenv("LR_TEST_BOOL", raw)
		if got := Bool("LR_TEST_BOOL", !want); got != want {
			t.Fatalf("%q: got %v want %v", raw, got, want)
		}
	}
	t.Setenv("LR_TEST_BOOL", "maybe")
	if !Bool("LR_TEST_BOOL", true) {
		t.Fatalf("unparseable value should fall back to default")
	}
}

func TestSeconds(t *testing.T) {
	t.Setenv("LR_TEST_TTL", "90")
	if got := Seconds("LR_TEST_TTL", time.Minute); got != 90*time.Second {
		t.Fatalf("got %s", got)
	}
	if got := Seconds("LR_TEST_TTL_MISSING", time.Minute); got != time.Minute {
		t.Fatalf("got %s", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("LR_TEST_LIST", "http://a, ,http://b,")
	got := List("LR_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("got %v", got)
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("LR_TEST_RATIO", "0.5")
	if got := Float("LR_TEST_RATIO", 0.1); got != 0.5 {
		t.Fatalf("got %v", got)
	}
	t.Setenv("LR_TEST_RATIO", "half")
	if got := Float("LR_TEST_RATIO", 0.1); got != 0.1 {
		t.Fatalf("got %v", got)
	}
}
