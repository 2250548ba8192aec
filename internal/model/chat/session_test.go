package chat

import "testing"

func TestParsePanel(t *testing.T) {
	for _, p := range Panels() {
		got, err := ParsePanel(string(p))
		if err != nil {
			t.Fatalf("ParsePanel(%q) err: %v", p, err)
		}
		if got != p {
			t.Fatalf("ParsePanel(%q) = %q", p, got)
		}
	}

	if _, err := ParsePanel("settings"); err == nil {
		t.Fatal("expected error for unknown panel")
	}
	if _, err := ParsePanel(""); err == nil {
		t.Fatal("expected error for empty panel name")
	}
}
