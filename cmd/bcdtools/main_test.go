package main

import "testing"

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"wlak", "walk"},
		{"wal", "walk"},
		{"browser", "browsers"},
		{"brwsers", "browsers"},
		{"clasify", "classify"},
		{"shema", "schema"},
		{"improt", "import"},
		{"mpc", "mcp"},
		{"versio", "version"},
		{"hep", "help"},

		{"xyz", ""},
		{"foobar", ""},
		{"classification", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := suggestCommand(tt.input)
			if got != tt.expected {
				t.Errorf("suggestCommand(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCommandHandlersListed(t *testing.T) {
	for name := range commandHandlers {
		found := false
		for _, n := range commandNames {
			if n == name {
				found = true
			}
		}
		if !found {
			t.Errorf("command %q missing from commandNames", name)
		}
	}
}
