package utils

import "testing"

func TestLinkSetAdd(t *testing.T) {
	s := LinkSet{}

	tests := []struct {
		link string
		want bool
	}{
		{"https://www.vinted.fr/items/1", true},
		{"https://www.vinted.fr/items/2", true},
		{"https://www.vinted.fr/items/1", false},
		{"https://www.vinted.fr/items/2", false},
		{"https://www.vinted.fr/items/3", true},
	}
	for _, tt := range tests {
		if got := s.Add(tt.link); got != tt.want {
			t.Errorf("Add(%q): got %v, want %v", tt.link, got, tt.want)
		}
	}
	if len(s) != 3 {
		t.Errorf("unique links: got %d, want 3", len(s))
	}
}
