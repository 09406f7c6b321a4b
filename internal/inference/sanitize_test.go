package inference

import "testing"

func TestTextSanitizer_Clean(t *testing.T) {
	s := newTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text unchanged", input: "lunch tomorrow", want: "lunch tomorrow"},
		{name: "strips tags", input: "<b>lunch</b> tomorrow", want: "lunch tomorrow"},
		{name: "strips script", input: `<script>alert(1)</script>note`, want: "note"},
		{name: "trims whitespace", input: "  note  ", want: "note"},
		{name: "empty input", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextSanitizer_CleanCardText(t *testing.T) {
	s := newTextSanitizer()

	title, desc := s.CleanCardText("<i>Meeting</i>", "<p>At noon</p>")
	if title != "Meeting" {
		t.Errorf("title = %q, want %q", title, "Meeting")
	}
	if desc != "At noon" {
		t.Errorf("description = %q, want %q", desc, "At noon")
	}
}
