package links

import "testing"

func TestExtractFirstURL(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "no url",
			text: "just a plain message",
			want: "",
		},
		{
			name: "single url",
			text: "check this out http://a.com/x",
			want: "http://a.com/x",
		},
		{
			name: "first of two urls wins",
			text: "https://first.example/one and https://second.example/two",
			want: "https://first.example/one",
		},
		{
			name: "trailing punctuation trimmed",
			text: "look: https://example.com/path.",
			want: "https://example.com/path",
		},
		{
			name: "host lowercased",
			text: "https://EXAMPLE.com/Path",
			want: "https://example.com/Path",
		},
		{
			name: "url inside parentheses",
			text: "(see https://example.com/a)",
			want: "https://example.com/a",
		},
		{
			name: "bare domain without scheme ignored",
			text: "example.com has no scheme",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFirstURL(tt.text)

			if got != tt.want {
				t.Errorf("ExtractFirstURL(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
