package textprep

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain text unchanged",
			text: "hello world",
			want: "hello world",
		},
		{
			name: "emoji stripped",
			text: "hello 😀 world",
			want: "hello world",
		},
		{
			name: "emoji only",
			text: "🔥🔥🔥",
			want: "",
		},
		{
			name: "dingbat stripped",
			text: "done ✅ and dusted",
			want: "done and dusted",
		},
		{
			name: "whitespace collapsed",
			text: "a  🎉  b",
			want: "a b",
		},
		{
			name: "cyrillic preserved",
			text: "уже было тут 👀",
			want: "уже было тут",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.text)

			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"hello world this is a test message", 7},
		{"  padded   words  ", 2},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := WordCount(tt.text); got != tt.want {
				t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
