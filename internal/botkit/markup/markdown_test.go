package markup

import "testing"

func TestEscapeForMarkdown(t *testing.T) {
	tests := map[string]string{
		"plain text":            "plain text",
		"v1.0 - beta!":          `v1\.0 \- beta\!`,
		"[link](url)":           `\[link\]\(url\)`,
		"a_b*c~d`e>f#g+h=i|j{}": "a\\_b\\*c\\~d\\`e\\>f\\#g\\+h\\=i\\|j\\{\\}",
		`back\slash`:            `back\\slash`,
	}

	for in, want := range tests {
		if got := EscapeForMarkdown(in); got != want {
			t.Errorf("EscapeForMarkdown(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBoldAndLink(t *testing.T) {
	if got := Bold("Art & Co."); got != `*Art & Co\.*` {
		t.Errorf("Bold: got %q", got)
	}

	got := Link("Read more.", "https://example.org/a_(b)")
	want := `[Read more\.](https://example.org/a_(b\))`
	if got != want {
		t.Errorf("Link: got %q, want %q", got, want)
	}
}
