package llm

import (
	"strings"
	"testing"
)

func TestDecodeParsedMenu(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"two dishes", `{"dishes":[{"name":"A","description":"a"},{"name":"B","description":"b"}]}`, []string{"A", "B"}, false},
		{"empty list", `{"dishes":[]}`, []string{}, false},
		{"blank names kept", `{"dishes":[{"name":"A","description":"a"},{"name":"","description":"x"},{"name":" C ","description":""}]}`, []string{"A", "", "C"}, false},
		{"missing dishes", `{"items":[]}`, nil, true},
		{"null dishes", `{"dishes":null}`, nil, true},
		{"not json", `dishes: A, B`, nil, true},
		{"wrong shape", `[{"name":"A"}]`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			menu, err := DecodeParsedMenu(tt.raw)
			if tt.wantErr {
				if !IsParseError(err) {
					t.Fatalf("expected ParseError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(menu.Dishes) != len(tt.want) {
				t.Fatalf("got %d dishes, want %d", len(menu.Dishes), len(tt.want))
			}
			var got []string
			for _, d := range menu.Dishes {
				got = append(got, d.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeParsedMenu_DescriptionVerbatim(t *testing.T) {
	menu, err := DecodeParsedMenu(`{"dishes":[{"name":"Soup","description":"  Hot, with bread \n"}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := menu.Dishes[0].Description; got != "  Hot, with bread \n" {
		t.Errorf("description rewritten: %q", got)
	}
}

func TestStylePrompts(t *testing.T) {
	for _, s := range Styles() {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
		if s.Prompt() == defaultStylePrompt {
			t.Errorf("%s should have its own prompt", s)
		}
	}

	if Style("polaroid").Prompt() != defaultStylePrompt {
		t.Error("unknown style should fall back to the default prompt")
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in     string
		want   Style
		wantOK bool
	}{
		{"", StyleBrightModern, true},
		{"rustic-dark", StyleRusticDark, true},
		{"Rustic/Dark", StyleRusticDark, true},
		{"SOCIAL-MEDIA-TOPDOWN", StyleSocialMedia, true},
		{"Social Media (Top-down)", StyleSocialMedia, true},
		{" bright-modern ", StyleBrightModern, true},
		{"polaroid", Style("polaroid"), false},
	}

	for _, tt := range tests {
		got, ok := ParseStyle(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseStyle(%q) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestBuildImagePrompt(t *testing.T) {
	p := BuildImagePrompt("Beef Curry", "Slow cooked", StyleSocialMedia)

	for _, want := range []string{`"Beef Curry"`, "Description: Slow cooked.", "Flat lay", "No people, no hands"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q: %s", want, p)
		}
	}
}
