package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

type ParsedMenu struct {
	Dishes []ParsedDish `json:"dishes"`
}

type ParsedDish struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DecodeParsedMenu validates the model's JSON output. Every entry becomes a
// dish, in order; names lose surrounding whitespace, descriptions are kept
// verbatim.
func DecodeParsedMenu(raw string) (*ParsedMenu, error) {
	raw = strings.TrimSpace(raw)
	if !json.Valid([]byte(raw)) {
		return nil, &ParseError{Err: errors.New("model returned non-json output")}
	}

	var doc struct {
		Dishes *[]ParsedDish `json:"dishes"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if doc.Dishes == nil {
		return nil, &ParseError{Err: errors.New(`response is missing "dishes"`)}
	}

	menu := &ParsedMenu{Dishes: make([]ParsedDish, 0, len(*doc.Dishes))}
	for _, d := range *doc.Dishes {
		menu.Dishes = append(menu.Dishes, ParsedDish{
			Name:        strings.TrimSpace(d.Name),
			Description: d.Description,
		})
	}

	return menu, nil
}
