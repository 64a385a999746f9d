package llm

import "fmt"

func BuildMenuParsePrompt(menuText string) string {
	return "Extract a list of dishes and their detailed culinary descriptions from the following menu text: \n\n" + menuText
}

func BuildImagePrompt(dishName, description string, style Style) string {
	return fmt.Sprintf(
		`A professional, hyper-realistic, high-end food photograph of the dish: "%s". Description: %s. Aesthetic requirements: %s. No people, no hands, centered composition, elegant plating on a single dish.`,
		dishName,
		description,
		style.Prompt(),
	)
}

// menuResponseSchema constrains the parse call to {"dishes":[{name,description}]}.
var menuResponseSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"dishes": map[string]any{
			"type": "ARRAY",
			"items": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"name":        map[string]any{"type": "STRING"},
					"description": map[string]any{"type": "STRING"},
				},
				"required": []string{"name", "description"},
			},
		},
	},
	"required": []string{"dishes"},
}
