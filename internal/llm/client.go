package llm

import (
	"context"
)

// Gateway is the generative-AI boundary: menu text in, dishes out, and one
// image per dish.
type Gateway interface {
	ParseMenuText(ctx context.Context, text string) (*ParsedMenu, error)
	SynthesizeImage(ctx context.Context, dishName, description string, style Style) (string, error)
}
