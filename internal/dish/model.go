package dish

// Status is where a dish sits in its photography pipeline.
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusGenerating, StatusCompleted, StatusError:
		return true
	}
	return false
}

// IsEligible reports whether a batch generation pass should pick the dish up.
func (s Status) IsEligible() bool {
	return s == StatusPending || s == StatusError
}

// Dish is one parsed menu item. Name and Description never change after
// parsing; ImageURL is either a data URI or a public storage URL.
type Dish struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	Status      Status `json:"status"`
}
