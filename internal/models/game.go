package models

// Game is a catalog entry. Upcoming games conventionally carry a ReleaseDate
// label and a "0.0" rating; nothing enforces that.
type Game struct {
	ID          int64    `json:"id" yaml:"-"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	ImageURL    string   `json:"imageUrl" yaml:"imageUrl"`
	Rating      string   `json:"rating" yaml:"rating"`
	ReleaseDate string   `json:"releaseDate,omitempty" yaml:"releaseDate,omitempty"`
	IsUpcoming  bool     `json:"isUpcoming" yaml:"isUpcoming"`
	Developer   string   `json:"developer" yaml:"developer"`
	Publisher   string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Platform    string   `json:"platform,omitempty" yaml:"platform,omitempty"`
	Screenshots []string `json:"screenshots,omitempty" yaml:"screenshots,omitempty"`
	Features    []string `json:"features,omitempty" yaml:"features,omitempty"`
}

// WithID returns a copy of g carrying id.
func (g Game) WithID(id int64) Game {
	g.ID = id
	return g
}

// Clone returns a deep copy of g; the slice fields are not shared.
func (g Game) Clone() Game {
	g.Screenshots = cloneStrings(g.Screenshots)
	g.Features = cloneStrings(g.Features)
	return g
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
