package model

// Card is a single tile on the board. Two cards sharing an ImagePath form a pair.
type Card struct {
	ID        int
	ImagePath string
	IsFlipped bool
	IsMatched bool
}

// IsFaceUp returns true if the card is currently showing its image
func (c *Card) IsFaceUp() bool {
	return c.IsFlipped || c.IsMatched
}

// Matches returns true if both cards show the same asset
func (c *Card) Matches(other *Card) bool {
	return c.ImagePath == other.ImagePath
}
