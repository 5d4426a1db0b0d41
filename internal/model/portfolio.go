package model

import (
	"strings"
	"time"
)

// Portfolio is the public showcase attached to an account. It starts
// unpublished.
type Portfolio struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	PortfolioURL *string   `json:"portfolioUrl,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	Skills       []string  `json:"skills"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PortfolioDetails are the optional portfolio fields accepted at registration
type PortfolioDetails struct {
	PortfolioURL *string  `json:"portfolioUrl"`
	Bio          *string  `json:"bio"`
	Skills       []string `json:"skills"`
}

// Provided reports whether any portfolio field was sent. An explicit skills
// list counts even when empty; blank strings do not.
func (d PortfolioDetails) Provided() bool {
	return nonBlank(d.PortfolioURL) || nonBlank(d.Bio) || d.Skills != nil
}

func nonBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
