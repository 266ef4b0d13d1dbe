package client

import (
	"context"
	"net/http"
)

// SyllabusInput drives the syllabus generator: a course title, the topics
// to cover, and how many weeks to spread them over (0 uses the server
// default).
type SyllabusInput struct {
	Title  string   `json:"title"`
	Topics []string `json:"topics"`
	Weeks  int      `json:"weeks,omitempty"`
}

// GenerateSyllabus asks the server to draft a week-by-week course outline.
func (c *Client) GenerateSyllabus(ctx context.Context, in SyllabusInput) (*Syllabus, error) {
	var s Syllabus
	if err := c.do(ctx, http.MethodPost, "/api/ai/syllabus", nil, in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Recommendations suggests courses the calling student is not enrolled in.
func (c *Client) Recommendations(ctx context.Context) ([]Recommendation, error) {
	var recs []Recommendation
	if err := c.do(ctx, http.MethodPost, "/api/ai/recommend", nil, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
