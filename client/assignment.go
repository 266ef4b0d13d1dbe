package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// AssignmentInput is the payload for CreateAssignment. The optional
// briefing document travels as a multipart part alongside it.
type AssignmentInput struct {
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	MaxPoints   int       `json:"max_points"`
}

// Assignments lists a course's assignments.
func (c *Client) Assignments(ctx context.Context, courseID string) ([]Assignment, error) {
	q := url.Values{"course_id": {courseID}}
	var assignments []Assignment
	if err := c.do(ctx, http.MethodGet, "/api/assignments", q, nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// CreateAssignment publishes an assignment on one of the calling
// lecturer's courses. Without a document the request is plain JSON.
func (c *Client) CreateAssignment(ctx context.Context, in AssignmentInput) (*Assignment, error) {
	var a Assignment
	if err := c.do(ctx, http.MethodPost, "/api/assignments", nil, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAssignmentWithDocument publishes an assignment with an attached
// briefing document. The extension check runs locally before any bytes
// are sent; only PDF and DOCX are accepted, same as the server.
func (c *Client) CreateAssignmentWithDocument(ctx context.Context, in AssignmentInput, filename string, doc io.Reader) (*Assignment, error) {
	if !documentExtensions[extension(filename)] {
		return nil, &Error{Kind: KindValidation, Field: "attachment", Message: "attachment must be a PDF or DOCX document"}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"course_id":   in.CourseID,
		"title":       in.Title,
		"description": in.Description,
		"max_points":  strconv.Itoa(in.MaxPoints),
	}
	if !in.DueDate.IsZero() {
		fields["due_date"] = in.DueDate.Format(time.RFC3339)
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, &Error{Kind: KindValidation, Message: fmt.Sprintf("building upload: %v", err)}
		}
	}

	part, err := mw.CreateFormFile("attachment", filename)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: fmt.Sprintf("building upload: %v", err)}
	}
	if _, err := io.Copy(part, doc); err != nil {
		return nil, &Error{Kind: KindValidation, Message: fmt.Sprintf("reading document: %v", err)}
	}
	if err := mw.Close(); err != nil {
		return nil, &Error{Kind: KindValidation, Message: fmt.Sprintf("building upload: %v", err)}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/assignments", nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var a Assignment
	if err := c.send(req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SubmitInput is the payload for Submit.
type SubmitInput struct {
	AssignmentID string `json:"assignment_id"`
	Content      string `json:"content"`
	FileURL      string `json:"file_url,omitempty"`
}

// Submit turns in the calling student's work for an assignment.
func (c *Client) Submit(ctx context.Context, in SubmitInput) (*Submission, error) {
	var s Submission
	if err := c.do(ctx, http.MethodPost, "/api/submissions", nil, in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Submissions lists submissions visible to the caller's role, optionally
// narrowed to one assignment (empty assignmentID lists across all).
func (c *Client) Submissions(ctx context.Context, assignmentID string) ([]Submission, error) {
	q := url.Values{}
	if assignmentID != "" {
		q.Set("assignment_id", assignmentID)
	}
	var submissions []Submission
	if err := c.do(ctx, http.MethodGet, "/api/submissions", q, nil, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// GradeSubmission records a grade and feedback as the owning lecturer.
func (c *Client) GradeSubmission(ctx context.Context, submissionID string, grade float64, feedback string) (*Submission, error) {
	var s Submission
	err := c.do(ctx, http.MethodPut, "/api/submissions/"+url.PathEscape(submissionID)+"/grade", nil, map[string]any{
		"grade":    grade,
		"feedback": feedback,
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
