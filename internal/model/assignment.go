package model

import "time"

// Assignment is coursework published by the course's lecturer.
// AttachmentURL points at an optional syllabus/briefing document
// (PDF or DOCX) stored through the upload.Store.
type Assignment struct {
	ID            string    `json:"id"           db:"id"`
	CourseID      string    `json:"course_id"    db:"course_id"`
	Title         string    `json:"title"        db:"title"`
	Description   string    `json:"description"  db:"description"`
	DueDate       time.Time `json:"due_date"     db:"due_date"`
	MaxPoints     int       `json:"max_points"   db:"max_points"`
	AttachmentURL string    `json:"attachment_url,omitempty" db:"attachment_url"`
	CreatedAt     time.Time `json:"created_at"   db:"created_at"`
}

// Submission is a student's answer to an assignment.
// Grade and Feedback stay nil until a lecturer grades it; GradedAt records when.
type Submission struct {
	ID           string     `json:"id"            db:"id"`
	AssignmentID string     `json:"assignment_id" db:"assignment_id"`
	StudentID    string     `json:"student_id"    db:"student_id"`
	Content      string     `json:"content"       db:"content"`
	FileURL      string     `json:"file_url,omitempty" db:"file_url"`
	SubmittedAt  time.Time  `json:"submitted_at"  db:"submitted_at"`
	Grade        *float64   `json:"grade,omitempty"    db:"grade"`
	Feedback     string     `json:"feedback,omitempty" db:"feedback"`
	GradedAt     *time.Time `json:"graded_at,omitempty" db:"graded_at"`
}
