package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
)

// SyllabusService backs the assisted-authoring endpoints: a syllabus
// outline generator and a course recommender.
//
// Both are deterministic, template- and data-driven. Calling out to a
// hosted model is out of scope; the endpoints exist so the rest of the
// system (routes, auth, clients) treats assisted authoring as a first-class
// feature with a stable contract.
type SyllabusService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	logger      *slog.Logger
}

func NewSyllabusService(courses repository.CourseRepository, enrollments repository.EnrollmentRepository, logger *slog.Logger) *SyllabusService {
	return &SyllabusService{courses: courses, enrollments: enrollments, logger: logger}
}

// SyllabusInput is the payload for POST /api/ai/syllabus.
type SyllabusInput struct {
	Title  string   `json:"title"`
	Topics []string `json:"topics"`
	Weeks  int      `json:"weeks"`
}

// SyllabusWeek is one row of a generated outline.
type SyllabusWeek struct {
	Week    int    `json:"week"`
	Topic   string `json:"topic"`
	Summary string `json:"summary"`
}

// Syllabus is the generated outline returned to the caller.
type Syllabus struct {
	Title string         `json:"title"`
	Weeks []SyllabusWeek `json:"weeks"`
}

// Generate produces a week-by-week outline for a course. Topics are
// spread across the requested number of weeks in order; the first week is
// always an introduction and the last a review, with the supplied topics
// filling the middle. Weeks defaults to 12 and is capped at 52.
func (s *SyllabusService) Generate(ctx context.Context, in SyllabusInput) (*Syllabus, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperror.ValidationFailed("title", "course title is required")
	}
	if in.Weeks <= 0 {
		in.Weeks = 12
	}
	if in.Weeks > 52 {
		return nil, apperror.ValidationFailed("weeks", "a syllabus cannot span more than 52 weeks")
	}

	topics := make([]string, 0, len(in.Topics))
	for _, t := range in.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}

	out := &Syllabus{Title: in.Title}
	for week := 1; week <= in.Weeks; week++ {
		var w SyllabusWeek
		switch {
		case week == 1:
			w = SyllabusWeek{
				Week:    1,
				Topic:   "Introduction",
				Summary: fmt.Sprintf("Course overview, expectations and an orientation to %s.", in.Title),
			}
		case week == in.Weeks:
			w = SyllabusWeek{
				Week:    week,
				Topic:   "Review and assessment",
				Summary: "Recap of the course material and final assessment preparation.",
			}
		default:
			// Middle weeks cycle through the supplied topics in order,
			// revisiting them in depth when there are more weeks than topics.
			if len(topics) > 0 {
				idx := (week - 2) % len(topics)
				pass := (week - 2) / len(topics)
				topic := topics[idx]
				summary := fmt.Sprintf("Lectures and exercises on %s.", topic)
				if pass > 0 {
					summary = fmt.Sprintf("Advanced treatment of %s, building on week %d.", topic, idx+2)
				}
				w = SyllabusWeek{Week: week, Topic: topic, Summary: summary}
			} else {
				w = SyllabusWeek{
					Week:    week,
					Topic:   fmt.Sprintf("%s, part %d", in.Title, week-1),
					Summary: fmt.Sprintf("Continued study of %s.", in.Title),
				}
			}
		}
		out.Weeks = append(out.Weeks, w)
	}

	s.logger.Info("syllabus generated",
		slog.String("title", in.Title),
		slog.Int("weeks", in.Weeks),
	)
	return out, nil
}

// Recommendation pairs a course with the reason it was suggested.
type Recommendation struct {
	Course model.Course `json:"course"`
	Reason string       `json:"reason"`
}

// Recommend suggests active courses the student isn't enrolled in,
// preferring lecturers the student has already taken courses with, then
// filling with the newest open courses. At most five results.
func (s *SyllabusService) Recommend(ctx context.Context, studentID string) ([]Recommendation, error) {
	enrollments, err := s.enrollments.List(ctx, repository.EnrollmentFilter{
		StudentID:   studentID,
		ListOptions: repository.ListOptions{Limit: MaxListLimit},
	})
	if err != nil {
		return nil, fmt.Errorf("listing enrollments for recommendations: %w", err)
	}

	enrolled := make(map[string]bool, len(enrollments))
	knownLecturers := make(map[string]bool)
	for _, e := range enrollments {
		if e.Blocking() || e.Status == model.EnrollmentCompleted {
			enrolled[e.CourseID] = true
		}
		if course, err := s.courses.GetByID(ctx, e.CourseID); err == nil {
			knownLecturers[course.LecturerID] = true
		}
	}

	active := true
	candidates, err := s.courses.List(ctx, repository.CourseFilter{
		Active:      &active,
		ListOptions: repository.ListOptions{Limit: MaxListLimit},
	})
	if err != nil {
		return nil, fmt.Errorf("listing courses for recommendations: %w", err)
	}

	recs := []Recommendation{}
	for _, c := range candidates {
		if enrolled[c.ID] {
			continue
		}
		reason := "Newly available course"
		if knownLecturers[c.LecturerID] {
			reason = "Taught by a lecturer you have studied with"
		}
		recs = append(recs, Recommendation{Course: c, Reason: reason})
	}

	// Familiar lecturers first, then newest courses.
	sort.SliceStable(recs, func(i, j int) bool {
		fi := knownLecturers[recs[i].Course.LecturerID]
		fj := knownLecturers[recs[j].Course.LecturerID]
		if fi != fj {
			return fi
		}
		return recs[i].Course.CreatedAt.After(recs[j].Course.CreatedAt)
	})

	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs, nil
}
