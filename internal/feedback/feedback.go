// Package feedback accepts visitor feedback and contact messages and
// forwards them to the broker.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/museum-reservation/internal/catalog"
)

var (
	// ErrRatingRequired is returned when the rating is missing or outside 1..5.
	ErrRatingRequired = errors.New("rating required")
	// ErrMissingField is returned when a required form field is blank.
	ErrMissingField = errors.New("required field missing")
	// ErrInvalidOption is returned for an unknown feedback type or
	// recommendation answer.
	ErrInvalidOption = errors.New("invalid option")
)

var (
	feedbackTypes = []string{"general", "booking", "staff", "facilities", "exhibits", "suggestion", "complaint"}
	recommends    = []string{"definitely", "probably", "maybe", "probably-not", "definitely-not"}
)

// Feedback is a rated review of a visit.  MuseumID, Type and
// WouldRecommend are optional.
type Feedback struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	MuseumID       string    `json:"museum_id,omitempty"`
	Rating         int       `json:"rating"`
	VisitDate      string    `json:"visit_date"`
	Type           string    `json:"feedback_type,omitempty"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	WouldRecommend string    `json:"would_recommend,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Contact is a general enquiry.
type Contact struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Sink receives accepted submissions.
type Sink interface {
	FeedbackSubmitted(ctx context.Context, f Feedback) error
	ContactSubmitted(ctx context.Context, c Contact) error
}

type Service struct {
	catalog catalog.Catalog
	sink    Sink
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewService wires the catalog used to check museum ids.  sink may be nil.
func NewService(c catalog.Catalog, sink Sink, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{catalog: c, sink: sink, log: log, now: time.Now}
}

// SubmitFeedback validates f, stamps it and forwards it.  The rating is
// checked first.
func (s *Service) SubmitFeedback(ctx context.Context, f Feedback) (Feedback, error) {
	if f.Rating < 1 || f.Rating > 5 {
		return Feedback{}, ErrRatingRequired
	}
	if err := required(map[string]string{
		"name": f.Name, "email": f.Email, "visit_date": f.VisitDate,
		"title": f.Title, "message": f.Message,
	}); err != nil {
		return Feedback{}, err
	}
	if f.Type != "" && !lo.Contains(feedbackTypes, f.Type) {
		return Feedback{}, fmt.Errorf("%w: feedback type %q", ErrInvalidOption, f.Type)
	}
	if f.WouldRecommend != "" && !lo.Contains(recommends, f.WouldRecommend) {
		return Feedback{}, fmt.Errorf("%w: would recommend %q", ErrInvalidOption, f.WouldRecommend)
	}
	if f.MuseumID != "" {
		if _, err := s.catalog.GetMuseum(ctx, f.MuseumID); err != nil {
			return Feedback{}, err
		}
	}

	f.ID = uuid.NewString()
	f.SubmittedAt = s.now().UTC()
	if s.sink != nil {
		if err := s.sink.FeedbackSubmitted(ctx, f); err != nil {
			s.log.WithError(err).WithField("feedback_id", f.ID).Error("publish feedback")
		}
	}
	return f, nil
}

// SubmitContact requires every field.
func (s *Service) SubmitContact(ctx context.Context, c Contact) (Contact, error) {
	if err := required(map[string]string{
		"name": c.Name, "email": c.Email, "subject": c.Subject, "message": c.Message,
	}); err != nil {
		return Contact{}, err
	}
	c.ID = uuid.NewString()
	c.SubmittedAt = s.now().UTC()
	if s.sink != nil {
		if err := s.sink.ContactSubmitted(ctx, c); err != nil {
			s.log.WithError(err).WithField("contact_id", c.ID).Error("publish contact")
		}
	}
	return c, nil
}

func required(fields map[string]string) error {
	missing := lo.Filter(lo.Keys(fields), func(k string, _ int) bool {
		return strings.TrimSpace(fields[k]) == ""
	})
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
}
