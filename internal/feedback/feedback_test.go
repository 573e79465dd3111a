package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/museum-reservation/internal/catalog"
)

type sinkStub struct {
	feedback []Feedback
	contacts []Contact
	err      error
}

func (s *sinkStub) FeedbackSubmitted(_ context.Context, f Feedback) error {
	s.feedback = append(s.feedback, f)
	return s.err
}

func (s *sinkStub) ContactSubmitted(_ context.Context, c Contact) error {
	s.contacts = append(s.contacts, c)
	return s.err
}

func newService(sink Sink) *Service {
	logger, _ := test.NewNullLogger()
	return NewService(catalog.Default(), sink, logger)
}

func validFeedback() Feedback {
	return Feedback{
		Name:      "Asha Rao",
		Email:     "asha@example.com",
		MuseumID:  "national-museum-delhi",
		Rating:    4,
		VisitDate: "2026-10-01",
		Type:      "exhibits",
		Title:     "Loved the bronzes",
		Message:   "Great collection.",
	}
}

func TestSubmitFeedback_RatingRequired(t *testing.T) {
	sink := &sinkStub{}
	s := newService(sink)

	for _, rating := range []int{0, -1, 6} {
		f := validFeedback()
		f.Rating = rating
		_, err := s.SubmitFeedback(context.Background(), f)
		assert.ErrorIs(t, err, ErrRatingRequired, "rating %d", rating)
	}

	// Rating is reported even when everything else is missing.
	_, err := s.SubmitFeedback(context.Background(), Feedback{})
	assert.ErrorIs(t, err, ErrRatingRequired)
	assert.Empty(t, sink.feedback)
}

func TestSubmitFeedback_Validation(t *testing.T) {
	s := newService(nil)
	ctx := context.Background()

	f := validFeedback()
	f.Title = " "
	_, err := s.SubmitFeedback(ctx, f)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "title")

	f = validFeedback()
	f.MuseumID = "louvre"
	_, err = s.SubmitFeedback(ctx, f)
	assert.ErrorIs(t, err, catalog.ErrMuseumNotFound)

	f = validFeedback()
	f.Type = "weather"
	_, err = s.SubmitFeedback(ctx, f)
	assert.ErrorIs(t, err, ErrInvalidOption)

	f = validFeedback()
	f.WouldRecommend = "never"
	_, err = s.SubmitFeedback(ctx, f)
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestSubmitFeedback_PublishesAccepted(t *testing.T) {
	sink := &sinkStub{}
	s := newService(sink)
	f := validFeedback()
	f.MuseumID = ""
	f.WouldRecommend = "definitely"

	got, err := s.SubmitFeedback(context.Background(), f)

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.SubmittedAt.IsZero())
	require.Len(t, sink.feedback, 1)
	assert.Equal(t, got, sink.feedback[0])
}

func TestSubmitFeedback_SinkFailureIsNotFatal(t *testing.T) {
	s := newService(&sinkStub{err: errors.New("broker down")})

	_, err := s.SubmitFeedback(context.Background(), validFeedback())

	assert.NoError(t, err)
}

func TestSubmitContact(t *testing.T) {
	sink := &sinkStub{}
	s := newService(sink)
	ctx := context.Background()

	_, err := s.SubmitContact(ctx, Contact{Name: "A", Email: "a@example.com", Subject: "Hours"})
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Empty(t, sink.contacts)

	c, err := s.SubmitContact(ctx, Contact{Name: "A", Email: "a@example.com", Subject: "Hours", Message: "Open on Monday?"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	require.Len(t, sink.contacts, 1)
}
