package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-reservation/internal/feedback"
	"github.com/iliyamo/museum-reservation/internal/middleware"
	"github.com/iliyamo/museum-reservation/internal/model"
	"github.com/iliyamo/museum-reservation/internal/notify"
	"github.com/iliyamo/museum-reservation/internal/workflow"
)

// FeedbackHandler accepts feedback and contact forms.  Both are public;
// a device token only attributes the thank-you notification.
type FeedbackHandler struct {
	Service  *feedback.Service
	Notifier notify.Notifier
}

type feedbackReq struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	MuseumID       string `json:"museum_id"`
	Rating         int    `json:"rating"`
	VisitDate      string `json:"visit_date"`
	Type           string `json:"feedback_type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	WouldRecommend string `json:"would_recommend"`
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *FeedbackHandler) thank(c echo.Context, n model.Notification) workflow.Effects {
	fx := workflow.Effects{Notifications: []model.Notification{n}}
	if h.Notifier == nil {
		return fx
	}
	id := "anon"
	if v, ok := middleware.VisitFrom(c); ok {
		id = v.ID()
	}
	h.Notifier.Notify(c.Request().Context(), id, n)
	return fx
}

// SubmitFeedback handles POST /v1/feedback.  A missing rating is
// reported before any other problem.
func (h *FeedbackHandler) SubmitFeedback(c echo.Context) error {
	var req feedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	f, err := h.Service.SubmitFeedback(c.Request().Context(), feedback.Feedback{
		Name:           req.Name,
		Email:          req.Email,
		MuseumID:       req.MuseumID,
		Rating:         req.Rating,
		VisitDate:      req.VisitDate,
		Type:           req.Type,
		Title:          req.Title,
		Message:        req.Message,
		WouldRecommend: req.WouldRecommend,
	})
	if err != nil {
		return failure(c, err, workflow.Effects{})
	}
	fx := h.thank(c, notify.Info("Thank You!", "Your feedback has been submitted. We appreciate your input!"))
	return reply(c, http.StatusCreated, echo.Map{"feedback": f}, fx)
}

// SubmitContact handles POST /v1/contact.
func (h *FeedbackHandler) SubmitContact(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ct, err := h.Service.SubmitContact(c.Request().Context(), feedback.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return failure(c, err, workflow.Effects{})
	}
	fx := h.thank(c, notify.Info("Message Sent!", "Thank you for contacting us. We'll get back to you within 24 hours."))
	return reply(c, http.StatusCreated, echo.Map{"contact": ct}, fx)
}
