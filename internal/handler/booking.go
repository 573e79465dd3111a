package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-reservation/internal/draft"
	"github.com/iliyamo/museum-reservation/internal/middleware"
	"github.com/iliyamo/museum-reservation/internal/model"
)

// BookingHandler drives the booking form of a visit.  All methods assume
// VisitAuth has run.
type BookingHandler struct{}

// DraftView is the JSON form of a draft with its derived totals.
type DraftView struct {
	Museum        model.Museum   `json:"museum"`
	Visitor       model.Visitor  `json:"visitor"`
	VisitDate     string         `json:"visit_date"`
	TimeSlot      string         `json:"time_slot"`
	Members       []model.Member `json:"members"`
	TermsAccepted bool           `json:"terms_accepted"`
	TotalMembers  int            `json:"total_members"`
	TotalAmount   int            `json:"total_amount"`
}

func draftView(d draft.Draft) DraftView {
	out := DraftView{
		Museum:        d.Museum,
		Visitor:       d.Visitor,
		TimeSlot:      d.TimeSlot,
		Members:       d.Members,
		TermsAccepted: d.TermsAccepted,
		TotalMembers:  d.TotalMembers(),
		TotalAmount:   d.TotalAmount(),
	}
	if !d.VisitDate.IsZero() {
		out.VisitDate = d.VisitDate.Format(draft.DateLayout)
	}
	if out.Members == nil {
		out.Members = []model.Member{}
	}
	return out
}

// SnapshotView is a submitted draft with its derived totals.
type SnapshotView struct {
	model.DraftSnapshot
	TotalMembers int `json:"total_members"`
	TotalAmount  int `json:"total_amount"`
}

func snapshotView(s model.DraftSnapshot) SnapshotView {
	return SnapshotView{DraftSnapshot: s, TotalMembers: s.TotalMembers(), TotalAmount: s.TotalAmount()}
}

// Begin handles POST /v1/bookings/:museumId.
func (h *BookingHandler) Begin(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	d, fx, err := v.BeginBooking(c.Request().Context(), c.Param("museumId"))
	if err != nil {
		return failure(c, err, fx)
	}
	return reply(c, http.StatusCreated, echo.Map{"draft": draftView(d)}, fx)
}

// Get handles GET /v1/booking.
func (h *BookingHandler) Get(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	d, fx, err := v.Draft(c.Request().Context())
	if err != nil {
		return failure(c, err, fx)
	}
	return reply(c, http.StatusOK, echo.Map{"draft": draftView(d)}, fx)
}

// Update handles PATCH /v1/booking.  The body is an object of form
// fields, e.g. {"firstName": "Asha", "age": 30, "termsAccepted": true}.
func (h *BookingHandler) Update(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	var body map[string]any
	if err := bindBody(c, &body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	fields := make(map[draft.Field]string, len(body))
	for k, val := range body {
		fields[draft.Field(k)] = stringify(val)
	}
	d, fx, err := v.SetFields(c.Request().Context(), fields)
	if err != nil {
		return failure(c, err, fx)
	}
	return reply(c, http.StatusOK, echo.Map{"draft": draftView(d)}, fx)
}

// AddMember handles POST /v1/booking/members.  At the member limit the
// draft comes back unchanged.
func (h *BookingHandler) AddMember(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	d, fx, err := v.AddMember(c.Request().Context())
	if err != nil {
		return failure(c, err, fx)
	}
	return reply(c, http.StatusOK, echo.Map{"draft": draftView(d)}, fx)
}

// UpdateMember handles PATCH /v1/booking/members/:index.
func (h *BookingHandler) UpdateMember(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid member index"})
	}
	var body map[string]any
	if err := bindBody(c, &body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	fields := make(map[draft.MemberField]string, len(body))
	for k, val := range body {
		fields[draft.MemberField(k)] = stringify(val)
	}
	d, fx, err := v.UpdateMember(c.Request().Context(), idx, fields)
	if err != nil {
		return failure(c, err, fx)
	}
	return reply(c, http.StatusOK, echo.Map{"draft": draftView(d)}, fx)
}

// RemoveMember handles DELETE /v1/booking/members/:index.  An index out
// of range leaves the draft unchanged.
func (h *BookingHandler) RemoveMember(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid member index"})
	}
	d, fx, err := v.RemoveMember(c.Request().Context(), idx)
	if err != nil {
		return failure(c, err, fx)
	}
	return reply(c, http.StatusOK, echo.Map{"draft": draftView(d)}, fx)
}

// Submit handles POST /v1/booking/submit and hands the draft to payment.
func (h *BookingHandler) Submit(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	s, fx, err := v.Submit(c.Request().Context())
	if err != nil {
		return failure(c, err, fx)
	}
	return reply(c, http.StatusOK, echo.Map{"booking": snapshotView(s)}, fx)
}

// Abort handles DELETE /v1/booking.
func (h *BookingHandler) Abort(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	fx, err := v.Abort(c.Request().Context())
	if err != nil {
		return failure(c, err, fx)
	}
	return reply(c, http.StatusOK, echo.Map{"state": v.State()}, fx)
}
