// Package payment charges a submitted booking draft through an external
// authorizer and commits the confirmed booking to the visitor's ledger.
package payment

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

var (
	// ErrInvalidMethod is returned for a payment method string that is not
	// one of the supported kinds and providers.
	ErrInvalidMethod = errors.New("invalid payment method")
	// ErrInvalidCard is returned when card details are present but malformed.
	ErrInvalidCard = errors.New("invalid card details")
)

// Kind is a payment instrument family.
type Kind string

const (
	KindUPI        Kind = "upi"
	KindCard       Kind = "card"
	KindWallet     Kind = "wallet"
	KindNetBanking Kind = "netbanking"
)

// providers lists the accepted sub-options per kind.  Card has none.
var providers = map[Kind][]string{
	KindUPI:        {"gpay", "phonepe", "paytm", "other"},
	KindCard:       nil,
	KindWallet:     {"paytm", "amazonpay"},
	KindNetBanking: {"sbi", "hdfc", "icici", "other"},
}

// CardDetails are the optional card fields sent with a card payment.
// They are checked for shape only; nothing is stored.
type CardDetails struct {
	Number      string `json:"number"`
	Holder      string `json:"holder"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	CVV         string `json:"cvv"`
}

// Validate checks the number, CVV, expiry month and holder.
func (c CardDetails) Validate() error {
	number := strings.ReplaceAll(c.Number, " ", "")
	switch {
	case len(number) < 12 || len(number) > 19 || !digits(number):
		return fmt.Errorf("%w: card number", ErrInvalidCard)
	case len(c.CVV) < 3 || len(c.CVV) > 4 || !digits(c.CVV):
		return fmt.Errorf("%w: cvv", ErrInvalidCard)
	case c.ExpiryMonth < 1 || c.ExpiryMonth > 12:
		return fmt.Errorf("%w: expiry month", ErrInvalidCard)
	case strings.TrimSpace(c.Holder) == "":
		return fmt.Errorf("%w: card holder", ErrInvalidCard)
	}
	return nil
}

// Last4 returns the trailing four digits of the card number.
func (c CardDetails) Last4() string {
	number := strings.ReplaceAll(c.Number, " ", "")
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}

// Method is a parsed payment instrument.
type Method struct {
	Kind     Kind
	Provider string
	Card     *CardDetails
}

// ParseMethod parses "kind" or "kind:provider", case-insensitively.
func ParseMethod(s string) (Method, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	kind, provider, _ := strings.Cut(raw, ":")
	allowed, ok := providers[Kind(kind)]
	if !ok {
		return Method{}, fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
	if len(allowed) == 0 {
		if provider != "" {
			return Method{}, fmt.Errorf("%w: %q", ErrInvalidMethod, s)
		}
		return Method{Kind: Kind(kind)}, nil
	}
	if !lo.Contains(allowed, provider) {
		return Method{}, fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
	return Method{Kind: Kind(kind), Provider: provider}, nil
}

// WithCard attaches card details to a card method after validating them.
func (m Method) WithCard(c CardDetails) (Method, error) {
	if m.Kind != KindCard {
		return Method{}, fmt.Errorf("%w: card details sent for %s", ErrInvalidMethod, m)
	}
	if err := c.Validate(); err != nil {
		return Method{}, err
	}
	m.Card = &c
	return m, nil
}

// String renders the method in the form ParseMethod accepts.
func (m Method) String() string {
	if m.Provider == "" {
		return string(m.Kind)
	}
	return string(m.Kind) + ":" + m.Provider
}

// IsUPI reports whether the payment is a UPI transfer.
func (m Method) IsUPI() bool { return m.Kind == KindUPI }

func digits(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}
