package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Outcome is the resolution of one authorization attempt.
type Outcome int

const (
	OutcomeAuthorized Outcome = iota + 1
	OutcomeDeclined
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAuthorized:
		return "authorized"
	case OutcomeDeclined:
		return "declined"
	case OutcomeTimedOut:
		return "timed_out"
	}
	return "unknown"
}

// Result is what an Authorizer reports.  Ref is set for Authorized and
// Reason for Declined.
type Result struct {
	Outcome Outcome
	Ref     string
	Reason  string
}

func Authorized(ref string) Result { return Result{Outcome: OutcomeAuthorized, Ref: ref} }
func Declined(reason string) Result { return Result{Outcome: OutcomeDeclined, Reason: reason} }
func TimedOut() Result { return Result{Outcome: OutcomeTimedOut} }

// Authorizer is the external payment provider.  An error return means
// the attempt did not resolve at all (for instance the caller went
// away); a provider-side refusal is a Declined result.
type Authorizer interface {
	Authorize(ctx context.Context, amount int, m Method) (Result, error)
}

// SimulatedAuthorizer stands in for a real provider.  It waits Latency
// and then authorizes, unless the amount or method is configured to be
// declined.  A context deadline during the wait resolves as TimedOut.
type SimulatedAuthorizer struct {
	Latency        time.Duration
	DeclineAbove   int      // amounts strictly above this are declined; 0 disables
	DeclineMethods []string // methods as rendered by Method.String
}

func (a SimulatedAuthorizer) Authorize(ctx context.Context, amount int, m Method) (Result, error) {
	if amount <= 0 {
		return Declined("amount must be positive"), nil
	}
	if a.Latency > 0 {
		timer := time.NewTimer(a.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return TimedOut(), nil
			}
			return Result{}, ctx.Err()
		}
	}
	if a.DeclineAbove > 0 && amount > a.DeclineAbove {
		return Declined(fmt.Sprintf("amount ₹%d exceeds limit", amount)), nil
	}
	if lo.Contains(a.DeclineMethods, m.String()) || lo.Contains(a.DeclineMethods, string(m.Kind)) {
		return Declined(fmt.Sprintf("%s is not available", m)), nil
	}
	return Authorized("PAY-" + uuid.NewString()), nil
}
