package fees

import (
	"context"
	"errors"
	"fmt"

	"schoolfees-backend/models"
)

// State names one step of the payment checkout flow.
type State int

const (
	Idle State = iota
	Selecting
	Confirming
	Submitting
	ShowingReceipt
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Confirming:
		return "confirming"
	case Submitting:
		return "submitting"
	case ShowingReceipt:
		return "showing_receipt"
	}
	return "unknown"
}

type event int

const (
	eventSelect event = iota
	eventConfirm
	eventSubmit
	eventSucceed
	eventFail
	eventReset
)

var ErrInvalidTransition = errors.New("invalid checkout transition")

// transition is the single reducer for the checkout machine. Everything the
// flow may do is spelled out here; Session methods only fire events.
func transition(s State, e event) (State, error) {
	switch {
	case e == eventReset:
		return Idle, nil
	case s == Idle && e == eventSelect:
		return Selecting, nil
	case s == Selecting && e == eventSelect: // re-selection is allowed
		return Selecting, nil
	case s == Selecting && e == eventConfirm:
		return Confirming, nil
	case s == Confirming && e == eventSubmit:
		return Submitting, nil
	case s == Submitting && e == eventSucceed:
		return ShowingReceipt, nil
	case s == Submitting && e == eventFail:
		// Submission failed: back to the confirmed plan so the cashier can retry.
		return Confirming, nil
	}
	return s, fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, eventName(e), s)
}

func eventName(e event) string {
	switch e {
	case eventSelect:
		return "select"
	case eventConfirm:
		return "confirm"
	case eventSubmit:
		return "submit"
	case eventSucceed:
		return "succeed"
	case eventFail:
		return "fail"
	case eventReset:
		return "reset"
	}
	return "unknown"
}

// Session drives one payment action from row selection to receipt. It owns
// the checkout state and refuses out-of-order calls.
type Session struct {
	state   State
	student models.Student
	rows    []DemandRow
	plan    Plan
	result  Result
}

func NewSession(student models.Student) *Session {
	return &Session{state: Idle, student: student}
}

func (s *Session) State() State { return s.state }

func (s *Session) fire(e event) error {
	next, err := transition(s.state, e)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Select records the rows the cashier picked.
func (s *Session) Select(rows []DemandRow) error {
	if s.student.Id == "" {
		return ErrNoStudent
	}
	if len(rows) == 0 {
		return ErrNoneSelected
	}
	if err := s.fire(eventSelect); err != nil {
		return err
	}
	s.rows = rows
	return nil
}

// Confirm locks in a validated allocation plan over the selected rows.
func (s *Session) Confirm(plan Plan) error {
	if plan.Empty() {
		return ErrNoAllocations
	}
	for _, line := range plan.Lines {
		if _, ok := FindRow(s.rows, line.Row.RowID()); !ok {
			return fmt.Errorf("plan references unselected row %s", line.Row.RowID())
		}
	}
	if err := s.fire(eventConfirm); err != nil {
		return err
	}
	s.plan = plan
	return nil
}

// Submit sends the confirmed plan through the gateway. On failure the session
// returns to Confirming with the plan intact so the action can be retried.
func (s *Session) Submit(ctx context.Context, gw Gateway, details PaymentDetails) (Result, error) {
	if err := s.fire(eventSubmit); err != nil {
		return Result{}, err
	}
	res, err := gw.ApplyPlan(ctx, s.student.Id, s.plan, details)
	if err != nil {
		_ = s.fire(eventFail)
		return Result{}, err
	}
	if err := s.fire(eventSucceed); err != nil {
		return Result{}, err
	}
	s.result = res
	return res, nil
}

// Result is only available once a submission has succeeded.
func (s *Session) Result() (Result, error) {
	if s.state != ShowingReceipt {
		return Result{}, fmt.Errorf("%w: no result in state %s", ErrInvalidTransition, s.state)
	}
	return s.result, nil
}

// Reset discards all checkout state, like closing the dialog.
func (s *Session) Reset() {
	_ = s.fire(eventReset)
	s.rows = nil
	s.plan = Plan{}
	s.result = Result{}
}
