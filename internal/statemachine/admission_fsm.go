package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sbci/institute-api/internal/models"
)

// AdmissionFSM wraps an admission with its state machine. COMPLETED and
// DROPPED are terminal: there is no reopen event.
type AdmissionFSM struct {
	admission *models.Admission
	fsm       *fsm.FSM
}

// NewAdmissionFSM creates a new admission state machine
func NewAdmissionFSM(admission *models.Admission) *AdmissionFSM {
	afsm := &AdmissionFSM{
		admission: admission,
	}

	afsm.fsm = fsm.NewFSM(
		admission.Status,
		fsm.Events{
			// active → completed
			{Name: "complete", Src: []string{models.AdmissionStatusActive}, Dst: models.AdmissionStatusCompleted},

			// active → dropped
			{Name: "drop", Src: []string{models.AdmissionStatusActive}, Dst: models.AdmissionStatusDropped},
		},
		fsm.Callbacks{},
	)

	return afsm
}

// Complete transitions the admission to completed state
func (a *AdmissionFSM) Complete(ctx context.Context) error {
	if !a.admission.MayComplete() {
		return fmt.Errorf("admission cannot be completed in current state: %s", a.admission.Status)
	}

	if err := a.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete admission: %w", err)
	}

	a.admission.Status = a.fsm.Current()
	return nil
}

// Drop transitions the admission to dropped state. Outstanding balance does
// not block the transition.
func (a *AdmissionFSM) Drop(ctx context.Context) error {
	if !a.admission.MayDrop() {
		return fmt.Errorf("admission cannot be dropped in current state: %s", a.admission.Status)
	}

	if err := a.fsm.Event(ctx, "drop"); err != nil {
		return fmt.Errorf("failed to drop admission: %w", err)
	}

	a.admission.Status = a.fsm.Current()
	return nil
}

// Current returns the current state
func (a *AdmissionFSM) Current() string {
	return a.fsm.Current()
}
