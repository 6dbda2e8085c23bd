package statemachine

import (
	"context"
	"testing"

	"github.com/sbci/institute-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAdmissionFSM_Complete(t *testing.T) {
	adm := &models.Admission{Status: models.AdmissionStatusActive}
	machine := NewAdmissionFSM(adm)

	assert.Equal(t, models.AdmissionStatusActive, machine.Current())

	err := machine.Complete(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.AdmissionStatusCompleted, machine.Current())
	assert.Equal(t, models.AdmissionStatusCompleted, adm.Status)
}

func TestAdmissionFSM_Drop(t *testing.T) {
	adm := &models.Admission{Status: models.AdmissionStatusActive}
	machine := NewAdmissionFSM(adm)

	err := machine.Drop(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.AdmissionStatusDropped, adm.Status)
}

func TestAdmissionFSM_TerminalStates(t *testing.T) {
	for _, status := range []string{models.AdmissionStatusCompleted, models.AdmissionStatusDropped} {
		adm := &models.Admission{Status: status}
		machine := NewAdmissionFSM(adm)

		assert.Error(t, machine.Complete(context.Background()), status)
		assert.Error(t, machine.Drop(context.Background()), status)

		// Status must be untouched after a rejected transition.
		assert.Equal(t, status, adm.Status)
	}
}
