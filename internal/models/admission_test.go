package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdmissionTotalPaidAndBalance(t *testing.T) {
	adm := Admission{TotalFee: 12000}
	assert.Equal(t, 0.0, adm.TotalPaid())
	assert.Equal(t, 12000.0, adm.Balance())

	// Late fees are part of the collected total.
	adm.Payments = []Payment{
		{Amount: 2000, LateFee: 0, TotalAmount: 2000},
		{Amount: 2000, LateFee: 50, TotalAmount: 2050},
	}
	assert.Equal(t, 4050.0, adm.TotalPaid())
	assert.Equal(t, 7950.0, adm.Balance())
}

func TestAdmissionBalance_Overpayment(t *testing.T) {
	adm := Admission{
		TotalFee: 1000,
		Payments: []Payment{{Amount: 1200, TotalAmount: 1200}},
	}
	assert.Equal(t, -200.0, adm.Balance())
}

func TestAdmissionNumberFor(t *testing.T) {
	assert.Equal(t, "ADM20250042", AdmissionNumberFor(2025, 42))
	assert.Equal(t, "ADM20260001", AdmissionNumberFor(2026, 1))
	assert.Equal(t, "ADM202512345", AdmissionNumberFor(2025, 12345))
}

func TestReceiptNumberFor(t *testing.T) {
	issued := time.Date(2025, time.March, 1, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "RCP-20250301-0007", ReceiptNumberFor(issued, 7))
	assert.Equal(t, "RCP-20250301-10001", ReceiptNumberFor(issued, 10001))
}

func TestSequenceScopes(t *testing.T) {
	issued := time.Date(2025, time.March, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "receipt:20250301", ReceiptSequenceScope(issued))
	assert.Equal(t, "admission:2025", AdmissionSequenceScope(2025))
}

func TestCollectionRate(t *testing.T) {
	assert.Equal(t, 0.0, CollectionRate(500, 0))
	assert.Equal(t, 50.0, CollectionRate(6000, 12000))
	assert.Equal(t, 100.0, CollectionRate(12000, 12000))
}

func TestAdmissionStatusPredicates(t *testing.T) {
	active := Admission{Status: AdmissionStatusActive}
	assert.True(t, active.MayComplete())
	assert.True(t, active.MayDrop())
	assert.False(t, active.IsTerminal())

	for _, status := range []string{AdmissionStatusCompleted, AdmissionStatusDropped} {
		adm := Admission{Status: status}
		assert.False(t, adm.MayComplete(), status)
		assert.False(t, adm.MayDrop(), status)
		assert.True(t, adm.IsTerminal(), status)
	}
}
