package repository

import (
	"errors"

	"github.com/sbci/institute-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// nextSequence locks the counter row for the given scope, increments it and
// returns the new value. Must be called inside the transaction that consumes
// the number so the increment rolls back with the caller.
func nextSequence(tx *gorm.DB, scope string) (int64, error) {
	var counter models.SequenceCounter
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("scope = ?", scope).
		First(&counter).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = models.SequenceCounter{Scope: scope, Value: 1}
		if err := tx.Create(&counter).Error; err != nil {
			// Concurrent first use of the scope: retry behind the lock
			if isUniqueViolation(err, "") {
				return nextSequence(tx, scope)
			}
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	counter.Value++
	if err := tx.Model(&counter).Update("value", counter.Value).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}
