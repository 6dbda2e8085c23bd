package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "Nested Structure",
			key:      "student",
			body:     `{"student": {"name": "Ravi Kumar", "amount": 2000}}`,
			expected: bindTarget{Name: "Ravi Kumar", Amount: 2000},
		},
		{
			name:     "Flat Structure",
			key:      "student",
			body:     `{"name": "Priya Singh", "amount": 500}`,
			expected: bindTarget{Name: "Priya Singh", Amount: 500},
		},
		{
			name:     "Missing Key Falls Back to Flat",
			key:      "payment",
			body:     `{"other": "value", "name": "Amit", "amount": 50}`,
			expected: bindTarget{Name: "Amit", Amount: 50},
		},
		{
			name:        "Type Mismatch",
			key:         "payment",
			body:        `{"payment": {"name": "Amit", "amount": "fifty"}}`,
			expectError: true,
		},
		{
			name:        "Nested Key Present but Not an Object",
			key:         "payment",
			body:        `{"payment": "some string"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result bindTarget
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate(" 2025-03-15 ")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDate("15/03/2025")
	assert.Error(t, err)
}
