package reset

import (
	"testing"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategories(t *testing.T) {
	t.Run("sorts into execution order and drops duplicates", func(t *testing.T) {
		got, err := ParseCategories([]string{"bank", "sales", "inventory", "sales"})

		require.NoError(t, err)
		assert.Equal(t, []Category{CategorySales, CategoryInventory, CategoryBank}, got)
	})

	t.Run("unknown type is a validation error", func(t *testing.T) {
		_, err := ParseCategories([]string{"sales", "customers"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("categories are case sensitive", func(t *testing.T) {
		_, err := ParseCategories([]string{"Sales"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("empty list is a validation error", func(t *testing.T) {
		_, err := ParseCategories(nil)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestVerifyConfirmation(t *testing.T) {
	tests := []struct {
		phrase string
		ok     bool
	}{
		{"Chez Fatou", true},
		{"chez fatou", true},
		{"CHEZ FATOU", true},
		{"cHeZ fAtOu", true},
		{"Chez Fatou ", false},
		{" Chez Fatou", false},
		{"Chez Fatu", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run("phrase "+tc.phrase, func(t *testing.T) {
			err := VerifyConfirmation("Chez Fatou", tc.phrase)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, shared.ErrForbidden)
			}
		})
	}
}

func TestVerifyConfirmation_AccentedName(t *testing.T) {
	assert.NoError(t, VerifyConfirmation("Café Conakry", "CAFÉ CONAKRY"))
	assert.Error(t, VerifyConfirmation("Café Conakry", "CAFE CONAKRY"))
}

func TestResult_Total(t *testing.T) {
	r := Result{
		CategorySales: {Count: 3, RelatedCount: 10},
		CategoryBank:  {Count: 4},
	}
	assert.Equal(t, int64(17), r.Total())
	assert.True(t, NewSelection([]Category{CategoryBank}).Has(CategoryBank))
	assert.False(t, NewSelection([]Category{CategoryBank}).Has(CategorySales))
}
