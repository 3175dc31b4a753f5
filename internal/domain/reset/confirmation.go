package reset

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// VerifyConfirmation checks the typed phrase against the restaurant name.
// Both sides are uppercased and compared exactly, so whitespace must match.
func VerifyConfirmation(restaurantName, phrase string) error {
	if phrase == "" {
		return shared.NewForbiddenError("Confirmation phrase is required")
	}
	// Casers carry state and are not shared across goroutines.
	upper := cases.Upper(language.Und)
	if upper.String(phrase) != upper.String(restaurantName) {
		return shared.NewForbiddenError("Confirmation phrase does not match the restaurant name")
	}
	return nil
}
