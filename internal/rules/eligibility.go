// Package rules encodes the per-package-type guest-count policy and price
// formulas. Everything here is pure: the same functions validate a fresh
// request, an "add guest" increment and a "remove guest" decrement, so the
// rule is the single source of truth for both directions.
package rules

import (
	"github.com/islandhop/booking-backend/internal/models"
)

// Evaluate validates a proposed party against a package and a slot
// snapshot and returns a priced quote, or a typed rejection explaining why
// the party is not legal. It performs no I/O and has no side effects;
// calling it twice with identical inputs yields identical quotes.
//
// The slot's Remaining() is the snapshot the caller fetched; Evaluate does
// not guard against concurrent commits. The authoritative capacity check
// happens inside SlotRepository.Reserve.
func Evaluate(pkg *models.Package, slot *models.Slot, party models.PartyRequest) (*models.Quote, error) {
	if party.Adults <= 0 {
		return nil, models.NewValidationError(models.RejectionNoAdults,
			"at least one adult is required")
	}
	if !slot.IsAvailable {
		return nil, models.NewValidationError(models.RejectionSlotClosed,
			"this departure is not open for booking")
	}

	switch {
	case pkg.IsPrivateTour():
		return evaluatePrivateTour(pkg, slot, party)
	case pkg.IsPrivateTransfer():
		return evaluatePrivateTransfer(pkg, slot, party)
	default:
		return evaluateShared(pkg, slot, party)
	}
}

// evaluateShared covers shared tours, shared transfers and tickets:
// per-person pricing, package-level minimum on adults, package maximum and
// slot capacity on the whole party.
func evaluateShared(pkg *models.Package, slot *models.Slot, party models.PartyRequest) (*models.Quote, error) {
	total := party.TotalGuests()

	if party.Adults < pkg.MinimumPerson {
		return nil, models.NewValidationError(models.RejectionBelowMinimum,
			"%s requires at least %d adult(s)", pkg.Title, pkg.MinimumPerson)
	}
	if !pkg.WithinMaximum(total) {
		return nil, models.NewValidationError(models.RejectionAboveMaximum,
			"%s takes at most %d guests", pkg.Title, *pkg.MaximumPerson)
	}
	if total > slot.Remaining() {
		return nil, models.NewValidationError(models.RejectionInsufficient,
			"only %d place(s) left on this departure", slot.Remaining())
	}

	return buildQuote(pkg, slot, party,
		float64(party.Adults)*pkg.BasePrice+float64(party.Children)*pkg.ChildPrice,
		pkg.BasePrice, pkg.ChildPrice), nil
}

// evaluatePrivateTour sells capacity in fixed groups of
// models.PrivateGroupSize adults. Children travel within the group and are
// not counted separately. BasePrice is the per-group price, so the price is
// (adults / group size) x base; the multiple-of-group constraint keeps the
// division exact.
func evaluatePrivateTour(pkg *models.Package, slot *models.Slot, party models.PartyRequest) (*models.Quote, error) {
	if party.Adults%models.PrivateGroupSize != 0 {
		return nil, models.NewValidationError(models.RejectionNotGroupOfN,
			"private groups are booked in multiples of %d guests", models.PrivateGroupSize)
	}
	if party.Adults < models.PrivateGroupSize {
		return nil, models.NewValidationError(models.RejectionBelowMinimum,
			"a private group needs at least %d guests", models.PrivateGroupSize)
	}
	if !pkg.WithinMaximum(party.Adults) {
		return nil, models.NewValidationError(models.RejectionAboveMaximum,
			"%s takes at most %d guests", pkg.Title, *pkg.MaximumPerson)
	}
	if party.Adults > slot.Remaining() {
		return nil, models.NewValidationError(models.RejectionInsufficient,
			"only %d place(s) left on this departure", slot.Remaining())
	}

	groups := party.Adults / models.PrivateGroupSize
	return buildQuote(pkg, slot, party,
		float64(groups)*pkg.BasePrice,
		pkg.BasePrice, 0), nil
}

// evaluatePrivateTransfer is the one subtype where the binding minimum is
// per slot: a departure may need more guests to run than the package floor
// (e.g. "this 3pm departure needs 4 pax").
func evaluatePrivateTransfer(pkg *models.Package, slot *models.Slot, party models.PartyRequest) (*models.Quote, error) {
	total := party.TotalGuests()

	if party.Adults < pkg.MinimumPerson {
		return nil, models.NewValidationError(models.RejectionBelowMinimum,
			"%s requires at least %d adult(s)", pkg.Title, pkg.MinimumPerson)
	}
	if !pkg.WithinMaximum(total) {
		return nil, models.NewValidationError(models.RejectionAboveMaximum,
			"%s takes at most %d guests", pkg.Title, *pkg.MaximumPerson)
	}
	if total > slot.Remaining() {
		return nil, models.NewValidationError(models.RejectionInsufficient,
			"only %d place(s) left on this departure", slot.Remaining())
	}
	if total < slot.CurrentMinimum {
		return nil, models.NewValidationError(models.RejectionBelowSlotFloor,
			"this departure needs at least %d guests to run", slot.CurrentMinimum)
	}

	return buildQuote(pkg, slot, party,
		float64(party.Adults)*pkg.BasePrice+float64(party.Children)*pkg.ChildPrice,
		pkg.BasePrice, pkg.ChildPrice), nil
}

func buildQuote(pkg *models.Package, slot *models.Slot, party models.PartyRequest, total, adultPrice, childPrice float64) *models.Quote {
	return &models.Quote{
		PackageID:  pkg.ID,
		Date:       slot.Date.Format("2006-01-02"),
		StartTime:  slot.StartTime,
		Adults:     party.Adults,
		Children:   party.Children,
		AdultPrice: adultPrice,
		ChildPrice: childPrice,
		TotalPrice: total,
		Remaining:  slot.Remaining(),
	}
}
