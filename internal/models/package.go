package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// PACKAGE TYPES (matches DB ENUMs)
// ============================================================================

// PackageType represents the kind of bookable product
// Matches PostgreSQL ENUM: package_type
type PackageType string

const (
	PackageTypeTour     PackageType = "tour"
	PackageTypeTransfer PackageType = "transfer"
	PackageTypeTicket   PackageType = "ticket"
)

// PackageSubtype distinguishes shared departures from private ones
// Matches PostgreSQL ENUM: package_subtype
type PackageSubtype string

const (
	SubtypeShared  PackageSubtype = "shared"
	SubtypePrivate PackageSubtype = "private"
)

// PrivateGroupSize is the fixed unit in which private tours are sold.
// Private tour parties must be an exact multiple of this.
const PrivateGroupSize = 8

// ============================================================================
// PACKAGE MODEL (packages table)
// ============================================================================

// Package is a bookable product from the catalog. It is immutable for the
// duration of a booking flow; the catalog owns its lifecycle.
type Package struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	PackageType     PackageType    `json:"package_type" db:"package_type"`
	Subtype         PackageSubtype `json:"subtype" db:"subtype"`
	MinimumPerson   int            `json:"minimum_person" db:"minimum_person"`
	MaximumPerson   *int           `json:"maximum_person,omitempty" db:"maximum_person"` // NULL = unbounded
	BasePrice       float64        `json:"base_price" db:"base_price"`
	ChildPrice      float64        `json:"child_price" db:"child_price"`
	DurationMinutes int            `json:"duration_minutes" db:"duration_minutes"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// IsPrivateTour reports whether the package is sold in fixed groups of
// PrivateGroupSize guests.
func (p *Package) IsPrivateTour() bool {
	return p.PackageType == PackageTypeTour && p.Subtype == SubtypePrivate
}

// IsPrivateTransfer reports whether the package is a private transfer, the
// one subtype where the binding minimum is evaluated per slot.
func (p *Package) IsPrivateTransfer() bool {
	return p.PackageType == PackageTypeTransfer && p.Subtype == SubtypePrivate
}

// WithinMaximum reports whether total guests fit the package maximum.
// An absent maximum means unbounded.
func (p *Package) WithinMaximum(total int) bool {
	if p.MaximumPerson == nil {
		return true
	}
	return total <= *p.MaximumPerson
}
