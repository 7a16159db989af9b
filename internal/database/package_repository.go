package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/islandhop/booking-backend/internal/models"
)

// PackageRepository reads the package catalog. The catalog itself is owned
// elsewhere; this repository is the read contract the engine consumes.
type PackageRepository struct {
	db DB
}

// NewPackageRepository creates a new PackageRepository
func NewPackageRepository(db DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// GetByID retrieves a package by ID
func (r *PackageRepository) GetByID(packageID uuid.UUID) (*models.Package, error) {
	query := `
		SELECT id, title, package_type, subtype, minimum_person, maximum_person,
		       base_price, child_price, duration_minutes, created_at, updated_at
		FROM packages
		WHERE id = $1`

	var pkg models.Package
	err := r.db.Get(&pkg, query, packageID)
	if err == sql.ErrNoRows {
		return nil, models.ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package: %w", err)
	}
	return &pkg, nil
}

// ListByType retrieves all packages of a given type
func (r *PackageRepository) ListByType(packageType models.PackageType) ([]models.Package, error) {
	query := `
		SELECT id, title, package_type, subtype, minimum_person, maximum_person,
		       base_price, child_price, duration_minutes, created_at, updated_at
		FROM packages
		WHERE package_type = $1
		ORDER BY title`

	var packages []models.Package
	err := r.db.Select(&packages, query, packageType)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return packages, nil
}
