package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/meridianlogistics/insight-service/internal/models"
)

// Repository loads the report layer's inputs from PostgreSQL and persists
// weekly KPI snapshots.
type Repository struct {
	db *gorm.DB
}

// New creates a new repository
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the tables the service owns
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(
		&models.InvoiceRow{},
		&models.JobOrderRow{},
		&models.DocumentRow{},
		&models.KPISnapshotRow{},
		&models.PreferenceRow{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// UnpaidInvoices returns invoices still open for collection. Aging reports
// run over this filtered set only.
func (r *Repository) UnpaidInvoices(ctx context.Context) ([]models.InvoiceRow, error) {
	var rows []models.InvoiceRow
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []string{"unpaid", "partial"}).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load unpaid invoices: %w", err)
	}
	return rows, nil
}

// InvoicesInPeriod returns all invoices created inside the half-open period
func (r *Repository) InvoicesInPeriod(ctx context.Context, from, to time.Time) ([]models.InvoiceRow, error) {
	var rows []models.InvoiceRow
	if err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load invoices for period: %w", err)
	}
	return rows, nil
}

// JobOrdersInPeriod returns job orders created inside the half-open period
func (r *Repository) JobOrdersInPeriod(ctx context.Context, from, to time.Time) ([]models.JobOrderRow, error) {
	var rows []models.JobOrderRow
	if err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load job orders for period: %w", err)
	}
	return rows, nil
}

// ActiveDocumentsExpiringBy returns active documents whose expiry date falls
// at or before the cutoff, already-expired ones included. Documents past the
// cutoff never reach the classifier.
func (r *Repository) ActiveDocumentsExpiringBy(ctx context.Context, cutoff time.Time) ([]models.DocumentRow, error) {
	var rows []models.DocumentRow
	if err := r.db.WithContext(ctx).
		Where("active = ? AND expiry_date <= ?", true, cutoff).
		Order("expiry_date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load expiring documents: %w", err)
	}
	return rows, nil
}

// Preference returns the notification preference row for a user
func (r *Repository) Preference(ctx context.Context, userID string) (*models.PreferenceRow, error) {
	var row models.PreferenceRow
	if err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to load preference for user %s: %w", userID, err)
	}
	return &row, nil
}

// SaveSnapshot persists a weekly KPI snapshot
func (r *Repository) SaveSnapshot(ctx context.Context, snapshot *models.KPISnapshotRow) error {
	snapshot.CreatedAt = time.Now()
	if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to save KPI snapshot: %w", err)
	}
	return nil
}

// SnapshotForWeek returns the snapshot with the given week start, or nil
// when none was captured.
func (r *Repository) SnapshotForWeek(ctx context.Context, weekStart time.Time) (*models.KPISnapshotRow, error) {
	var row models.KPISnapshotRow
	err := r.db.WithContext(ctx).First(&row, "week_start = ?", weekStart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load KPI snapshot: %w", err)
	}
	return &row, nil
}
