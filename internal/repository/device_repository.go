package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jengzang/subscriber-insights-go/internal/database"
	"github.com/jengzang/subscriber-insights-go/internal/models"
)

const deviceColumns = `tac, brand, model, software_os_name, marketing_name, year_released,
	device_type, volte, technology, primary_hardware_type`

// DeviceRepository handles the tac_devices reference table
type DeviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db *sql.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// ReplaceAll swaps the catalog for devices in one transaction
func (r *DeviceRepository) ReplaceAll(ctx context.Context, devices []models.Device) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tac_devices`); err != nil {
			return fmt.Errorf("failed to clear TAC catalog: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO tac_devices (`+deviceColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, d := range devices {
			_, err := stmt.ExecContext(ctx, d.TAC, d.Brand, d.Model, d.SoftwareOSName, d.MarketingName,
				d.YearReleased, d.DeviceType, d.VoLTE, d.Technology, d.PrimaryHardwareType)
			if err != nil {
				return fmt.Errorf("failed to insert TAC %s: %w", d.TAC, err)
			}
		}
		return nil
	})
}

// FindByTAC returns the device for a normalized TAC, nil when unknown
func (r *DeviceRepository) FindByTAC(ctx context.Context, tac string) (*models.Device, error) {
	var d models.Device
	err := r.db.QueryRowContext(ctx, `SELECT `+deviceColumns+` FROM tac_devices WHERE tac = ?`, tac).Scan(
		&d.TAC, &d.Brand, &d.Model, &d.SoftwareOSName, &d.MarketingName, &d.YearReleased,
		&d.DeviceType, &d.VoLTE, &d.Technology, &d.PrimaryHardwareType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up TAC: %w", err)
	}
	return &d, nil
}

// ModelsByTAC returns the model name of every catalogued TAC
func (r *DeviceRepository) ModelsByTAC(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT tac, model FROM tac_devices`)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	byTAC := make(map[string]string)
	for rows.Next() {
		var tac, model string
		if err := rows.Scan(&tac, &model); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		byTAC[tac] = model
	}
	return byTAC, rows.Err()
}

// Count returns the number of catalogued TACs
func (r *DeviceRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tac_devices`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count devices: %w", err)
	}
	return n, nil
}
