package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jengzang/subscriber-insights-go/internal/database"
	"github.com/jengzang/subscriber-insights-go/internal/models"
)

const cellColumns = `lac, cell_id, site_name, cell_code, lon, lat, region, district, tech_type`

// LocationRepository handles the cell_locations reference table
type LocationRepository struct {
	db *sql.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// ReplaceAll swaps the table contents for cells in one transaction
func (r *LocationRepository) ReplaceAll(ctx context.Context, cells []models.CellLocation) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cell_locations`); err != nil {
			return fmt.Errorf("failed to clear cell locations: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO cell_locations (`+cellColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, c := range cells {
			_, err := stmt.ExecContext(ctx, c.LAC, c.CellID, c.SiteName, c.CellCode,
				nullCoord(c.Lon), nullCoord(c.Lat), c.Region, c.District, c.TechType)
			if err != nil {
				return fmt.Errorf("failed to insert cell %d/%d: %w", c.LAC, c.CellID, err)
			}
		}
		return nil
	})
}

// FindExact returns the first cell with the given LAC and cell ID
func (r *LocationRepository) FindExact(ctx context.Context, lac, cellID int64) (*models.CellLocation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cellColumns+` FROM cell_locations
		WHERE lac = ? AND cell_id = ? ORDER BY id LIMIT 1`, lac, cellID)
	return scanCell(row)
}

// FirstByLAC returns the first cell in the location area
func (r *LocationRepository) FirstByLAC(ctx context.Context, lac int64) (*models.CellLocation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cellColumns+` FROM cell_locations
		WHERE lac = ? ORDER BY id LIMIT 1`, lac)
	return scanCell(row)
}

// FindByCellCode returns the first cell with the given cell code
func (r *LocationRepository) FindByCellCode(ctx context.Context, cellCode string) (*models.CellLocation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cellColumns+` FROM cell_locations
		WHERE cell_code = ? ORDER BY id LIMIT 1`, cellCode)
	return scanCell(row)
}

// DistrictOfSite returns the district of the first site whose name equals
// siteName, ignoring case
func (r *LocationRepository) DistrictOfSite(ctx context.Context, siteName string) (string, bool, error) {
	var district string
	err := r.db.QueryRowContext(ctx, `SELECT district FROM cell_locations
		WHERE upper(site_name) = upper(?) ORDER BY id LIMIT 1`, siteName).Scan(&district)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up site district: %w", err)
	}
	return district, true, nil
}

// Count returns the number of reference cells
func (r *LocationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cell_locations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cell locations: %w", err)
	}
	return n, nil
}

// scanCell returns nil without error when no row matched
func scanCell(row *sql.Row) (*models.CellLocation, error) {
	var c models.CellLocation
	var lon, lat sql.NullFloat64
	err := row.Scan(&c.LAC, &c.CellID, &c.SiteName, &c.CellCode, &lon, &lat, &c.Region, &c.District, &c.TechType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cell location: %w", err)
	}
	c.Lon = models.Coord{Value: lon.Float64, Valid: lon.Valid}
	c.Lat = models.Coord{Value: lat.Float64, Valid: lat.Valid}
	return &c, nil
}

func nullCoord(c models.Coord) sql.NullFloat64 {
	return sql.NullFloat64{Float64: c.Value, Valid: c.Valid}
}
