package dataset

import (
	"fmt"
	"strings"

	"github.com/jengzang/subscriber-insights-go/internal/models"
)

// ReadCellReference loads the cell location reference CSV.
// Expected columns: lac, cellid, sitename, cellcode, lon, lat, region, district, type.
// Rows without a numeric lac are skipped.
func ReadCellReference(path string) ([]models.CellLocation, error) {
	t, err := ReadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cell reference: %w", err)
	}
	lac, cellID := t.Index("lac"), t.Index("cellid")
	if lac < 0 || cellID < 0 {
		return nil, fmt.Errorf("cell reference %s: missing lac/cellid columns", path)
	}
	site, code := t.Index("sitename"), t.Index("cellcode")
	lon, lat := t.Index("lon"), t.Index("lat")
	region, district, tech := t.Index("region"), t.Index("district"), t.Index("type")

	cells := make([]models.CellLocation, 0, len(t.Rows))
	for _, row := range t.Rows {
		l, ok := parseNumber(Cell(row, lac))
		if !ok {
			continue
		}
		c, _ := parseNumber(Cell(row, cellID))

		cell := models.CellLocation{
			LAC:      int64(l),
			CellID:   int64(c),
			SiteName: Cell(row, site),
			CellCode: Cell(row, code),
			Region:   Cell(row, region),
			District: Cell(row, district),
			TechType: Cell(row, tech),
		}
		if v, ok := parseNumber(Cell(row, lon)); ok {
			cell.Lon = models.NewCoord(v)
		}
		if v, ok := parseNumber(Cell(row, lat)); ok {
			cell.Lat = models.NewCoord(v)
		}
		cells = append(cells, cell)
	}
	return cells, nil
}

// NormalizeTAC strips leading zeros so that "01234567" and "1234567" match
func NormalizeTAC(tac string) string {
	tac = NormalizeID(tac)
	trimmed := strings.TrimLeft(tac, "0")
	if trimmed == "" && tac != "" {
		return "0"
	}
	return trimmed
}

// ReadTACCatalog loads the device TAC catalog CSV
func ReadTACCatalog(path string) ([]models.Device, error) {
	t, err := ReadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read TAC catalog: %w", err)
	}
	tac := t.Index("tac")
	if tac < 0 {
		return nil, fmt.Errorf("TAC catalog %s: missing tac column", path)
	}
	idx := func(name string) int { return t.Index(name) }
	brand, model, osName := idx("brand"), idx("model"), idx("software_os_name")
	marketing, year, devType := idx("marketing_name"), idx("year_released"), idx("device_type")
	volte, techn, hw := idx("volte"), idx("technology"), idx("primary_hardware_type")

	seen := make(map[string]bool, len(t.Rows))
	devices := make([]models.Device, 0, len(t.Rows))
	for _, row := range t.Rows {
		key := NormalizeTAC(Cell(row, tac))
		if key == "" || !isDigits(key) || seen[key] {
			continue
		}
		seen[key] = true
		devices = append(devices, models.Device{
			TAC:                 key,
			Brand:               Cell(row, brand),
			Model:               Cell(row, model),
			SoftwareOSName:      Cell(row, osName),
			MarketingName:       Cell(row, marketing),
			YearReleased:        NormalizeID(Cell(row, year)),
			DeviceType:          Cell(row, devType),
			VoLTE:               Cell(row, volte),
			Technology:          Cell(row, techn),
			PrimaryHardwareType: Cell(row, hw),
		})
	}
	return devices, nil
}
