package dataset

import (
	"fmt"

	"github.com/jengzang/subscriber-insights-go/internal/models"
)

// RSRP vendors
const (
	VendorZTE    = "ZTE"
	VendorHuawei = "Huawei"
)

// LTESheet is the worksheet holding the LTE utilization report
const LTESheet = "LTE Utilization Report"

// Source columns of the vendor RSRP sheets
var rsrpSourceColumns = [4][]string{
	{"RSRP Range 1 (>-105dBm) %"},
	{"RSRP Range 2 (-105~-110dBm) %"},
	{"RSRP Range 3 (-110~-115dBm) %"},
	{"RSRP < -115dBm", "RSRP < -115dBm %"},
}

// LoadRSRP reads a vendor RSRP sheet. ZTE exports fractions which are
// scaled to percentages; Huawei exports percentages. Values are rounded to
// two decimals and every row is tagged with its vendor.
func LoadRSRP(path, vendor string) ([]models.RSRPRecord, error) {
	t, err := ReadSheet(path, "")
	if err != nil {
		return nil, err
	}
	siteID := t.Index("Site_ID")
	if siteID < 0 {
		return nil, fmt.Errorf("%s RSRP sheet: missing Site_ID column", vendor)
	}
	siteName, cellName := t.Index("Site Name"), t.Index("Cell Name")

	var ranges [4]int
	for i, names := range rsrpSourceColumns {
		ranges[i] = -1
		for _, n := range names {
			if idx := t.Index(n); idx >= 0 {
				ranges[i] = idx
				break
			}
		}
	}

	scale := 1.0
	if vendor == VendorZTE {
		scale = 100
	}
	pct := func(row []string, idx int) float64 {
		return Round(numberOrZero(Cell(row, idx))*scale, 2)
	}

	records := make([]models.RSRPRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		id := NormalizeID(Cell(row, siteID))
		if id == "" {
			continue
		}
		records = append(records, models.RSRPRecord{
			SiteName: Cell(row, siteName),
			CellName: Cell(row, cellName),
			SiteID:   id,
			Range1:   pct(row, ranges[0]),
			Range2:   pct(row, ranges[1]),
			Range3:   pct(row, ranges[2]),
			Range4:   pct(row, ranges[3]),
			Source:   vendor,
		})
	}
	return records, nil
}

// LoadVLR reads the VLR snapshot workbook
func LoadVLR(path string) ([]models.VLRRecord, error) {
	t, err := ReadSheet(path, "")
	if err != nil {
		return nil, err
	}
	msisdn := t.Index("MSISDN")
	if msisdn < 0 {
		return nil, fmt.Errorf("VLR sheet: missing MSISDN column")
	}
	code, site, district := t.Index("CELL_CODE"), t.Index("SITE_NAME"), t.Index("DISTRICT")
	lac, cell := t.Index("LAC"), t.Index("CELL")

	records := make([]models.VLRRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		id := NormalizeID(Cell(row, msisdn))
		if id == "" {
			continue
		}
		records = append(records, models.VLRRecord{
			MSISDN:   id,
			CellCode: orUnknown(Cell(row, code), code),
			SiteName: orUnknown(Cell(row, site), site),
			District: orUnknown(Cell(row, district), district),
			LAC:      orUnknown(NormalizeID(Cell(row, lac)), lac),
			Cell:     orUnknown(NormalizeID(Cell(row, cell)), cell),
		})
	}
	return records, nil
}

// orUnknown marks values of absent columns as Unknown
func orUnknown(v string, idx int) string {
	if idx < 0 {
		return models.Unknown
	}
	return v
}

// LoadLTE reads the LTE utilization report. Only the known report columns
// are kept; blank numeric cells become nil. The returned column list holds
// the report columns present in the sheet, in display order.
func LoadLTE(path string) ([]models.LTERecord, []string, error) {
	t, err := ReadSheet(path, LTESheet)
	if err != nil {
		return nil, nil, err
	}

	type col struct {
		name    string
		idx     int
		numeric bool
	}
	var cols []col
	for _, name := range models.LTETextColumns {
		if idx := t.Index(name); idx >= 0 {
			cols = append(cols, col{name: name, idx: idx})
		}
	}
	for _, name := range models.LTENumericColumns {
		if idx := t.Index(name); idx >= 0 {
			cols = append(cols, col{name: name, idx: idx, numeric: true})
		}
	}

	present := make([]string, 0, len(cols))
	for _, c := range cols {
		present = append(present, c.name)
	}

	records := make([]models.LTERecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(models.LTERecord, len(cols))
		for _, c := range cols {
			raw := Cell(row, c.idx)
			if !c.numeric {
				rec[c.name] = NormalizeID(raw)
				continue
			}
			if v, ok := parseNumber(raw); ok {
				rec[c.name] = &v
			} else {
				rec[c.name] = (*float64)(nil)
			}
		}
		records = append(records, rec)
	}
	return records, present, nil
}
