package models

// RSRP table columns, named as in the vendor exports
const (
	ColSiteName      = "Site_Name"
	ColCellName      = "Cell_Name"
	ColSiteID        = "Site_ID"
	ColSource        = "Source"
	ColRSRPRange1    = "RSRP Range 1 (>-105dBm) %"
	ColRSRPRange2    = "RSRP Range 2 (-105~-110dBm) %"
	ColRSRPRange3    = "RSRP Range 3 (-110~-115dBm) %"
	ColRSRPRange4    = "RSRP < -115dBm %"
	ColGoodSignalAvg = "Good Signal Avg (Range 1+2) %"
	ColPoorSignalAvg = "Poor Signal Avg (Range 3+4) %"
	ColSignalQuality = "Signal Quality"
)

// Signal quality labels
const (
	SignalGood = "Good"
	SignalPoor = "Poor"
)

// RSRPRecord is one cell row of a vendor RSRP distribution report
type RSRPRecord struct {
	SiteName string  `json:"Site_Name"`
	CellName string  `json:"Cell_Name"`
	SiteID   string  `json:"Site_ID"`
	Range1   float64 `json:"RSRP Range 1 (>-105dBm) %"`
	Range2   float64 `json:"RSRP Range 2 (-105~-110dBm) %"`
	Range3   float64 `json:"RSRP Range 3 (-110~-115dBm) %"`
	Range4   float64 `json:"RSRP < -115dBm %"`
	Source   string  `json:"Source"` // ZTE or Huawei

	// Derived per site
	GoodSignalAvg float64 `json:"Good Signal Avg (Range 1+2) %"`
	PoorSignalAvg float64 `json:"Poor Signal Avg (Range 3+4) %"`
	SignalQuality string  `json:"Signal Quality"`
}

// Value returns the cell under the given column name
func (r RSRPRecord) Value(column string) any {
	switch column {
	case ColSiteName:
		return r.SiteName
	case ColCellName:
		return r.CellName
	case ColSiteID:
		return r.SiteID
	case ColSource:
		return r.Source
	case ColRSRPRange1:
		return r.Range1
	case ColRSRPRange2:
		return r.Range2
	case ColRSRPRange3:
		return r.Range3
	case ColRSRPRange4:
		return r.Range4
	case ColGoodSignalAvg:
		return r.GoodSignalAvg
	case ColPoorSignalAvg:
		return r.PoorSignalAvg
	case ColSignalQuality:
		return r.SignalQuality
	}
	return nil
}

// RSRPRangeColumns lists the four bucket columns in order
var RSRPRangeColumns = []string{ColRSRPRange1, ColRSRPRange2, ColRSRPRange3, ColRSRPRange4}

// RSRPFilterResult is the response of the RSRP filter endpoints
type RSRPFilterResult struct {
	Data          []RSRPRecord      `json:"data"`
	TotalCount    int               `json:"total_count"`
	FilteredCount int               `json:"filtered_count"`
	Filters       map[string]string `json:"filters"`
	SortBy        string            `json:"sort_by"`
	SortOrder     string            `json:"sort_order"`
	CellCode      string            `json:"cell_code,omitempty"`
	SiteID        string            `json:"site_id,omitempty"`
}
