package models

// UsageMonth describes one detected USERTD_YYYY_MM.txt extract
type UsageMonth struct {
	Key       string `json:"key"` // e.g. "March 2025"
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Filename  string `json:"filename"`
}

// UsageRecord is one row of a monthly usage extract
type UsageRecord struct {
	MSISDN        string
	Month         string // UsageMonth.Key
	Volume2GMB    float64
	Volume3GMB    float64
	Volume4GMB    float64
	Volume5GMB    float64
	IncomingVoice float64
	OutgoingVoice float64
	IncomingSMS   float64
	OutgoingSMS   float64
}

// VLRRecord is one row of the VLR snapshot
type VLRRecord struct {
	MSISDN   string `json:"MSISDN"`
	CellCode string `json:"CELL_CODE"`
	SiteName string `json:"SITE_NAME"`
	District string `json:"DISTRICT"`
	LAC      string `json:"LAC"`
	Cell     string `json:"CELL"`
}

// LTE utilization report columns
const (
	LTECellID            = "Cell ID"
	LTESectorID          = "Sector ID"
	LTESiteName          = "Site Name"
	LTESiteID            = "Site ID"
	LTEDistrict          = "District"
	LTERegion            = "Region"
	LTESectorUtilization = "Sector Utilization (%)"
	LTECellUtilization   = "Cell Utilization (%)"
	LTEDLThroughput      = "Cell DL Average thoughput BH (Mbps)"
	LTEULThroughput      = "Cell UL Average thoughput BH (Mbps)"
	LTERadioResourceDL   = "Radio resource usage BH (DL) %"
)

// LTETextColumns are the identifier columns of the LTE report
var LTETextColumns = []string{LTECellID, LTESectorID, LTESiteName, LTESiteID, LTEDistrict, LTERegion}

// LTENumericColumns are the measurement columns of the LTE report
var LTENumericColumns = []string{LTESectorUtilization, LTECellUtilization, LTEDLThroughput, LTEULThroughput, LTERadioResourceDL}

// LTERecord is one row of the LTE utilization report.
// Text columns hold strings, numeric columns hold *float64 (nil when blank).
type LTERecord map[string]any

// Value returns the cell under the given column name
func (r LTERecord) Value(column string) any {
	v, ok := r[column]
	if !ok {
		return nil
	}
	if f, ok := v.(*float64); ok {
		if f == nil {
			return nil
		}
		return *f
	}
	return v
}

// Text returns a text column, or "" when absent
func (r LTERecord) Text(column string) string {
	s, _ := r[column].(string)
	return s
}

// Number returns a numeric column
func (r LTERecord) Number(column string) (float64, bool) {
	f, ok := r[column].(*float64)
	if !ok || f == nil {
		return 0, false
	}
	return *f, true
}

// LTESummary is the aggregate view of the LTE report
type LTESummary struct {
	TotalCells           int      `json:"total_cells"`
	TotalSites           int      `json:"total_sites"`
	TotalSectors         int      `json:"total_sectors"`
	AvgSectorUtilization *float64 `json:"avg_sector_utilization"`
	MaxSectorUtilization *float64 `json:"max_sector_utilization"`
	AvgCellUtilization   *float64 `json:"avg_cell_utilization"`
	MaxCellUtilization   *float64 `json:"max_cell_utilization"`
	P95CellUtilization   *float64 `json:"p95_cell_utilization"`
	AvgDLThroughput      *float64 `json:"avg_dl_throughput"`
	AvgULThroughput      *float64 `json:"avg_ul_throughput"`
}

// UserCount is the number of distinct subscribers seen on a site
type UserCount struct {
	District  string `json:"DISTRICT"`
	SiteID    string `json:"SITE_ID"`
	UserCount int    `json:"User_Count"`
}

// Insights summarises devices and subscribers across the session file
type Insights struct {
	TotalUniqueDevices     int      `json:"total_unique_devices"`
	TotalActiveSubscribers int      `json:"total_active_subscribers"`
	AverageDevicesPerUser  float64  `json:"average_devices_per_user"`
	Top5DeviceModels       []string `json:"top_5_device_models"`
}
