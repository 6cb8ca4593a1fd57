package models

import (
	"encoding/json"
	"strconv"
)

// Sentinel values shown when a lookup misses
const (
	NotFound = "Not Found"
	Unknown  = "Unknown"
)

// SubscriberRecord is one line of the semicolon-delimited subscriber location file
type SubscriberRecord struct {
	IMSI     string `json:"imsi"`
	MSISDN   string `json:"msisdn"`
	IMEI     string `json:"imei"`
	TAC      string `json:"tac"`      // First 8 IMEI digits
	Location string `json:"location"` // e.g. 413-1f4-2a3c
}

// Coord is a longitude or latitude that may be missing.
// It renders as "Not Found" when missing.
type Coord struct {
	Value float64
	Valid bool
}

// NewCoord returns a valid coordinate
func NewCoord(v float64) Coord {
	return Coord{Value: v, Valid: true}
}

func (c Coord) String() string {
	if !c.Valid {
		return NotFound
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler
func (c Coord) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return json.Marshal(NotFound)
	}
	return json.Marshal(c.Value)
}

// CellLocation is a row of the cell reference table
type CellLocation struct {
	LAC      int64  `json:"lac" db:"lac"`
	CellID   int64  `json:"cell_id" db:"cell_id"`
	SiteName string `json:"site_name" db:"site_name"`
	CellCode string `json:"cell_code" db:"cell_code"`
	Lon      Coord  `json:"lon" db:"lon"`
	Lat      Coord  `json:"lat" db:"lat"`
	Region   string `json:"region" db:"region"`
	District string `json:"district" db:"district"`
	TechType string `json:"tech_type,omitempty" db:"tech_type"` // 2G, 3G, 4G ...
}

// Device is a row of the TAC catalog
type Device struct {
	TAC                 string `json:"tac" db:"tac"`
	Brand               string `json:"brand" db:"brand"`
	Model               string `json:"model" db:"model"`
	SoftwareOSName      string `json:"software_os_name" db:"software_os_name"`
	MarketingName       string `json:"marketing_name" db:"marketing_name"`
	YearReleased        string `json:"year_released" db:"year_released"`
	DeviceType          string `json:"device_type" db:"device_type"`
	VoLTE               string `json:"volte" db:"volte"`
	Technology          string `json:"technology" db:"technology"`
	PrimaryHardwareType string `json:"primary_hardware_type" db:"primary_hardware_type"`
}

// UnknownDevice returns a device whose every field is "Not Found"
func UnknownDevice(tac string) Device {
	return Device{
		TAC:                 tac,
		Brand:               NotFound,
		Model:               NotFound,
		SoftwareOSName:      NotFound,
		MarketingName:       NotFound,
		YearReleased:        NotFound,
		DeviceType:          NotFound,
		VoLTE:               NotFound,
		Technology:          NotFound,
		PrimaryHardwareType: NotFound,
	}
}

// MonthlyUsage holds one value per month for every usage series
type MonthlyUsage struct {
	Months        []string  `json:"months"`
	Volume2G      []int64   `json:"2G"`
	Volume3G      []int64   `json:"3G"`
	Volume4G      []int64   `json:"4G"`
	Volume5G      []int64   `json:"5G"`
	OutgoingVoice []float64 `json:"outgoing_voice"`
	IncomingVoice []float64 `json:"incoming_voice"`
	OutgoingSMS   []int64   `json:"outgoing_sms"`
	IncomingSMS   []int64   `json:"incoming_sms"`
	Total         []int64   `json:"Total"`
}

// NewMonthlyUsage returns an empty, non-nil usage series
func NewMonthlyUsage() MonthlyUsage {
	return MonthlyUsage{
		Months:        []string{},
		Volume2G:      []int64{},
		Volume3G:      []int64{},
		Volume4G:      []int64{},
		Volume5G:      []int64{},
		OutgoingVoice: []float64{},
		IncomingVoice: []float64{},
		OutgoingSMS:   []int64{},
		IncomingSMS:   []int64{},
		Total:         []int64{},
	}
}

// IsEmpty reports whether no month has been recorded
func (u MonthlyUsage) IsEmpty() bool {
	return len(u.Months) == 0
}

// CommonCell is a cell the subscriber was seen on according to the VLR snapshot
type CommonCell struct {
	CellCode   string       `json:"CELL_CODE"`
	SiteName   string       `json:"SITE_NAME"`
	District   string       `json:"DISTRICT"`
	LAC        string       `json:"LAC"`
	Cell       string       `json:"CELL"`
	Lon        Coord        `json:"LON"`
	Lat        Coord        `json:"LAT"`
	DistanceKm *float64     `json:"DISTANCE_KM,omitempty"` // From the serving cell
	RSRPData   []RSRPRecord `json:"RSRP_DATA"`
}

// Profile is the consolidated view of one subscriber
type Profile struct {
	MSISDN         string `json:"MSISDN"`
	IMSI           string `json:"IMSI"`
	IMEI           string `json:"IMEI"`
	SIMType        string `json:"SIM Type"`
	ConnectionType string `json:"Connection Type"`

	// Serving cell
	LAC      string `json:"LAC"` // Decimal, or "Not Found"
	SAC      string `json:"SAC"`
	SiteName string `json:"Sitename"`
	CellCode string `json:"Cellcode"`
	Lon      Coord  `json:"Lon"`
	Lat      Coord  `json:"Lat"`
	Region   string `json:"Region"`
	District string `json:"District"`

	// Device
	TAC                 string `json:"TAC"`
	Brand               string `json:"Brand"`
	Model               string `json:"Model"`
	OS                  string `json:"OS"`
	MarketingName       string `json:"Marketing Name"`
	YearReleased        string `json:"Year Released"`
	DeviceType          string `json:"Device Type"`
	VoLTE               string `json:"VoLTE"`
	Technology          string `json:"Technology"`
	PrimaryHardwareType string `json:"Primary Hardware Type"`

	MonthlyUsage MonthlyUsage `json:"Monthly Usage"`
	CommonCells  []CommonCell `json:"Common Cell Locations"`
	RSRPData     []RSRPRecord `json:"RSRP Data"`
}

// HasLocation reports whether the serving cell coordinates are known
func (p *Profile) HasLocation() bool {
	return p.Lat.Valid && p.Lon.Valid
}

// HasCellCode reports whether the serving cell was resolved
func (p *Profile) HasCellCode() bool {
	return p.CellCode != "" && p.CellCode != NotFound
}
