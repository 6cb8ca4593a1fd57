package repository

import (
	"github.com/jengzang/subscriber-insights-go/internal/models"
)

// The stores below hold datasets loaded once at startup. They are
// read-only afterwards and safe for concurrent readers.

// UsageStore indexes monthly usage rows by MSISDN
type UsageStore struct {
	months   []models.UsageMonth
	records  []models.UsageRecord
	byMSISDN map[string][]int
}

// NewUsageStore builds the index over records
func NewUsageStore(months []models.UsageMonth, records []models.UsageRecord) *UsageStore {
	s := &UsageStore{
		months:   months,
		records:  records,
		byMSISDN: make(map[string][]int),
	}
	for i, r := range records {
		s.byMSISDN[r.MSISDN] = append(s.byMSISDN[r.MSISDN], i)
	}
	return s
}

// Months returns the detected months, oldest first
func (s *UsageStore) Months() []models.UsageMonth {
	return s.months
}

// HasMonth reports whether key names a detected month
func (s *UsageStore) HasMonth(key string) bool {
	for _, m := range s.months {
		if m.Key == key {
			return true
		}
	}
	return false
}

// ForMSISDN returns every usage row of a subscriber
func (s *UsageStore) ForMSISDN(msisdn string) []models.UsageRecord {
	idx := s.byMSISDN[msisdn]
	out := make([]models.UsageRecord, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.records[i])
	}
	return out
}

// All returns every usage row
func (s *UsageStore) All() []models.UsageRecord {
	return s.records
}

// Len returns the number of usage rows
func (s *UsageStore) Len() int {
	return len(s.records)
}

// VLRStore indexes the VLR snapshot by MSISDN
type VLRStore struct {
	records  []models.VLRRecord
	byMSISDN map[string][]int
}

// NewVLRStore builds the index over records
func NewVLRStore(records []models.VLRRecord) *VLRStore {
	s := &VLRStore{records: records, byMSISDN: make(map[string][]int)}
	for i, r := range records {
		s.byMSISDN[r.MSISDN] = append(s.byMSISDN[r.MSISDN], i)
	}
	return s
}

// ForMSISDN returns the VLR rows of a subscriber in file order
func (s *VLRStore) ForMSISDN(msisdn string) []models.VLRRecord {
	idx := s.byMSISDN[msisdn]
	out := make([]models.VLRRecord, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.records[i])
	}
	return out
}

// All returns every VLR row
func (s *VLRStore) All() []models.VLRRecord {
	return s.records
}

// Len returns the number of VLR rows
func (s *VLRStore) Len() int {
	return len(s.records)
}

// RSRPStore keeps the vendor RSRP rows indexed by site ID
type RSRPStore struct {
	zte    map[string][]models.RSRPRecord
	huawei map[string][]models.RSRPRecord
	count  int
}

// NewRSRPStore indexes both vendor tables
func NewRSRPStore(zte, huawei []models.RSRPRecord) *RSRPStore {
	index := func(rows []models.RSRPRecord) map[string][]models.RSRPRecord {
		m := make(map[string][]models.RSRPRecord)
		for _, r := range rows {
			m[r.SiteID] = append(m[r.SiteID], r)
		}
		return m
	}
	return &RSRPStore{zte: index(zte), huawei: index(huawei), count: len(zte) + len(huawei)}
}

// BySite returns copies of the rows of siteID, ZTE rows first
func (s *RSRPStore) BySite(siteID string) []models.RSRPRecord {
	z, h := s.zte[siteID], s.huawei[siteID]
	out := make([]models.RSRPRecord, 0, len(z)+len(h))
	out = append(out, z...)
	return append(out, h...)
}

// Len returns the number of rows of both vendors
func (s *RSRPStore) Len() int {
	return s.count
}

// LTEStore holds the LTE utilization report
type LTEStore struct {
	records []models.LTERecord
	columns []string
}

// NewLTEStore wraps the loaded report
func NewLTEStore(records []models.LTERecord, columns []string) *LTEStore {
	return &LTEStore{records: records, columns: columns}
}

// All returns every report row
func (s *LTEStore) All() []models.LTERecord {
	return s.records
}

// Columns returns the report columns present, in display order
func (s *LTEStore) Columns() []string {
	return s.columns
}

// HasColumn reports whether the report carries column
func (s *LTEStore) HasColumn(column string) bool {
	for _, c := range s.columns {
		if c == column {
			return true
		}
	}
	return false
}

// Len returns the number of report rows
func (s *LTEStore) Len() int {
	return len(s.records)
}
