package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/subscriber-insights-go/internal/models"
)

var usageFilePattern = regexp.MustCompile(`^USERTD_(\d{4})_(\d{2})\.txt$`)

// Usage extract columns, after upper-casing
const (
	UsageMSISDN        = "MSISDN"
	UsageVolume2G      = "VOLUME_2G_MB"
	UsageVolume3G      = "VOLUME_3G_MB"
	UsageVolume4G      = "VOLUME_4G_MB"
	UsageVolume5G      = "VOLUME_5G_MB"
	UsageIncomingVoice = "INCOMING_VOICE"
	UsageOutgoingVoice = "OUTGOING_VOICE"
	UsageIncomingSMS   = "INCOMING_SMS"
	UsageOutgoingSMS   = "OUTGOING_SMS"
)

// MonthKey formats the display key of a month, e.g. "March 2025"
func MonthKey(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}

// DetectUsageFiles finds USERTD_YYYY_MM.txt extracts in dir, oldest first
func DetectUsageFiles(dir string) ([]models.UsageMonth, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var months []models.UsageMonth
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := usageFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			continue
		}
		months = append(months, models.UsageMonth{
			Key:       MonthKey(year, month),
			Year:      year,
			Month:     month,
			MonthName: time.Month(month).String(),
			Filename:  filepath.Join(dir, e.Name()),
		})
	}

	sort.SliceStable(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})
	return months, nil
}

// LoadUsage reads every extract and tags each row with its month key.
// A file that cannot be read is returned as an error together with the rows
// loaded so far.
func LoadUsage(months []models.UsageMonth) ([]models.UsageRecord, error) {
	var records []models.UsageRecord
	for _, m := range months {
		t, err := ReadTSV(m.Filename)
		if err != nil {
			return records, fmt.Errorf("failed to load usage for %s: %w", m.Key, err)
		}
		for i := range t.Header {
			t.Header[i] = strings.ToUpper(t.Header[i])
		}
		records = append(records, usageRows(t, m.Key)...)
	}
	return records, nil
}

func usageRows(t *Table, month string) []models.UsageRecord {
	msisdn := t.Index(UsageMSISDN)
	if msisdn < 0 {
		return nil
	}
	v2, v3, v4, v5 := t.Index(UsageVolume2G), t.Index(UsageVolume3G), t.Index(UsageVolume4G), t.Index(UsageVolume5G)
	iv, ov := t.Index(UsageIncomingVoice), t.Index(UsageOutgoingVoice)
	inSMS, outSMS := t.Index(UsageIncomingSMS), t.Index(UsageOutgoingSMS)

	out := make([]models.UsageRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		id := NormalizeID(Cell(row, msisdn))
		if id == "" {
			continue
		}
		out = append(out, models.UsageRecord{
			MSISDN:        id,
			Month:         month,
			Volume2GMB:    numberOrZero(Cell(row, v2)),
			Volume3GMB:    numberOrZero(Cell(row, v3)),
			Volume4GMB:    numberOrZero(Cell(row, v4)),
			Volume5GMB:    numberOrZero(Cell(row, v5)),
			IncomingVoice: numberOrZero(Cell(row, iv)),
			OutgoingVoice: numberOrZero(Cell(row, ov)),
			IncomingSMS:   numberOrZero(Cell(row, inSMS)),
			OutgoingSMS:   numberOrZero(Cell(row, outSMS)),
		})
	}
	return out
}
