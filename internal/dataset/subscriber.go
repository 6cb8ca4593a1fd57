package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jengzang/subscriber-insights-go/internal/models"
)

// errStop ends an Each scan early
var errStop = errors.New("stop")

// Columns a line needs for a profile lookup and for device counting
const (
	minSubscriberColumns = 5
	minDeviceColumns     = 3
)

// SubscriberFile is the raw semicolon-delimited subscriber location dump.
// It is scanned on every lookup and never held in memory.
type SubscriberFile struct {
	Path string
}

// NewSubscriberFile returns a handle on the file at path
func NewSubscriberFile(path string) *SubscriberFile {
	return &SubscriberFile{Path: path}
}

// ParseSubscriberLine splits one line. Lines with fewer than five columns
// are rejected.
func ParseSubscriberLine(line string) (models.SubscriberRecord, bool) {
	return parseSubscriberLine(line, minSubscriberColumns)
}

func parseSubscriberLine(line string, minColumns int) (models.SubscriberRecord, bool) {
	cols := strings.Split(strings.TrimSpace(line), ";")
	if len(cols) < minColumns {
		return models.SubscriberRecord{}, false
	}
	imei := cols[2]
	tac := imei
	if len(tac) > 8 {
		tac = tac[:8]
	}
	rec := models.SubscriberRecord{
		IMSI:   cols[0],
		MSISDN: cols[1],
		IMEI:   imei,
		TAC:    tac,
	}
	if len(cols) > 4 {
		rec.Location = cols[4]
	}
	return rec, true
}

// Each streams every well-formed record to fn until fn returns an error.
// The scan checks ctx between lines.
func (f *SubscriberFile) Each(ctx context.Context, fn func(models.SubscriberRecord) error) error {
	return f.scan(ctx, minSubscriberColumns, fn)
}

// EachDevice streams every line that carries IMSI, MSISDN and IMEI.
// Location is empty on lines without one.
func (f *SubscriberFile) EachDevice(ctx context.Context, fn func(models.SubscriberRecord) error) error {
	return f.scan(ctx, minDeviceColumns, fn)
}

func (f *SubscriberFile) scan(ctx context.Context, minColumns int, fn func(models.SubscriberRecord) error) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("failed to open subscriber file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, ok := parseSubscriberLine(scanner.Text(), minColumns)
		if !ok {
			continue
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan subscriber file: %w", err)
	}
	return nil
}

// Find returns the first record whose MSISDN equals msisdn
func (f *SubscriberFile) Find(ctx context.Context, msisdn string) (*models.SubscriberRecord, bool, error) {
	var found *models.SubscriberRecord
	err := f.Each(ctx, func(rec models.SubscriberRecord) error {
		if rec.MSISDN == msisdn {
			found = &rec
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, false, err
	}
	return found, found != nil, nil
}
