package service

import "errors"

// Lookup errors. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrInvalidMSISDN      = errors.New("MSISDN must contain digits only")
	ErrMSISDNNotFound     = errors.New("MSISDN not found")
	ErrInvalidLocation    = errors.New("Invalid hex values for LAC or SAC")
	ErrNoCellCode         = errors.New("No cell code found for this MSISDN")
	ErrNoRSRPData         = errors.New("No RSRP data found")
	ErrDatasetUnavailable = errors.New("dataset unavailable")
)
