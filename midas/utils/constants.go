package utils

import "time"

const (
	// Background job cadence
	EconomyTickInterval     = time.Hour
	LoanSweepInterval       = 6 * time.Hour
	InvestmentSweepInterval = 12 * time.Hour
	EventSweepInterval      = 24 * time.Hour
	ArchiveInterval         = 24 * time.Hour
	ElectionSweepInterval   = time.Hour

	// Market data
	MarketDataTimeout = 10 * time.Second
	CacheExpiration   = 5 * time.Minute
)
