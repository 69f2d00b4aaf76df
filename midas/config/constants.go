package config

import "time"

// Application-wide constants organized by domain

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout = 30 * time.Second
	BatchQueryTimeout   = 30 * time.Second
	SchemaInitTimeout   = 10 * time.Minute
	NetworkDialTimeout  = 5 * time.Second

	// Connection attempts before startup gives up
	MaxDialRetries = 3
)

// Simulation Constants
const (
	// Bound on tenants ticking concurrently
	MaxConcurrentTicks = 8

	// Window of transaction volume counted as GDP
	GDPWindow = 7 * 24 * time.Hour

	// How long history rows stay in Postgres before the archive sweep
	// exports them to cold storage
	ArchiveRetention = 90 * 24 * time.Hour
)
