// Package perms holds the file modes used when the exporter writes to disk.
package perms

import "os"

const (
	// RegularFile is used for the generated configuration file and log files.
	// Mode 0644: owner read/write, group read, others read.
	RegularFile os.FileMode = 0o644

	// LogFileFlags opens a log file for appending, creating it when missing.
	LogFileFlags = os.O_CREATE | os.O_APPEND | os.O_WRONLY
)
