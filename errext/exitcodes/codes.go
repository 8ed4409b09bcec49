// Package exitcodes contains the constants representing possible srcmapaudit
// exit error codes.
package exitcodes

// ExitCode is just a type representing a process exit code for srcmapaudit
type ExitCode uint8

// list of exit codes used by srcmapaudit
const (
	AuditFailed     ExitCode = 99
	InvalidConfig   ExitCode = 104
	InvalidArtifact ExitCode = 105
	GoPanic         ExitCode = 109
)
