// Package courier implements the courier (kurir) aggregate. Roster
// administration lives outside this subsystem; the orchestration core reads
// the administrative IsActive flag and the operational status, and the
// assignment engine owns the transition into busy.
package courier
