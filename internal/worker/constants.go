package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Sweep Jobs
// ============================================================================

// Log messages for subscription sweep jobs
const (
	LogMsgSweepStarting     = "Sweep starting"
	LogMsgSweepCompleted    = "Sweep completed"
	LogMsgSweepFailed       = "Sweep failed"
	LogMsgSweepStillRunning = "Previous sweep still running, skipping tick"
)

// Sweep names used in logs and metric labels
const (
	SweepNameExpiry  = "expiry"
	SweepNameWarning = "warning"
)
