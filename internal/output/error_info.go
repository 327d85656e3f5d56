package output

// JobErrorInfo contains what is known about a job that did not complete.
type JobErrorInfo struct {
	JobID      string  // Job identifier
	Server     string  // Status server URL (verbose mode)
	Phase      string  // Final monitor phase ("failed", "stopped")
	StageIndex int     // 1-based stage the job was in
	StageCount int     // Number of stages
	StageName  string  // Display label of the stage
	Progress   float64 // Last known overall percentage
	Message    string  // Server message
	Err        error   // Monitor error, if any
	Polls      int     // Status requests issued (verbose mode)
	Hint       string  // Suggested next step
}

// Headline returns the short description printed in the error frame.
func (i *JobErrorInfo) Headline() string {
	switch i.Phase {
	case "failed":
		return "failed on the server"
	case "stopped":
		return "is no longer being watched"
	default:
		return "did not complete"
	}
}
