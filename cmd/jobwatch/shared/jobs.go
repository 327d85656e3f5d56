package shared

import (
	"errors"
	"strings"

	"github.com/altuslabsxyz/jobwatch/internal/history"
	"github.com/altuslabsxyz/jobwatch/internal/output"
)

// ErrJobIDRequired is returned when no job ID was given and none can be
// prompted for.
var ErrJobIDRequired = errors.New("a job ID is required")

// maxRecentJobs bounds the jobs offered in the selection prompt.
const maxRecentJobs = 8

// ResolveJobID returns the job ID from args, or asks for one when the
// terminal is interactive. Recently watched jobs from store are offered.
func ResolveJobID(args []string, interactive bool, prompter output.Prompter, store *history.Store) (string, error) {
	if len(args) > 0 {
		id := strings.TrimSpace(args[0])
		if err := output.ValidateJobID(id); err != nil {
			return "", err
		}
		return id, nil
	}
	if !interactive || prompter == nil {
		return "", ErrJobIDRequired
	}
	return output.PromptJobID(prompter, RecentJobs(store, maxRecentJobs))
}

// RecentJobs lists up to n job IDs from store, most recent first.
func RecentJobs(store *history.Store, n int) []string {
	if store == nil {
		return nil
	}
	jobs, err := store.Jobs()
	if err != nil {
		return nil
	}
	var ids []string
	for _, j := range jobs {
		if len(ids) == n {
			break
		}
		ids = append(ids, j.JobID)
	}
	return ids
}
