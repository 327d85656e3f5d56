package shared

import (
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/jobwatch/internal/config"
)

// AddServerFlags registers the flags that locate and authenticate against the
// status endpoint. Defaults are empty so config.Resolve can tell them apart
// from values given on the command line.
func AddServerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP(config.FlagServer, "s", "", "Transcription server base URL (default "+config.DefaultServer+")")
	f.String(config.FlagStatusPath, "", "Status endpoint path template containing {id}")
	f.String(config.FlagAPIToken, "", "Bearer token sent with status requests")
	f.String(config.FlagSessionCookie, "", "Session cookie sent with status requests")
	f.Duration(config.FlagTimeout, 0, "Timeout for a single status request (default 10s)")
}

// AddPollingFlags registers the flags that shape the polling loop.
func AddPollingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Duration(config.FlagInterval, 0, "Wait between polls while the job is active (default 1s)")
	f.Duration(config.FlagBackoff, 0, "Wait after a failed poll (default 2s)")
	f.Int(config.FlagMaxErrors, 0, "Stop after this many consecutive failed polls (0 = never)")
	f.Duration(config.FlagDeadline, 0, "Stop watching after this long (0 = no deadline)")
}

// AddHistoryFlags registers the flags that control the observation store.
func AddHistoryFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool(config.FlagNoHistory, false, "Do not read or record status history")
	f.String(config.FlagHistoryBackend, "", "History backend: goleveldb, bolt or memory")
}

// AddUIFlag registers the display mode flag.
func AddUIFlag(cmd *cobra.Command) {
	cmd.Flags().String(config.FlagUI, "", "Display mode: auto, line or tui")
}
