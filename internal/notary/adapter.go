package notary

import (
	"github.com/mrz1836/liftoff/internal/credentials"
	"github.com/mrz1836/liftoff/internal/shell"
)

// SubmitRequest carries the per-artifact details a submission needs.
type SubmitRequest struct {
	// ArtifactPath is the archive or disk image to upload.
	ArtifactPath string
	// BundleID is the primary bundle identifier; altool requires it.
	BundleID string
}

// adapter builds the command lines for one backend. Adapters never run
// anything and never interpret output.
type adapter interface {
	probeCommand(creds credentials.Credentials) shell.Command
	submitCommand(creds credentials.Credentials, req SubmitRequest) shell.Command
	statusCommand(creds credentials.Credentials, id string) shell.Command
	// logCommand returns the diagnostic log fetch for id. ok is false when
	// the backend has no separate log to fetch.
	logCommand(creds credentials.Credentials, id, statusOutput string, c *Classifier) (cmd shell.Command, ok bool)
}

func adapterFor(b Backend) adapter {
	if b == BackendNotarytool {
		return notarytoolAdapter{}
	}
	return altoolAdapter{}
}
