package notary

import (
	"github.com/mrz1836/liftoff/internal/constants"
	"github.com/mrz1836/liftoff/internal/credentials"
	"github.com/mrz1836/liftoff/internal/shell"
)

type altoolAdapter struct{}

func (altoolAdapter) auth(creds credentials.Credentials) []string {
	args := []string{"-u", creds.AppleID(), "-p", creds.Password()}
	if creds.TeamID() != "" {
		args = append(args, "--asc-provider", creds.TeamID())
	}
	return args
}

func (a altoolAdapter) probeCommand(creds credentials.Credentials) shell.Command {
	return shell.Command{
		Name: constants.ToolXcrun,
		Args: append([]string{"altool", "--list-providers"}, a.auth(creds)...),
	}
}

func (a altoolAdapter) submitCommand(creds credentials.Credentials, req SubmitRequest) shell.Command {
	args := []string{"altool", "--notarize-app", "--primary-bundle-id", req.BundleID}
	args = append(args, a.auth(creds)...)
	args = append(args, "-f", req.ArtifactPath)
	return shell.Command{Name: constants.ToolXcrun, Args: args}
}

func (a altoolAdapter) statusCommand(creds credentials.Credentials, id string) shell.Command {
	return shell.Command{
		Name: constants.ToolXcrun,
		Args: append([]string{"altool", "--notarization-info", id}, a.auth(creds)...),
	}
}

// altool publishes its log as a URL in the status output.
func (altoolAdapter) logCommand(_ credentials.Credentials, _, statusOutput string, c *Classifier) (shell.Command, bool) {
	url, ok := c.LogURL(statusOutput)
	if !ok {
		return shell.Command{}, false
	}
	return shell.Command{Name: constants.ToolCurl, Args: []string{"-fsSL", url}}, true
}
