package notary

import (
	"github.com/mrz1836/liftoff/internal/constants"
	"github.com/mrz1836/liftoff/internal/credentials"
	"github.com/mrz1836/liftoff/internal/shell"
)

type notarytoolAdapter struct{}

func (notarytoolAdapter) auth(creds credentials.Credentials) []string {
	return []string{
		"--apple-id", creds.AppleID(),
		"--password", creds.Password(),
		"--team-id", creds.TeamID(),
	}
}

func (n notarytoolAdapter) probeCommand(creds credentials.Credentials) shell.Command {
	return shell.Command{
		Name: constants.ToolXcrun,
		Args: append([]string{"notarytool", "history"}, n.auth(creds)...),
	}
}

func (n notarytoolAdapter) submitCommand(creds credentials.Credentials, req SubmitRequest) shell.Command {
	return shell.Command{
		Name: constants.ToolXcrun,
		Args: append([]string{"notarytool", "submit", req.ArtifactPath}, n.auth(creds)...),
	}
}

func (n notarytoolAdapter) statusCommand(creds credentials.Credentials, id string) shell.Command {
	return shell.Command{
		Name: constants.ToolXcrun,
		Args: append([]string{"notarytool", "info", id}, n.auth(creds)...),
	}
}

func (n notarytoolAdapter) logCommand(creds credentials.Credentials, id, _ string, _ *Classifier) (shell.Command, bool) {
	return shell.Command{
		Name: constants.ToolXcrun,
		Args: append([]string{"notarytool", "log", id}, n.auth(creds)...),
	}, true
}
