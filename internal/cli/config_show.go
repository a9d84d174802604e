package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/liftoff/internal/config"
	"github.com/mrz1836/liftoff/internal/credentials"
	"github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/logging"
	"github.com/mrz1836/liftoff/internal/tui"
)

// newConfigCmd groups configuration subcommands.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect liftoff configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the effective configuration after merging defaults, the global
config (~/.liftoff/config.yaml), the project config (.liftoff/config.yaml),
LIFTOFF_* environment variables and flags.

Credentials never come from config files. Their presence is listed with the
password redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigShow()
		},
	})
	return cmd
}

// credentialStatus shows which credential fields are set.
type credentialStatus struct {
	AppleID          string   `yaml:"apple_id" json:"apple_id"`
	Password         string   `yaml:"apple_password" json:"apple_password"`
	TeamID           string   `yaml:"team_id" json:"team_id"`
	UploadReady      bool     `yaml:"upload_ready" json:"upload_ready"`
	NotarizeReady    bool     `yaml:"notarize_ready" json:"notarize_ready"`
	MissingForNotary []string `yaml:"missing,omitempty" json:"missing,omitempty"`
}

func newCredentialStatus(c credentials.Credentials) credentialStatus {
	status := credentialStatus{
		AppleID:          c.AppleID(),
		TeamID:           c.TeamID(),
		UploadReady:      c.IsComplete(credentials.RequirementUpload),
		NotarizeReady:    c.IsComplete(credentials.RequirementNotarize),
		MissingForNotary: c.Missing(credentials.RequirementNotarize),
	}
	if c.Password() != "" {
		status.Password = logging.RedactedValue
	}
	return status
}

// configSources lists the files that were merged.
type configSources struct {
	Global  string `yaml:"global,omitempty" json:"global,omitempty"`
	Project string `yaml:"project,omitempty" json:"project,omitempty"`
}

func (a *app) sources() configSources {
	var s configSources
	if path, err := config.GlobalConfigPath(); err == nil && fileExists(path) {
		s.Global = path
	}
	project := a.flags.ConfigFile
	if project == "" {
		project = config.ProjectConfigPath()
	}
	if fileExists(project) {
		if abs, err := filepath.Abs(project); err == nil {
			project = abs
		}
		s.Project = project
	}
	return s
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (a *app) runConfigShow() error {
	creds := newCredentialStatus(a.creds)
	sources := a.sources()

	if a.out.IsJSON() {
		// Round-trip through YAML so JSON keys match the config file keys.
		doc, err := yaml.Marshal(a.cfg)
		if err != nil {
			return errors.Wrap(err, "failed to encode config")
		}
		var settings map[string]any
		if err := yaml.Unmarshal(doc, &settings); err != nil {
			return errors.Wrap(err, "failed to decode config")
		}
		return a.out.JSON(map[string]any{
			"config":      settings,
			"credentials": creds,
			"sources":     sources,
		})
	}

	styles := tui.NewOutputStyles()
	w := a.out.Writer()

	section := func(title string, v any) error {
		doc, err := yaml.Marshal(v)
		if err != nil {
			return errors.Wrapf(err, "failed to encode %s", title)
		}
		_, _ = fmt.Fprintln(w, styles.Header.Render(title))
		_, _ = fmt.Fprintln(w, string(doc))
		return nil
	}

	if err := section("Configuration", a.cfg); err != nil {
		return err
	}
	if err := section("Credentials", creds); err != nil {
		return err
	}
	if sources == (configSources{}) {
		a.out.Info("No config files found; showing defaults.")
		return nil
	}
	return section("Sources", sources)
}
