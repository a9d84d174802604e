package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/liftoff/internal/constants"
	"github.com/mrz1836/liftoff/internal/errors"
)

// HomeEnv overrides the global liftoff directory.
const HomeEnv = "LIFTOFF_HOME"

// GlobalConfigDir returns the path to the global liftoff directory:
// $LIFTOFF_HOME if set, otherwise ~/.liftoff.
func GlobalConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.LiftoffHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
func ProjectConfigPath() string {
	return filepath.Join(constants.ProjectConfigDir, constants.ConfigFileName)
}

// LogDir returns the directory holding the rotating CLI log.
func LogDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir), nil
}

// LockDir returns the directory holding per-project run locks.
func LockDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LocksDir), nil
}
