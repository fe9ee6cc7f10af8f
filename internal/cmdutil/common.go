package cmdutil

import (
	"errors"
	"io/fs"
	"os"

	"github.com/ryan-gang/ink-drop/internal/config"
	"github.com/ryan-gang/ink-drop/internal/logger"
	"github.com/ryan-gang/ink-drop/internal/util"
	"github.com/spf13/cobra"
)

// SkipEnvFile is the annotation for commands that handle the env file themselves
const SkipEnvFile = "skip-env-file"

// Setup prepares logging and loads the env file for a command
func Setup(cmd *cobra.Command) error {
	if err := SetupLogger(cmd); err != nil {
		return err
	}
	if _, skip := cmd.Annotations[SkipEnvFile]; skip {
		return nil
	}
	return LoadEnvFile(cmd)
}

// SetupLogger replaces the default logger according to --log-file and --verbose
func SetupLogger(cmd *cobra.Command) error {
	logFile, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}

	l, err := logger.NewLogger(logFile, verbose)
	if err != nil {
		return err
	}
	logger.SetDefault(l)
	return nil
}

// LoadEnvFile loads the file given by --env-file into the environment.
// The default file is optional, an explicitly named one is not.
func LoadEnvFile(cmd *cobra.Command) error {
	filename, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return err
	}

	err = config.LoadEnvFile(filename)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
		logger.Debugf("No env file at %s, using the process environment", filename)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debugf("Loaded env file %s", filename)
	return nil
}

// LoadConfigOrExit loads the delivery configuration and exits with an error message if it fails
func LoadConfigOrExit() config.DeliveryConfig {
	cfg, err := config.Load()
	if err != nil {
		util.LogError(util.ConfigError, "loading configuration", err)
		util.Cyan.Println("Run 'inkdrop configure' or set SMTP_USER, SMTP_PASS and KINDLE_EMAIL")
		os.Exit(1)
	}
	return cfg
}
