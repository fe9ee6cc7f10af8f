package cmd

import (
	"fmt"
	"os"

	"github.com/ryan-gang/ink-drop/internal/cmdutil"
	"github.com/ryan-gang/ink-drop/internal/config"
	"github.com/ryan-gang/ink-drop/internal/logger"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("env-file", "e", config.DefaultEnvFile, "Path to the env file holding the SMTP settings")
	rootCmd.PersistentFlags().String("log-file", "", "Append logs to this file as well as stderr")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:   "inkdrop",
	Short: "Send articles to your Kindle over email",
	Long: `inkdrop mails articles to your Kindle as HTML attachments and sends
alert notifications to yourself when something goes wrong.

Articles can be local HTML files, links to web pages or text files containing
one link per line. Each article is sent as its own email.

SMTP settings are read from the environment (SMTP_HOST, SMTP_PORT, SMTP_USER,
SMTP_PASS, KINDLE_EMAIL, FROM_EMAIL), optionally loaded from an env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.Setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Show help if no command is provided
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
