package cmd

import (
	"os"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/ryan-gang/ink-drop/internal/cmdutil"
	"github.com/ryan-gang/ink-drop/internal/mail"
	"github.com/ryan-gang/ink-drop/internal/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(alertCmd)
}

var exampleAlert = dedent.Dedent(`
	# Tell yourself the session cookies need refreshing
	inkdrop alert "Cookies expired" "Log in again and export the cookies."

	# Subject only
	inkdrop alert "Nightly fetch finished"`,
)

var alertCmd = &cobra.Command{
	Use:     "alert SUBJECT [MESSAGE]...",
	Short:   "Mail an alert to yourself",
	Long:    `Mails a plain-text alert to SMTP_USER. The subject is prefixed with "` + strings.TrimSpace(mail.AlertSubjectPrefix) + `".`,
	Example: exampleAlert,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit()

		subject := args[0]
		message := strings.Join(args[1:], " ")
		if message == "" {
			message = subject
		}

		if !mail.SendAlert(subject, message) {
			util.LogErrorf(util.AlertError, "sending alert", "alert to %s was not sent, see the log", cfg.User)
			os.Exit(1)
		}
		util.GreenBold.Printf("Alert sent to %s\n", cfg.User)
	},
}
