package cmd

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/ryan-gang/ink-drop/internal/cmdutil"
	"github.com/ryan-gang/ink-drop/internal/config"
	"github.com/ryan-gang/ink-drop/internal/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configureCmd)
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure the SMTP account and Kindle address",
	Long: `Asks for the SMTP credentials and the Kindle address and stores them in
the env file given by --env-file. Existing values are offered as defaults.`,
	Annotations: map[string]string{cmdutil.SkipEnvFile: ""},
	Run: func(cmd *cobra.Command, args []string) {
		envFile, _ := cmd.Flags().GetString("env-file")

		current, err := config.ReadEnvFile(envFile)
		switch {
		case err == nil:
			util.CyanBold.Printf("Updating configuration in %s\n", envFile)
		case errors.Is(err, fs.ErrNotExist):
			util.CyanBold.Println("Creating new configuration...")
			current = map[string]string{}
		default:
			util.LogError(util.ConfigError, "reading "+envFile, err)
			os.Exit(1)
		}

		answers := promptConfig(current)

		cfg, err := config.LoadFrom(answers)
		if err != nil {
			util.LogError(util.ConfigError, "validating configuration", err)
			os.Exit(1)
		}
		if err := config.WriteEnvFile(cfg, envFile); err != nil {
			util.LogError(util.FileError, "saving configuration", err)
			os.Exit(1)
		}
		util.Green.Printf("Configuration saved to %s\n", envFile)

		util.CyanBold.Println("\nNext steps:")
		util.Cyan.Printf("- Add %s to the approved senders of your Kindle\n", cfg.FromEmail)
		util.Cyan.Println("- Run 'inkdrop alert test' to check the SMTP settings")
		util.Cyan.Println("- Run 'inkdrop send <files/urls>' to send articles")
	},
}

func isGmail(address string) bool {
	return strings.HasSuffix(strings.ToLower(address), "@gmail.com")
}

func promptConfig(current map[string]string) map[string]string {
	answers := make(map[string]string, len(current))
	for k, v := range current {
		answers[k] = v
	}

	answers["SMTP_USER"] = util.Prompt("Email address used to send mails", current["SMTP_USER"])
	if isGmail(answers["SMTP_USER"]) {
		util.Magenta.Println("Gmail needs an app password: https://myaccount.google.com/apppasswords")
		answers["SMTP_HOST"] = config.DefaultHost
		if answers["SMTP_PORT"] == "" {
			answers["SMTP_PORT"] = "587"
		}
	} else {
		answers["SMTP_HOST"] = util.Prompt("SMTP server", current["SMTP_HOST"])
		answers["SMTP_PORT"] = util.Prompt("SMTP port", defaultString(current["SMTP_PORT"], "587"))
	}

	util.Cyan.Print("Password (leave empty to keep the current one) : ")
	if pass := util.ScanlineTrim(); pass != "" {
		answers["SMTP_PASS"] = pass
	}

	answers["KINDLE_EMAIL"] = util.Prompt("Kindle email address", current["KINDLE_EMAIL"])
	answers["FROM_EMAIL"] = util.Prompt("Sender address, empty to use the login", current["FROM_EMAIL"])
	return answers
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
