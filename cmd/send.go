package cmd

import (
	"fmt"
	"os"

	"github.com/lithammer/dedent"
	"github.com/ryan-gang/ink-drop/internal/article"
	"github.com/ryan-gang/ink-drop/internal/cmdutil"
	"github.com/ryan-gang/ink-drop/internal/config"
	"github.com/ryan-gang/ink-drop/internal/mail"
	"github.com/ryan-gang/ink-drop/internal/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sendCmd)
}

var (
	helpLong = `Sends articles to the Kindle. Each argument can be a link to a web page,
a text file containing links or a local HTML file. Web pages are reduced to
their readable content first; local HTML files are sent unchanged.
Every article is mailed separately.

When an article cannot be delivered an alert is mailed to SMTP_USER.`

	helpExample = dedent.Dedent(`
		# Send a single webpage
		inkdrop send "http://paulgraham.com/alien.html"

		# Send a formatted HTML file under a custom title
		inkdrop send --title "Alien Truth" alien.html

		# Send every link in a reading list, without alerting on failure
		inkdrop send --no-alert links.txt`,
	)
)

func init() {
	sendCmd.Flags().StringP("title", "t", "", "Title of the article, only valid for a single article")
	sendCmd.Flags().Duration("fetch-timeout", article.DefaultFetchTimeout, "Timeout for downloading a web page")
	sendCmd.Flags().Bool("no-alert", false, "Do not mail an alert when delivery fails")
}

var sendCmd = &cobra.Command{
	Use:     "send [LINK|FILE]...",
	Short:   "Send webpages and HTML files to the Kindle",
	Long:    helpLong,
	Example: helpExample,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit()

		title, _ := cmd.Flags().GetString("title")
		timeout, _ := cmd.Flags().GetDuration("fetch-timeout")
		noAlert, _ := cmd.Flags().GetBool("no-alert")

		sources, err := article.Classify(args)
		failed := 0
		if err != nil {
			util.LogError(util.FileError, "reading link lists", err)
			failed++
		}
		if len(sources) == 0 {
			util.Red.Println("Nothing to send")
			os.Exit(1)
		}
		if title != "" && len(sources) > 1 {
			util.LogErrorf(util.ValidationError, "parsing flags", "--title can only be used with a single article, got %d", len(sources))
			os.Exit(1)
		}

		util.CyanBold.Printf("Sending %d articles to %s\n", len(sources), cfg.KindleEmail)

		for i, src := range sources {
			a, err := article.Load(src, title, timeout)
			if err != nil {
				util.LogError(util.ArticleError, "loading "+src.Location, err)
				failed++
				continue
			}

			content, err := a.HTML()
			if err != nil {
				util.LogError(util.ArticleError, "formatting "+a.Title, err)
				failed++
				continue
			}

			util.Cyan.Printf("%d. %s\n", i+1, a.Title)
			if err := mail.SendToKindle(a.Title, content); err != nil {
				failed++
				if config.IsConfigError(err) {
					util.LogError(util.ConfigError, "loading configuration", err)
					os.Exit(1)
				}
				util.LogError(util.MailError, "sending "+a.Title, err)
				if !noAlert {
					reportFailure(cfg, a, err)
				}
				continue
			}
			util.Green.Printf("Sent %s (%s)\n", a.Title, mail.AttachmentName(a.Title))
		}

		if failed > 0 {
			util.Red.Printf("Finished with %d errors\n", failed)
			os.Exit(1)
		}
		util.GreenBold.Printf("Mailed %d articles to %s\n", len(sources), cfg.KindleEmail)
	},
}

func reportFailure(cfg config.DeliveryConfig, a article.Article, cause error) {
	subject := "Failed to send " + a.Title
	message := fmt.Sprintf("Ink Drop could not deliver an article to your Kindle.\n\nTitle: %s\nSource: %s\nError: %v\n",
		a.Title, a.Source, cause)

	if !mail.SendAlert(subject, message) {
		util.LogErrorf(util.AlertError, "reporting "+a.Title, "alert to %s was not sent, see the log", cfg.User)
		return
	}
	util.Magenta.Println("Alert sent to", cfg.User)
}
