package cmd

import (
	"os"
	"path/filepath"

	"github.com/lithammer/dedent"
	"github.com/ryan-gang/ink-drop/internal/article"
	"github.com/ryan-gang/ink-drop/internal/logger"
	"github.com/ryan-gang/ink-drop/internal/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringP("out", "o", ".", "Directory to save the articles in")
	downloadCmd.Flags().Duration("fetch-timeout", article.DefaultFetchTimeout, "Timeout for downloading a web page")
}

var (
	helpDownload = `Downloads the webpage or collection of webpages from given arguments
that can be a standalone link or a text file containing multiple links.
Each page is saved as the same HTML document 'inkdrop send' would mail.`

	exampleDownload = dedent.Dedent(`
		# Download a single webpage
		inkdrop download "http://paulgraham.com/alien.html"

		# Download webpage and collection of webpages into a folder
		inkdrop download -o articles "http://paulgraham.com/alien.html" links.txt`,
	)
)

var downloadCmd = &cobra.Command{
	Use:     "download [LINK|FILE]...",
	Short:   "Download webpages as HTML and save them locally",
	Long:    helpDownload,
	Example: exampleDownload,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out, _ := cmd.Flags().GetString("out")
		timeout, _ := cmd.Flags().GetDuration("fetch-timeout")

		if err := os.MkdirAll(out, 0o755); err != nil {
			util.LogError(util.FileError, "creating output directory", err)
			os.Exit(1)
		}

		sources, classifyErr := article.Classify(args)
		if classifyErr != nil {
			util.LogError(util.FileError, "reading link lists", classifyErr)
		}
		saved := make([]string, 0, len(sources))
		for _, src := range sources {
			a, err := article.Load(src, "", timeout)
			if err != nil {
				util.LogError(util.ArticleError, "loading "+src.Location, err)
				continue
			}
			content, err := a.HTML()
			if err != nil {
				util.LogError(util.ArticleError, "formatting "+a.Title, err)
				continue
			}

			path := filepath.Join(out, article.Filename(a))
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				util.LogError(util.FileError, "saving "+a.Title, err)
				continue
			}
			logger.Debugf("Saved %s from %s", path, a.Source)
			saved = append(saved, path)
		}

		util.CyanBold.Printf("Downloaded %d files :\n", len(saved))
		for idx, path := range saved {
			util.Cyan.Printf("%d. %s\n", idx+1, filepath.Base(path))
		}
		if classifyErr != nil || len(saved) < len(sources) {
			os.Exit(1)
		}
	},
}
