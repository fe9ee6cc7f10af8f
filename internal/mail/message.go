package mail

import (
	"io"
	"mime"
	"strings"
	"unicode"

	"github.com/ryan-gang/ink-drop/internal/config"

	gomail "gopkg.in/mail.v2"
)

const (
	AlertSubjectPrefix = "[Ink Drop Alert] "

	defaultFilename   = "article"
	maxFilenameLength = 100
	invalidFilename   = `<>:"/\|?*`
	htmlContentType   = "text/html; charset=utf-8"
)

// newArticleMessage builds the message carrying htmlContent as an HTML
// attachment addressed to the Kindle.
func newArticleMessage(cfg config.ConfigProvider, title, htmlContent string) *gomail.Message {
	title = sanitizeHeader(title)

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.GetFromEmail())
	msg.SetHeader("To", cfg.GetKindleEmail())
	msg.SetHeader("Subject", title)
	msg.SetBody("text/plain", "Article: "+title+"\n\nSent via Ink Drop")

	filename := AttachmentName(title)
	msg.Attach(filename,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.WriteString(w, htmlContent)
			return err
		}),
		gomail.SetHeader(map[string][]string{
			"Content-Type":              {htmlContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {attachmentDisposition(filename)},
		}),
	)
	return msg
}

// newAlertMessage builds a plain-text notification addressed to the SMTP user.
func newAlertMessage(cfg config.ConfigProvider, subject, message string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.GetFromEmail())
	msg.SetHeader("To", cfg.GetUser())
	msg.SetHeader("Subject", AlertSubjectPrefix+sanitizeHeader(subject))
	msg.SetBody("text/plain", message)
	return msg
}

// AttachmentName returns the attachment file name used for an article title.
func AttachmentName(title string) string {
	return sanitizeFilename(title) + ".html"
}

// sanitizeFilename drops characters that are invalid in file names on common
// filesystems, caps the length and falls back to "article".
func sanitizeFilename(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFilename, r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, title)

	if runes := []rune(cleaned); len(runes) > maxFilenameLength {
		cleaned = string(runes[:maxFilenameLength])
	}
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return defaultFilename
	}
	return cleaned
}

// sanitizeHeader removes control characters so a value cannot break out of
// its header line.
func sanitizeHeader(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}

func attachmentDisposition(filename string) string {
	for _, r := range filename {
		if r > unicode.MaxASCII {
			// RFC 2231 encoding for non-ASCII names
			return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
		}
	}
	return `attachment; filename="` + filename + `"`
}
