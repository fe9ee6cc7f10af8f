package mail

import (
	"bufio"
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/http"
	"net/http/httptest"
	netmail "net/mail"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	gomail "gopkg.in/mail.v2"
)

// mimePart is one decoded leaf of a parsed message.
type mimePart struct {
	ContentType string
	Disposition string
	Filename    string
	Body        []byte
}

type parsedMessage struct {
	Header  netmail.Header
	Subject string
	Parts   []mimePart
}

func renderMessage(t *testing.T, msg *gomail.Message) []byte {
	t.Helper()

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func parseMessage(t *testing.T, raw []byte) parsedMessage {
	t.Helper()

	m, err := netmail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	subject, err := new(mime.WordDecoder).DecodeHeader(m.Header.Get("Subject"))
	require.NoError(t, err)

	parsed := parsedMessage{Header: m.Header, Subject: subject}

	mediaType, params, err := mime.ParseMediaType(m.Header.Get("Content-Type"))
	require.NoError(t, err)

	if !strings.HasPrefix(mediaType, "multipart/") {
		body := decodeBody(t, m.Header.Get("Content-Transfer-Encoding"), m.Body)
		parsed.Parts = append(parsed.Parts, mimePart{ContentType: m.Header.Get("Content-Type"), Body: body})
		return parsed
	}

	mr := multipart.NewReader(m.Body, params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		part := mimePart{
			ContentType: p.Header.Get("Content-Type"),
			Disposition: p.Header.Get("Content-Disposition"),
			Filename:    p.FileName(),
		}
		// multipart.Reader already decodes quoted-printable parts
		part.Body = decodeBody(t, p.Header.Get("Content-Transfer-Encoding"), p)
		parsed.Parts = append(parsed.Parts, part)
	}
	return parsed
}

func decodeBody(t *testing.T, encoding string, r io.Reader) []byte {
	t.Helper()

	switch strings.ToLower(encoding) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return data
}

// smtpSession records what a client did during one connection.
type smtpSession struct {
	Commands []string
	StartTLS bool
	AuthUser string
	AuthPass string
	MailFrom string
	Rcpts    []string
	Data     []byte
	Quit     bool

	// ClientClosed is set when the client hung up rather than the server
	// giving up at its deadline.
	ClientClosed bool
}

type fakeSMTPOption func(*fakeSMTPServer)

func withoutStartTLS() fakeSMTPOption {
	return func(s *fakeSMTPServer) { s.noStartTLS = true }
}

func withoutAuth() fakeSMTPOption {
	return func(s *fakeSMTPServer) { s.noAuth = true }
}

func withAuthFailure() fakeSMTPOption {
	return func(s *fakeSMTPServer) { s.failAuth = true }
}

// fakeSMTPServer is a minimal ESMTP server supporting STARTTLS and AUTH PLAIN.
// It implements only what the mailer tests exercise.
type fakeSMTPServer struct {
	Host string
	Port int

	ln         net.Listener
	cert       tls.Certificate
	sessions   chan *smtpSession
	noStartTLS bool
	noAuth     bool
	failAuth   bool
	wg         sync.WaitGroup
}

func startFakeSMTPServer(t *testing.T, opts ...fakeSMTPOption) *fakeSMTPServer {
	t.Helper()

	// borrow the throwaway certificate httptest generates
	ts := httptest.NewTLSServer(http.NotFoundHandler())
	cert := ts.TLS.Certificates[0]
	ts.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeSMTPServer{
		Host:     "127.0.0.1",
		Port:     ln.Addr().(*net.TCPAddr).Port,
		ln:       ln,
		cert:     cert,
		sessions: make(chan *smtpSession, 8),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.serve(conn)
			}()
		}
	}()

	t.Cleanup(func() {
		ln.Close()
		s.wg.Wait()
	})
	return s
}

// nextSession waits for a finished session.
func (s *fakeSMTPServer) nextSession(t *testing.T) *smtpSession {
	t.Helper()

	select {
	case sess := <-s.sessions:
		return sess
	case <-time.After(5 * time.Second):
		t.Fatal("no SMTP session recorded")
		return nil
	}
}

func (s *fakeSMTPServer) serve(conn net.Conn) {
	defer conn.Close()

	sess := &smtpSession{}
	defer func() { s.sessions <- sess }()

	conn.SetDeadline(time.Now().Add(5 * time.Second))

	var w io.Writer = conn
	r := bufio.NewReader(conn)
	secure := false

	reply := func(lines ...string) {
		fmt.Fprint(w, strings.Join(lines, "\r\n")+"\r\n")
	}

	hungUp := func(err error) bool {
		return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
	}

	reply("220 localhost ESMTP fake")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			sess.ClientClosed = hungUp(err)
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		sess.Commands = append(sess.Commands, verb)

		switch verb {
		case "EHLO", "HELO":
			switch {
			case !secure && !s.noStartTLS:
				reply("250-localhost", "250 STARTTLS")
			case s.noAuth:
				reply("250 localhost")
			default:
				reply("250-localhost", "250 AUTH PLAIN LOGIN")
			}
		case "STARTTLS":
			reply("220 Ready to start TLS")
			tlsConn := tls.Server(conn, &tls.Config{Certificates: []tls.Certificate{s.cert}})
			w = tlsConn
			r = bufio.NewReader(tlsConn)
			secure = true
			sess.StartTLS = true
		case "AUTH":
			fields := strings.Fields(line)
			if len(fields) == 3 && strings.EqualFold(fields[1], "PLAIN") {
				if decoded, err := base64.StdEncoding.DecodeString(fields[2]); err == nil {
					creds := strings.Split(string(decoded), "\x00")
					if len(creds) == 3 {
						sess.AuthUser, sess.AuthPass = creds[1], creds[2]
					}
				}
			}
			if s.failAuth {
				reply("535 5.7.8 Authentication credentials invalid")
			} else {
				reply("235 2.7.0 Authentication successful")
			}
		case "MAIL":
			sess.MailFrom = extractPath(line)
			reply("250 OK")
		case "RCPT":
			sess.Rcpts = append(sess.Rcpts, extractPath(line))
			reply("250 OK")
		case "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var data bytes.Buffer
			for {
				dline, err := r.ReadString('\n')
				if err != nil {
					sess.ClientClosed = hungUp(err)
					return
				}
				if dline == ".\r\n" {
					break
				}
				data.WriteString(strings.TrimPrefix(dline, "."))
			}
			sess.Data = data.Bytes()
			reply("250 OK: queued as 12345")
		case "QUIT":
			sess.Quit = true
			reply("221 Bye")
			return
		default:
			reply("250 OK")
		}
	}
}

func extractPath(line string) string {
	start := strings.Index(line, "<")
	end := strings.Index(line, ">")
	if start < 0 || end < start {
		return ""
	}
	return line[start+1 : end]
}

// unusedAddr returns a local port nothing listens on.
func unusedAddr(t *testing.T) (string, int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return "127.0.0.1", port
}
