package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var Red = color.New(color.FgRed)
var RedBold = color.New(color.FgRed).Add(color.Bold)
var Cyan = color.New(color.FgCyan)
var CyanBold = color.New(color.FgCyan).Add(color.Bold)
var Green = color.New(color.FgGreen)
var GreenBold = color.New(color.FgGreen).Add(color.Bold)
var Magenta = color.New(color.FgMagenta)

var stdin = bufio.NewReader(os.Stdin)

// Scanline reads one line from stdin, exiting on interrupt or EOF.
func Scanline() string {
	line, err := stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		color.Red("\nInterrupted")
		os.Exit(1)
	}
	return strings.TrimRight(line, "\r\n")
}

// ScanlineTrim : Scans input and trims
func ScanlineTrim() string {
	return strings.TrimSpace(Scanline())
}

// Prompt asks for a value, returning def when the answer is empty.
func Prompt(question, def string) string {
	if def != "" {
		Cyan.Printf("%s (current: %s) : ", question, def)
	} else {
		Cyan.Printf("%s : ", question)
	}
	answer := ScanlineTrim()
	if answer == "" {
		return def
	}
	return answer
}

// ExtractLinks extracts links from a file containing urls, one per line.
// Blank lines and lines starting with # are skipped.
func ExtractLinks(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening link file: %w", err)
	}
	defer file.Close()

	links := make([]string, 0)
	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		links = append(links, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading link file: %w", err)
	}
	return links, nil
}
