// Package prompt provides interactive prompts for the lmspick CLI.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/lmspick-dev/lmspick/internal/output"
)

// errCanceled reports that the user aborted an interactive prompt.
var errCanceled = errors.New("prompt canceled")

// IsCanceled reports whether err came from an aborted prompt.
func IsCanceled(err error) bool {
	return errors.Is(err, errCanceled)
}

// Prompter handles interactive prompts.
type Prompter struct {
	out    *output.Writer
	reader *bufio.Reader
}

// New creates a new Prompter.
func New(out *output.Writer) *Prompter {
	return &Prompter{
		out:    out,
		reader: bufio.NewReader(os.Stdin),
	}
}

// CanPrompt returns true if interactive prompts are available.
func (p *Prompter) CanPrompt() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && !p.out.NoInput
}

// Confirm prompts for a yes/no confirmation.
func (p *Prompter) Confirm(message string, defaultValue bool) (bool, error) {
	defaultStr := "y/N"
	if defaultValue {
		defaultStr = "Y/n"
	}

	p.out.Print("%s [%s]: ", message, defaultStr)

	input, err := p.reader.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return defaultValue, errCanceled
	}

	if err != nil {
		return defaultValue, fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return defaultValue, nil
	}

	return input == "y" || input == "yes", nil
}

// Password prompts for a secret (hidden input).
func (p *Prompter) Password(prompt string) (string, error) {
	p.out.Print("%s: ", prompt)

	// Read without echo
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	p.out.Println()

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(password), nil
}

// Select prompts the user to select from a list of options.
func (p *Prompter) Select(message string, options []string) (int, error) {
	p.out.Println(message)
	for i, opt := range options {
		p.out.Print("  [%d] %s\n", i+1, opt)
	}
	p.out.Println()

	for {
		p.out.Print("Select [1-%d]: ", len(options))

		input, err := p.reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return -1, errCanceled
		}

		if err != nil {
			return -1, fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		num, err := strconv.Atoi(input)
		if err != nil || num < 1 || num > len(options) {
			p.out.Warning("Invalid selection. Please enter a number between 1 and %d", len(options))
			continue
		}

		return num - 1, nil
	}
}

// Token prompts the user for an access token.
func Token(out *output.Writer) (string, error) {
	out.Print("Enter your access token: ")

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return "", errCanceled
	}

	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(input), nil
}
