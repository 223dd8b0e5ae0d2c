package git

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/indaco/plugrel/internal/printer"
)

// ErrorInfo contains user-friendly error information
type ErrorInfo struct {
	Category    string
	Message     string
	Suggestions []string
}

type errorPattern struct {
	pattern     *regexp.Regexp
	category    string
	message     string
	suggestions []string
}

// errorPatterns classifies git stderr. More specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern:  regexp.MustCompile(`(?i)not a git repository`),
		category: "not_a_repository",
		message:  "Not inside a git repository",
		suggestions: []string{
			"Run plugrel from the root of the plugins repository",
			"Initialize the repository with: git init",
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)Please tell me who you are|unable to auto-detect email address`),
		category: "identity_missing",
		message:  "Git user identity is not configured",
		suggestions: []string{
			`Set it with: git config user.name "Your Name"`,
			`and: git config user.email "you@example.com"`,
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)tag '.*' already exists`),
		category: "tag_exists",
		message:  "Tag already exists",
		suggestions: []string{
			"List local tags with: git tag",
			"Bump the manifest version or remove the stale tag",
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)\[rejected\]|non-fast-forward|fetch first|failed to push some refs`),
		category: "push_rejected",
		message:  "Push rejected by the remote",
		suggestions: []string{
			"Pull the latest changes: git pull --rebase",
			"Then push again; the local commit and tag are kept",
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)does not appear to be a git repository|No such remote`),
		category: "remote_not_found",
		message:  "Remote not found",
		suggestions: []string{
			"Check configured remotes: git remote -v",
			"Use --remote to select another remote",
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)Authentication failed|could not read (Username|Password)|Permission denied`),
		category: "auth_required",
		message:  "Authentication failed",
		suggestions: []string{
			"Check your git credentials or SSH keys",
			"Verify you have push access to the repository",
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)Could not resolve host|unable to access|Connection timed out|unable to connect`),
		category: "network_error",
		message:  "Unable to reach the remote",
		suggestions: []string{
			"Check your network connection",
			"Try again in a few moments",
		},
	},
}

// classify matches git output against the known patterns.
func classify(output string) *ErrorInfo {
	for _, p := range errorPatterns {
		if p.pattern.MatchString(output) {
			return &ErrorInfo{
				Category:    p.category,
				Message:     p.message,
				Suggestions: p.suggestions,
			}
		}
	}
	return nil
}

// CommandError reports a failed git invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Info   *ErrorInfo
	Err    error
}

// NewCommandError builds a CommandError and classifies stderr.
func NewCommandError(args []string, stderr string, err error) *CommandError {
	return &CommandError{
		Args:   args,
		Stderr: strings.TrimSpace(stderr),
		Info:   classify(stderr),
		Err:    err,
	}
}

// Command returns the failing command line.
func (e *CommandError) Command() string {
	return CommandLine(e.Args...)
}

func (e *CommandError) Error() string {
	detail := e.Stderr
	if e.Info != nil {
		detail = e.Info.Message
	}
	if detail == "" {
		detail = e.Err.Error()
	}
	return fmt.Sprintf("error executing command: %s: %s", e.Command(), detail)
}

// Unwrap returns the original error for error unwrapping
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Category returns the classified failure category, or "" if unknown.
func (e *CommandError) Category() string {
	if e.Info == nil {
		return ""
	}
	return e.Info.Category
}

// PrintError prints err with git suggestions when it wraps a *CommandError.
func PrintError(err error) {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		printer.PrintError(fmt.Sprintf("Error: %v", err))
		return
	}

	printer.PrintError(fmt.Sprintf("Error executing command: %s", cmdErr.Command()))
	if cmdErr.Info == nil {
		if cmdErr.Stderr != "" {
			printer.PrintFaint(cmdErr.Stderr)
		}
		return
	}

	printer.PrintError(fmt.Sprintf("Error: %s", cmdErr.Info.Message))
	if len(cmdErr.Info.Suggestions) > 0 {
		printer.Println()
		printer.PrintInfo("Suggestions:")
		for _, s := range cmdErr.Info.Suggestions {
			printer.Printf("  - %s\n", s)
		}
	}
}
