package tui

import (
	"os"

	"golang.org/x/term"
)

// ciEnvVars are environment variables set by common CI providers.
var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_HOME",
	"BUILDKITE",
	"BITBUCKET_BUILD_NUMBER",
	"DRONE",
	"SEMAPHORE",
	"APPVEYOR",
	"CODEBUILD_BUILD_ID",
	"TF_BUILD",
}

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // G115: fd is a small value, no overflow risk
}

// IsInteractive determines if the current environment supports interactive prompts.
// It returns false when stdout is not a terminal or when running under CI.
func IsInteractive() bool {
	if !isTerminal() {
		return false
	}
	return !IsCI()
}

// IsCI reports whether any known CI environment variable is set.
func IsCI() bool {
	for _, env := range ciEnvVars {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}
