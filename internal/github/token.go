package github

import (
	"context"
	"errors"
	"os"
	"strings"

	"unityquick/internal/process"
)

type AuthTokenSource string

const (
	AuthTokenSourceExplicit AuthTokenSource = "explicit"
	AuthTokenSourceEnv      AuthTokenSource = "env:GITHUB_TOKEN"
	AuthTokenSourceGitHubCL AuthTokenSource = "gh"
)

// ResolveAuthToken resolves a GitHub access token.
//
// Precedence:
//  1. provided (if non-empty)
//  2. GITHUB_TOKEN env var
//  3. GitHub CLI: `gh auth token -h github.com`
//
// It never prints the token.
func ResolveAuthToken(ctx context.Context, runner process.Executor, provided string) (token string, source AuthTokenSource, err error) {
	if tok := strings.TrimSpace(provided); tok != "" {
		return tok, AuthTokenSourceExplicit, nil
	}

	if env := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); env != "" {
		return env, AuthTokenSourceEnv, nil
	}

	if runner == nil {
		return "", "", nil
	}
	tok, ok, err := tokenFromGitHubCLI(ctx, runner)
	if err != nil {
		return "", "", err
	}
	if ok {
		return tok, AuthTokenSourceGitHubCL, nil
	}
	return "", "", nil
}

func tokenFromGitHubCLI(ctx context.Context, runner process.Executor) (token string, ok bool, err error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	res, runErr := runner.Execute(ctx, process.Command("gh", "auth", "token", "-h", "github.com"), "Reading GitHub token")
	if runErr != nil {
		// gh missing is "no token", not an error.
		if errors.Is(runErr, process.ErrNotInstalled) {
			return "", false, nil
		}
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, runErr
	}
	if !res.Succeeded() {
		// gh present but not logged in. The raw output is not surfaced to
		// avoid leaking any sensitive context.
		return "", false, nil
	}

	tok := strings.TrimSpace(res.Stdout)
	if tok == "" {
		return "", false, nil
	}

	// Basic sanity: tokens must not contain whitespace.
	if strings.ContainsAny(tok, " \t\n\r") {
		return "", false, errors.New("invalid token returned by gh: contains whitespace")
	}

	return tok, true, nil
}
