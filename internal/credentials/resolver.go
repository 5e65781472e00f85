package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"github.com/zalando/go-keyring"
)

const (
	// Service name Claude Code uses for its secure-store entry.
	keyringService = "Claude Code-credentials"

	// TokenEnvVar overrides every platform store when set to a raw token.
	TokenEnvVar = "CLAUDE_CODE_OAUTH_TOKEN"
)

// Resolver obtains the OAuth access token from wherever the current platform
// stores it. Resolution is read-only: no resolver writes to the store.
type Resolver interface {
	Resolve() (Token, error)
}

// NewResolver picks the credential sources for the current platform. The env
// var override applies everywhere; macOS and Windows use the native secure
// store, Linux reads the credentials file Claude Code writes there.
func NewResolver() Resolver {
	switch runtime.GOOS {
	case "darwin", "windows":
		return chainResolver{envResolver{}, &KeyringResolver{}}
	case "linux":
		return chainResolver{envResolver{}, &FileResolver{}}
	default:
		return chainResolver{envResolver{}, unsupportedResolver{}}
	}
}

// KeyringResolver reads the Claude Code entry from the OS secure store,
// keyed by service name and the current OS user.
type KeyringResolver struct {
	// Lookup defaults to keyring.Get; tests inject a fake store here.
	Lookup func(service, account string) (string, error)

	// Account defaults to the current OS user name.
	Account string
}

func (r *KeyringResolver) Resolve() (Token, error) {
	lookup := r.Lookup
	if lookup == nil {
		lookup = keyring.Get
	}
	account := r.Account
	if account == "" {
		account = currentUsername()
	}

	payload, err := lookup(keyringService, account)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return Token{}, newError(KindNotFound,
			"no Claude Code credentials found in the system keychain; sign in to Claude Code first", err)
	case errors.Is(err, keyring.ErrUnsupportedPlatform):
		return Token{}, newError(KindUnsupported,
			"the system keychain is not available on this platform", err)
	case err != nil:
		return Token{}, newError(KindAccessDenied,
			"the system keychain declined access to the Claude Code credentials", err)
	}

	return tokenFromPayload([]byte(payload))
}

// FileResolver reads ~/.claude/.credentials.json, the store Claude Code uses
// where no OS keychain is available.
type FileResolver struct {
	// Path defaults to ~/.claude/.credentials.json.
	Path string
}

func (r *FileResolver) Resolve() (Token, error) {
	path := r.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Token{}, newError(KindNotFound,
				"could not locate the home directory holding Claude Code credentials", err)
		}
		path = filepath.Join(home, ".claude", ".credentials.json")
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Token{}, newError(KindNotFound,
			"no Claude Code credentials file found; sign in to Claude Code first", err)
	case errors.Is(err, os.ErrPermission):
		return Token{}, newError(KindAccessDenied,
			fmt.Sprintf("permission denied reading %s", path), err)
	case err != nil:
		return Token{}, newError(KindAccessDenied,
			fmt.Sprintf("could not read %s", path), err)
	}

	return tokenFromPayload(data)
}

type envResolver struct{}

func (envResolver) Resolve() (Token, error) {
	if v := os.Getenv(TokenEnvVar); v != "" {
		return NewToken(v), nil
	}
	return Token{}, newError(KindNotFound, TokenEnvVar+" is not set", nil)
}

type unsupportedResolver struct{}

func (unsupportedResolver) Resolve() (Token, error) {
	return Token{}, newError(KindUnsupported,
		fmt.Sprintf("credential lookup is not supported on %s", runtime.GOOS), nil)
}

// chainResolver tries sources in order, moving on only when a source has no
// credential to offer. Denied access and malformed payloads stop the chain.
type chainResolver []Resolver

func (c chainResolver) Resolve() (Token, error) {
	var last error
	for _, r := range c {
		tok, err := r.Resolve()
		if err == nil {
			return tok, nil
		}
		last = err

		var cerr *Error
		if errors.As(err, &cerr) && cerr.Kind != KindNotFound {
			return Token{}, err
		}
	}
	if last == nil {
		last = newError(KindNotFound, "no credential source configured", nil)
	}
	return Token{}, last
}

// credentialsPayload is the JSON document stored by Claude Code; only the
// access token is extracted.
type credentialsPayload struct {
	ClaudeAiOauth struct {
		AccessToken string `json:"accessToken"`
	} `json:"claudeAiOauth"`
}

func tokenFromPayload(data []byte) (Token, error) {
	var payload credentialsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Token{}, newError(KindMalformed,
			"stored Claude Code credentials are not valid JSON", err)
	}
	if payload.ClaudeAiOauth.AccessToken == "" {
		return Token{}, newError(KindMalformed,
			"stored Claude Code credentials contain no OAuth access token", nil)
	}
	return NewToken(payload.ClaudeAiOauth.AccessToken), nil
}

func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		// Windows reports DOMAIN\name; the keychain entry is keyed by the
		// bare name.
		return filepath.Base(u.Username)
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return os.Getenv("LOGNAME")
}
