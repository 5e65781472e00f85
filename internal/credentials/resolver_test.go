package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"
)

const validPayload = `{"claudeAiOauth":{"accessToken":"tok-123","refreshToken":"ref-456","expiresAt":1893456000000}}`

func kindOf(t *testing.T, err error) ErrorKind {
	t.Helper()
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *credentials.Error, got %T: %v", err, err)
	}
	return cerr.Kind
}

func TestKeyringResolver_ValidPayload(t *testing.T) {
	r := &KeyringResolver{
		Account: "alice",
		Lookup: func(service, account string) (string, error) {
			if service != "Claude Code-credentials" {
				t.Errorf("unexpected service %q", service)
			}
			if account != "alice" {
				t.Errorf("unexpected account %q", account)
			}
			return validPayload, nil
		},
	}

	tok, err := r.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Expose() != "tok-123" {
		t.Errorf("token = %q, want tok-123", tok.Expose())
	}
}

func TestKeyringResolver_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		err      error
		wantKind ErrorKind
	}{
		{"missing entry", "", keyring.ErrNotFound, KindNotFound},
		{"unsupported platform", "", keyring.ErrUnsupportedPlatform, KindUnsupported},
		{"store declined", "", errors.New("access denied by user"), KindAccessDenied},
		{"payload not json", "not json at all", nil, KindMalformed},
		{"payload missing token", `{"claudeAiOauth":{}}`, nil, KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &KeyringResolver{
				Account: "alice",
				Lookup: func(_, _ string) (string, error) {
					return tt.payload, tt.err
				},
			}
			_, err := r.Resolve()
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := kindOf(t, err); got != tt.wantKind {
				t.Errorf("kind = %v, want %v", got, tt.wantKind)
			}
			if err.Error() == "" {
				t.Error("expected a remediation hint in the error message")
			}
		})
	}
}

func TestFileResolver(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		r := &FileResolver{Path: filepath.Join(dir, "absent.json")}
		_, err := r.Resolve()
		if got := kindOf(t, err); got != KindNotFound {
			t.Errorf("kind = %v, want %v", got, KindNotFound)
		}
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "credentials.json")
		if err := os.WriteFile(path, []byte(validPayload), 0o600); err != nil {
			t.Fatal(err)
		}
		tok, err := (&FileResolver{Path: path}).Resolve()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Expose() != "tok-123" {
			t.Errorf("token = %q, want tok-123", tok.Expose())
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.json")
		if err := os.WriteFile(path, []byte("{{"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := (&FileResolver{Path: path}).Resolve()
		if got := kindOf(t, err); got != KindMalformed {
			t.Errorf("kind = %v, want %v", got, KindMalformed)
		}
	})
}

type stubResolver struct {
	tok Token
	err error
}

func (s stubResolver) Resolve() (Token, error) { return s.tok, s.err }

func TestChainResolver(t *testing.T) {
	notFound := newError(KindNotFound, "nothing here", nil)
	denied := newError(KindAccessDenied, "declined", nil)

	t.Run("falls through NotFound", func(t *testing.T) {
		c := chainResolver{
			stubResolver{err: notFound},
			stubResolver{tok: NewToken("fallback")},
		}
		tok, err := c.Resolve()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Expose() != "fallback" {
			t.Errorf("token = %q, want fallback", tok.Expose())
		}
	})

	t.Run("stops on AccessDenied", func(t *testing.T) {
		c := chainResolver{
			stubResolver{err: denied},
			stubResolver{tok: NewToken("unreachable")},
		}
		_, err := c.Resolve()
		if got := kindOf(t, err); got != KindAccessDenied {
			t.Errorf("kind = %v, want %v", got, KindAccessDenied)
		}
	})

	t.Run("reports last NotFound", func(t *testing.T) {
		c := chainResolver{stubResolver{err: notFound}, stubResolver{err: notFound}}
		_, err := c.Resolve()
		if got := kindOf(t, err); got != KindNotFound {
			t.Errorf("kind = %v, want %v", got, KindNotFound)
		}
	})
}

func TestEnvResolver(t *testing.T) {
	t.Setenv(TokenEnvVar, "env-token")
	tok, err := envResolver{}.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Expose() != "env-token" {
		t.Errorf("token = %q, want env-token", tok.Expose())
	}

	t.Setenv(TokenEnvVar, "")
	_, err = envResolver{}.Resolve()
	if got := kindOf(t, err); got != KindNotFound {
		t.Errorf("kind = %v, want %v", got, KindNotFound)
	}
}
