package credentials

import "encoding/json"

const redacted = "[redacted]"

// Token wraps the OAuth access token so it cannot leak through logging or
// serialization. The raw value is only reachable via Expose.
type Token struct {
	value string
}

func NewToken(value string) Token {
	return Token{value: value}
}

// Expose returns the raw token for use as a bearer credential. Callers must
// not persist or log the result.
func (t Token) Expose() string { return t.value }

func (t Token) IsZero() bool { return t.value == "" }

func (t Token) String() string { return redacted }

func (t Token) GoString() string { return "credentials.Token(" + redacted + ")" }

func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(redacted)
}
