// Package initdata verifies the signed init-data envelope that the platform
// hands to the mini-app and extracts the user identity from it.
package initdata

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
)

// ErrInvalid is the only error Validate returns, whatever the cause.
var ErrInvalid = errors.New("invalid init data")

// DevUserID is the identity returned in bypass mode.
const DevUserID int64 = 123456

// sign is swapped in tests to observe when a signature is computed.
var sign = Sign

type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// Payload is the decoded `data` field. Top-level fields other than `user`
// are kept verbatim in Extra.
type Payload struct {
	User  User                       `json:"user"`
	Extra map[string]json.RawMessage `json:"-"`
}

// MarshalJSON flattens Extra back next to `user`.
func (p Payload) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+1)
	for k, v := range p.Extra {
		out[k] = v
	}
	out["user"] = p.User
	return json.Marshal(out)
}

// DevPayload is the synthetic identity used when verification is bypassed.
func DevPayload() *Payload {
	return &Payload{User: User{ID: DevUserID, FirstName: "Test", LastName: "User"}}
}

// Validate checks envelope against secret and returns the decoded payload.
// An empty secret always rejects; bypass is only available through Validator.
func Validate(envelope, secret string) (*Payload, error) {
	if secret == "" {
		return nil, ErrInvalid
	}

	values, err := url.ParseQuery(envelope)
	if err != nil {
		return nil, ErrInvalid
	}

	data := values.Get("data")
	hash := values.Get("hash")
	if data == "" || hash == "" {
		return nil, ErrInvalid
	}

	if !hmac.Equal([]byte(sign(data, secret)), []byte(hash)) {
		return nil, ErrInvalid
	}

	payload, err := decode(data)
	if err != nil {
		return nil, ErrInvalid
	}
	return payload, nil
}

// Sign returns the lowercase hex HMAC-SHA256 of data keyed with
// SHA-256(secret).
func Sign(data, secret string) string {
	key := sha256.Sum256([]byte(secret))
	h := hmac.New(sha256.New, key[:])
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// Envelope builds a signed envelope for data. Used by dev tooling and tests.
func Envelope(data, secret string) string {
	v := url.Values{}
	v.Set("data", data)
	v.Set("hash", Sign(data, secret))
	return v.Encode()
}

func decode(data string) (*Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("payload is not an object")
	}

	p := &Payload{Extra: make(map[string]json.RawMessage, len(fields))}
	for k, v := range fields {
		if k == "user" {
			if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
				continue
			}
			if err := json.Unmarshal(v, &p.User); err != nil {
				return nil, err
			}
			continue
		}
		p.Extra[k] = v
	}
	return p, nil
}
