package secret

import (
	"encoding/json"
	"fmt"
)

// Credential is the document stored in the secret store: the database master
// username and password as a single JSON object.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Marshal encodes the credential for storage.
func (c Credential) Marshal() (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode credential: %w", err)
	}
	return string(raw), nil
}

// ParseCredential decodes a stored credential document.
func ParseCredential(raw string) (Credential, error) {
	var c Credential
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Credential{}, fmt.Errorf("malformed credential document: %w", err)
	}
	return c, nil
}
