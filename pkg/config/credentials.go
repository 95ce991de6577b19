package config

import (
	"fmt"

	"github.com/mpulaparthi/web-agent/pkg/security"
)

// Credentials are the optional login details injected into browsing tasks.
// The password never appears in String output.
type Credentials struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func defaultCredentials() Credentials {
	return Credentials{}
}

// Configured reports whether both email and password are set.
func (c Credentials) Configured() bool {
	return c.Email != "" && c.Password != ""
}

// Validate rejects passwords too short to be redacted.
func (c Credentials) Validate() error {
	if c.Password != "" && len(c.Password) < security.MinSecretLength {
		return fmt.Errorf("password must be at least %d characters to be redacted", security.MinSecretLength)
	}
	return nil
}

// String masks the password.
func (c Credentials) String() string {
	if c.Password == "" {
		return "Credentials{Email: " + c.Email + "}"
	}
	return "Credentials{Email: " + c.Email + ", Password: ********}"
}

// GoString masks the password in %#v output.
func (c Credentials) GoString() string {
	return c.String()
}
