package application

import (
	"errors"

	"careers-api/internal/mail"
)

var ErrCredentialsNotConfigured = errors.New("email credentials not configured")

// loadCredentials returns the relay credentials, failing when either value
// is empty.
func loadCredentials(username, password string) (mail.Credentials, error) {
	if username == "" || password == "" {
		return mail.Credentials{}, ErrCredentialsNotConfigured
	}
	return mail.Credentials{Username: username, Password: password}, nil
}
