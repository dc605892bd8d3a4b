package configs

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
	CSRFKey []byte
}

// LoadSessionKeys decodes the cookie and CSRF keys. Outside production,
// missing keys are replaced by random ones so a fresh checkout can run;
// sessions then do not survive a restart.
func LoadSessionKeys(env ENV, log logrus.FieldLogger) (*SessionKeys, error) {
	authKey, err := decodeKey("APP_AUTH_KEY", env.AppAuthKey, 64, env.IsProduction(), log)
	if err != nil {
		return nil, err
	}
	encKey, err := decodeKey("APP_ENC_KEY", env.AppEncKey, 32, env.IsProduction(), log)
	if err != nil {
		return nil, err
	}
	csrfKey, err := decodeKey("CSRF_KEY", env.CSRFKey, 32, env.IsProduction(), log)
	if err != nil {
		return nil, err
	}

	if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
		return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
	}
	if len(csrfKey) != 32 {
		return nil, fmt.Errorf("CSRF_KEY has invalid length %d after decoding. Must be 32 bytes", len(csrfKey))
	}

	return &SessionKeys{AuthKey: authKey, EncKey: encKey, CSRFKey: csrfKey}, nil
}

func decodeKey(name, value string, size int, required bool, log logrus.FieldLogger) ([]byte, error) {
	if value == "" {
		if required {
			return nil, fmt.Errorf("%s environment variable not set", name)
		}
		log.WithField("key", name).Warn("decodeKey: key not set, generating an ephemeral one")
		return securecookie.GenerateRandomKey(size), nil
	}
	key, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s from Base64: %w", name, err)
	}
	return key, nil
}

// GenerateSessionKeys writes a fresh set of keys in .env format to out and,
// when envFilePath is not empty, to that file as well.
func GenerateSessionKeys(out io.Writer, envFilePath string) error {
	authKey := securecookie.GenerateRandomKey(64)
	encKey := securecookie.GenerateRandomKey(32)
	csrfKey := securecookie.GenerateRandomKey(32)
	apiKey := securecookie.GenerateRandomKey(24)
	if authKey == nil || encKey == nil || csrfKey == nil || apiKey == nil {
		return fmt.Errorf("could not generate random keys")
	}

	lines := fmt.Sprintf("APP_AUTH_KEY=%s\nAPP_ENC_KEY=%s\nCSRF_KEY=%s\nMINI_POS_API_KEY=%s\n",
		base64.URLEncoding.EncodeToString(authKey),
		base64.URLEncoding.EncodeToString(encKey),
		base64.URLEncoding.EncodeToString(csrfKey),
		base64.RawURLEncoding.EncodeToString(apiKey),
	)

	if _, err := io.WriteString(out, lines); err != nil {
		return err
	}
	if envFilePath == "" {
		return nil
	}

	if err := os.WriteFile(envFilePath, []byte(lines), 0o600); err != nil {
		return fmt.Errorf("failed to write keys to file %s: %w", envFilePath, err)
	}
	return nil
}
