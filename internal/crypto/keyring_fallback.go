//go:build !darwin

package crypto

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// fileKeyring keeps the key in a private dotenv file. GSTBILL_DB_KEY in the
// environment always wins.
type fileKeyring struct {
	path string
}

func newPlatformKeyring(keyFile string) Keyring {
	return &fileKeyring{path: keyFile}
}

func (k *fileKeyring) read() (map[string]string, error) {
	env, err := godotenv.Read(k.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	return env, err
}

// GetKey retrieves the key from the environment or the key file
func (k *fileKeyring) GetKey() (string, error) {
	if key := os.Getenv(EnvKey); key != "" {
		return key, nil
	}
	env, err := k.read()
	if err != nil {
		return "", fmt.Errorf("failed to read key file %s: %w", k.path, err)
	}
	if key := env[EnvKey]; key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%s not set and no key in %s", EnvKey, k.path)
}

// SetKey writes the key to the key file, readable by the owner only
func (k *fileKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	env, err := k.read()
	if err != nil {
		return fmt.Errorf("failed to read key file %s: %w", k.path, err)
	}
	env[EnvKey] = password
	if err := godotenv.Write(env, k.path); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return os.Chmod(k.path, 0600)
}

// DeleteKey removes the key from the key file
func (k *fileKeyring) DeleteKey() error {
	env, err := k.read()
	if err != nil {
		return fmt.Errorf("failed to read key file %s: %w", k.path, err)
	}
	if _, ok := env[EnvKey]; !ok {
		return fmt.Errorf("encryption key not found in %s", k.path)
	}
	delete(env, EnvKey)
	if err := godotenv.Write(env, k.path); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

// IsAvailable reports whether a key file is configured
func (k *fileKeyring) IsAvailable() bool {
	return k.path != ""
}
