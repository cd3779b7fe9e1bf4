package crypto

// Keyring stores the database encryption key
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "gstbill"
	KeyName     = "db-encryption-key"

	// EnvKey overrides any stored key when set.
	EnvKey = "GSTBILL_DB_KEY"
)

// NewKeyring returns the platform keyring. keyFile is the dotenv file used
// on platforms without an OS keychain.
func NewKeyring(keyFile string) Keyring {
	return newPlatformKeyring(keyFile)
}
