package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// KeyChainService performs all symmetric cryptography of the vault. It knows
// nothing about storage or users beyond the user id it binds wrapped keys to.
//
// Scheme:
//
//	Key     = GenerateKey()                     per-user data key, 256 bit
//	Token   = Encrypt(Key, plaintext)           AES-256-GCM, self-contained
//	Wrapped = WrapKey(Key, userID)              only with an application master key
//
// Every failure to decode, authenticate or unwrap is reported as an error
// matching [ErrCrypto]; corrupted plaintext is never returned.
type KeyChainService interface {
	// GenerateKey reads 32 random bytes from the OS CSPRNG.
	GenerateKey() (Key, error)

	// Encrypt seals plaintext under key and returns a printable token holding
	// the layout version, the nonce and the ciphertext with its tag.
	// An empty plaintext yields an empty token: absent values stay absent.
	Encrypt(key Key, plaintext string) (string, error)

	// Decrypt opens a token produced by Encrypt. An empty token yields an
	// empty plaintext.
	Decrypt(key Key, token string) (string, error)

	// HasMasterKey reports whether per-user keys are wrapped at rest.
	HasMasterKey() bool

	// WrapKey seals key under a key-encryption key derived from the master
	// key and userID, so a wrapped key cannot be replayed for another user.
	WrapKey(key Key, userID string) (string, error)

	// UnwrapKey reverses WrapKey.
	UnwrapKey(wrapped string, userID string) (Key, error)
}
