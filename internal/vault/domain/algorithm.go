package domain

// Algorithm identifies an AEAD cipher used for field encryption.
type Algorithm string

const (
	// AESGCM is AES-256-GCM, the default field encryption algorithm.
	AESGCM Algorithm = "aes-gcm"
	// ChaCha20Poly1305 is an alternative for hosts without AES hardware support.
	ChaCha20Poly1305 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm validates an algorithm name from configuration.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20Poly1305:
		return ChaCha20Poly1305, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
