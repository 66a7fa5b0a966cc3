package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// MinBytes es la entropía mínima aceptada para tokens opacos (128 bits).
const MinBytes = 16

// GenerateOpaqueToken genera un token aleatorio de nBytes (base64url sin padding).
// nBytes por debajo de MinBytes es error.
func GenerateOpaqueToken(nBytes int) (string, error) {
	if nBytes < MinBytes {
		return "", fmt.Errorf("tokens: %d bytes is below the %d byte minimum", nBytes, MinBytes)
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("tokens: read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
