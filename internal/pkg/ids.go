package pkg

import (
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // RFC 6455 requires SHA-1 for the WebSocket handshake
	"encoding/base64"
	"fmt"
	"math/big"
)

// Static GUID defined in RFC 6455 for WebSocket.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// gameIDBound caps game codes at 8 digits. Codes are shared between
// players by hand, so they stay short; uniqueness is storage's problem.
const gameIDBound = 100000000

// GenerateAcceptKey derives the Sec-WebSocket-Accept value for a
// handshake key.
func GenerateAcceptKey(key string) string {
	h := sha1.New() //nolint:gosec // see import note

	h.Write([]byte(key + websocketGUID))

	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// GenerateSessionID returns a fresh opaque session identifier.
func GenerateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateGameID returns a zero-padded numeric game code.
func GenerateGameID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(gameIDBound))
	if err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}

	return fmt.Sprintf("%08d", n.Int64()), nil
}
