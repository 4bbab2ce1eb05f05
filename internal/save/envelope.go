package save

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// ErrNoSaveData is returned when a slot is empty or its blob is corrupt.
var ErrNoSaveData = errors.New("no save data")

// FormatVersion is written into every envelope.
const FormatVersion = 1

// envelope wraps a snapshot payload with a BLAKE2b-256 checksum.
type envelope struct {
	Version  int             `json:"version"`
	Checksum string          `json:"checksum"`
	Payload  json.RawMessage `json:"payload"`
}

// Checksum returns the hex BLAKE2b-256 digest of data.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Seal wraps a JSON payload in a checksummed envelope.
func Seal(payload []byte) ([]byte, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err != nil {
		return nil, fmt.Errorf("payload is not JSON: %w", err)
	}
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	err := enc.Encode(envelope{
		Version:  FormatVersion,
		Checksum: Checksum(compact.Bytes()),
		Payload:  compact.Bytes(),
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(out.Bytes(), "\n"), nil
}

// Open verifies an envelope and returns its payload. A bare snapshot object
// without an envelope is accepted as-is. Anything unreadable, or a checksum
// mismatch, is ErrNoSaveData.
func Open(blob []byte) ([]byte, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(blob, &probe); err != nil {
		return nil, fmt.Errorf("%w: unreadable blob: %v", ErrNoSaveData, err)
	}
	if _, ok := probe["payload"]; !ok {
		return blob, nil
	}

	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, fmt.Errorf("%w: bad envelope: %v", ErrNoSaveData, err)
	}
	if env.Version > FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrNoSaveData, env.Version)
	}
	if Checksum(env.Payload) != env.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrNoSaveData)
	}
	return env.Payload, nil
}
