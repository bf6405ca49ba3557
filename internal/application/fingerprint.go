package app

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"vision-diff/internal/domain/entity"
)

// Fingerprint возвращает blake2b-256 содержимого в hex.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func storedFile(f IncomingFile) entity.StoredFile {
	return entity.StoredFile{
		Name:        f.Name,
		Kind:        f.Kind,
		Size:        len(f.Data),
		Fingerprint: Fingerprint(f.Data),
	}
}
