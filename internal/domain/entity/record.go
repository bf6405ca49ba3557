package entity

import "time"

// StoredFile входной файл сравнения, сохранённый вместе с результатом.
type StoredFile struct {
	Name        string
	Kind        ComparisonKind
	Size        int
	Fingerprint string // blake2b-256 от содержимого, hex
}

// Comparison запись о выполненном сравнении
type Comparison struct {
	ID               int64
	OwnerID          int64 // пользователь-владелец
	Kind             ComparisonKind
	File1            StoredFile
	File2            StoredFile
	Artifact         *Artifact
	DifferencesFound bool
	Pages            []PageOutcome
	CreatedAt        time.Time
}
