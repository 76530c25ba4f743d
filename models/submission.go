package models

import "time"

// Submission status values. A submission is always in exactly one of these.
const (
	StatusPengajuanBaru = "PENGAJUAN_BARU"
	StatusDiproses      = "DIPROSES"
	StatusSelesai       = "SELESAI"
	StatusDitolak       = "DITOLAK"
)

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s string) bool {
	switch s {
	case StatusPengajuanBaru, StatusDiproses, StatusSelesai, StatusDitolak:
		return true
	}
	return false
}

// Submission is a citizen's service request. Created by the public submission
// endpoint, mutated only by the admin status-update workflow, never deleted.
type Submission struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	TrackingCode string            `gorm:"size:32;not null;uniqueIndex"`
	Nama         string            `gorm:"size:255;not null"`
	NIK          string            `gorm:"column:nik;size:16;not null"`
	Email        string            `gorm:"size:255"` // optional; empty means no email channel
	NoWA         string            `gorm:"column:no_wa;size:32;not null"`
	JenisLayanan string            `gorm:"size:255;not null"`
	Status       string            `gorm:"size:32;not null;default:PENGAJUAN_BARU;index"`
	Logs         []NotificationLog `gorm:"foreignKey:SubmissionID"`
	Lampiran     []Lampiran        `gorm:"foreignKey:SubmissionID"`
}
