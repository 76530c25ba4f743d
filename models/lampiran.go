package models

import "time"

// Lampiran is a supporting document attached to a submission at creation time
// (KTP scan, proof documents). Stored opaquely, never parsed.
type Lampiran struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SubmissionID uint       `gorm:"index;not null"`
	Submission   Submission `gorm:"foreignKey:SubmissionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FileName     string     `gorm:"size:255;not null"`
	StorePath    string     `gorm:"column:store_path;size:512"`
	ContentType  string     `gorm:"size:128"`
}
