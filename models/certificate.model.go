package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Certificate is proof that a user completed a course. Records are
// append-only: a certificate is never deleted, only revoked, and the
// Revoked flag never goes back to false.
type Certificate struct {
	gorm.Model
	CertificateNumber string         `json:"certificate_number" gorm:"unique;not null"` // verification token shown to third parties
	UserID            uint           `json:"user_id" gorm:"index;not null"`
	CourseID          uint           `json:"course_id" gorm:"index;not null"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Skills            datatypes.JSON `json:"skills"`
	FinalScore        uint8          `json:"final_score"`
	IssuedBy          uint           `json:"issued_by" gorm:"index"`
	IssuedAt          time.Time      `json:"issued_at"`
	Revoked           bool           `json:"revoked" gorm:"default:false"`
	RevokedAt         *time.Time     `json:"revoked_at"`
	RevokedBy         *uint          `json:"revoked_by"`
}
