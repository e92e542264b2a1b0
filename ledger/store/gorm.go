package store

import (
	"errors"

	"eduledger/models"

	"gorm.io/gorm"
)

// GormStore is the database-backed implementation of
// ledger.CertificateStore
type GormStore struct {
	Db *gorm.DB
}

// NewGormStore creates a new database-backed certificate store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{Db: db}
}

// Save inserts a new certificate
func (s *GormStore) Save(cert *models.Certificate) error {
	return s.Db.Create(cert).Error
}

// Update persists changes to an existing certificate
func (s *GormStore) Update(cert *models.Certificate) error {
	return s.Db.Save(cert).Error
}

// GetByNumber retrieves a certificate by number
func (s *GormStore) GetByNumber(number string) (*models.Certificate, error) {
	var cert models.Certificate
	err := s.Db.Where("certificate_number = ?", number).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// ActiveForHolderCourse returns the non-revoked certificate for the pair
func (s *GormStore) ActiveForHolderCourse(holderID, courseID uint) (*models.Certificate, error) {
	var cert models.Certificate
	err := s.Db.Where("user_id = ? AND course_id = ? AND revoked = ?", holderID, courseID, false).
		First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// ListForHolder returns the holder's certificates, newest first
func (s *GormStore) ListForHolder(holderID uint) ([]models.Certificate, error) {
	var certificates []models.Certificate
	err := s.Db.Where("user_id = ?", holderID).
		Order("issued_at desc").
		Find(&certificates).Error
	return certificates, err
}

// List returns a page of certificates plus the total count
func (s *GormStore) List(offset, limit int) ([]models.Certificate, int64, error) {
	var total int64
	if err := s.Db.Model(&models.Certificate{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var certificates []models.Certificate
	err := s.Db.Order("issued_at desc").
		Offset(offset).
		Limit(limit).
		Find(&certificates).Error
	return certificates, total, err
}

// NextSerial returns the next issuance counter value. Certificates are
// never deleted, so the row count is monotonic.
func (s *GormStore) NextSerial() (uint64, error) {
	var count int64
	if err := s.Db.Model(&models.Certificate{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return uint64(count) + 1, nil
}
