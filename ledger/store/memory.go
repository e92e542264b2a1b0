package store

import (
	"sort"
	"sync"

	"eduledger/models"
)

// MemoryStore is an in-memory implementation of ledger.CertificateStore
type MemoryStore struct {
	certificates map[string]*models.Certificate
	serial       uint64
	nextID       uint
	mutex        sync.RWMutex
}

// NewMemoryStore creates a new memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		certificates: make(map[string]*models.Certificate),
		nextID:       1,
	}
}

func copyCertificate(cert *models.Certificate) *models.Certificate {
	c := *cert
	if cert.Skills != nil {
		c.Skills = append([]byte(nil), cert.Skills...)
	}
	return &c
}

// Save inserts a new certificate
func (s *MemoryStore) Save(cert *models.Certificate) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if cert.ID == 0 {
		cert.ID = s.nextID
		s.nextID++
	}
	s.certificates[cert.CertificateNumber] = copyCertificate(cert)
	return nil
}

// Update persists changes to an existing certificate
func (s *MemoryStore) Update(cert *models.Certificate) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.certificates[cert.CertificateNumber] = copyCertificate(cert)
	return nil
}

// GetByNumber retrieves a certificate by number
func (s *MemoryStore) GetByNumber(number string) (*models.Certificate, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if cert, exists := s.certificates[number]; exists {
		return copyCertificate(cert), nil
	}
	return nil, nil
}

// ActiveForHolderCourse returns the non-revoked certificate for the pair
func (s *MemoryStore) ActiveForHolderCourse(holderID, courseID uint) (*models.Certificate, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, cert := range s.certificates {
		if cert.UserID == holderID && cert.CourseID == courseID && !cert.Revoked {
			return copyCertificate(cert), nil
		}
	}
	return nil, nil
}

// ListForHolder returns the holder's certificates, newest first
func (s *MemoryStore) ListForHolder(holderID uint) ([]models.Certificate, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	certificates := make([]models.Certificate, 0)
	for _, cert := range s.certificates {
		if cert.UserID == holderID {
			certificates = append(certificates, *copyCertificate(cert))
		}
	}
	sort.Slice(certificates, func(i, j int) bool {
		return certificates[i].IssuedAt.After(certificates[j].IssuedAt)
	})
	return certificates, nil
}

// List returns a page of certificates, newest first, plus the total count
func (s *MemoryStore) List(offset, limit int) ([]models.Certificate, int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	all := make([]models.Certificate, 0, len(s.certificates))
	for _, cert := range s.certificates {
		all = append(all, *copyCertificate(cert))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].IssuedAt.After(all[j].IssuedAt)
	})

	total := int64(len(all))
	if offset >= len(all) {
		return []models.Certificate{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// NextSerial returns the next issuance counter value
func (s *MemoryStore) NextSerial() (uint64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.serial++
	return s.serial, nil
}
