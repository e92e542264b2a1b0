package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"eduledger/gateways"
	"eduledger/models"
)

// Service owns the certificate ledger. All writes go through the write
// lock; gateway calls are made before it is taken and anything checked
// before a gateway round-trip is re-checked after, so a slow or remote
// gateway cannot let two issuances slip past the duplicate check.
type Service struct {
	store    CertificateStore
	identity gateways.Identity
	courses  gateways.CourseAttainment
	mutex    sync.RWMutex

	// Now is swappable for tests
	Now func() time.Time
}

// NewService creates a new certificate ledger service
func NewService(store CertificateStore, identity gateways.Identity, courses gateways.CourseAttainment) *Service {
	return &Service{
		store:    store,
		identity: identity,
		courses:  courses,
		Now:      time.Now,
	}
}

// Issue creates a certificate for holder's completion of the course.
// The issuer must hold the ADMIN or INSTRUCTOR role.
func (s *Service) Issue(holderID, courseID, issuerID uint) (*models.Certificate, error) {
	// Gateway checks come first; no ledger state is touched until all
	// external answers are in.
	if !s.identity.HasRole(issuerID, models.RoleAdmin, models.RoleInstructor) {
		return nil, ErrUnauthorized
	}
	if !s.identity.IsRegistered(holderID) {
		return nil, ErrUnknownHolder
	}
	if !s.courses.CourseExists(courseID) {
		return nil, ErrUnknownCourse
	}
	completion, err := s.courses.Completion(holderID, courseID)
	if err != nil {
		return nil, ErrNotCompleted
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Re-check the duplicate invariant now that the gateway calls are
	// behind us.
	existing, err := s.store.ActiveForHolderCourse(holderID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateCertificate
	}

	serial, err := s.store.NextSerial()
	if err != nil {
		return nil, err
	}
	issuedAt := s.Now()

	skills, err := json.Marshal(completion.Skills)
	if err != nil {
		return nil, err
	}

	cert := &models.Certificate{
		CertificateNumber: certificateNumber(holderID, courseID, issuedAt, serial),
		UserID:            holderID,
		CourseID:          courseID,
		Title:             "Certificate of Completion",
		Description:       fmt.Sprintf("This certifies successful completion of %s", completion.CourseTitle),
		Skills:            skills,
		FinalScore:        completion.FinalScore,
		IssuedBy:          issuerID,
		IssuedAt:          issuedAt,
	}

	if err := s.store.Save(cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// VerifyResult is what third parties see when checking a certificate
type VerifyResult struct {
	Found    bool      `json:"found"`
	Revoked  bool      `json:"revoked"`
	HolderID uint      `json:"holder_id,omitempty"`
	CourseID uint      `json:"course_id,omitempty"`
	Title    string    `json:"title,omitempty"`
	IssuedAt time.Time `json:"issued_at,omitempty"`
}

// Verify reports whether a certificate with that number exists and is
// not revoked. A revoked certificate is still found, so callers can
// render "revoked" rather than "never issued".
func (s *Service) Verify(number string) (*VerifyResult, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	cert, err := s.store.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return &VerifyResult{Found: false}, ErrNotFound
	}
	return &VerifyResult{
		Found:    true,
		Revoked:  cert.Revoked,
		HolderID: cert.UserID,
		CourseID: cert.CourseID,
		Title:    cert.Title,
		IssuedAt: cert.IssuedAt,
	}, nil
}

// Revoke marks a certificate revoked. Only an admin or the original
// issuer may revoke. Revoking an already-revoked certificate succeeds
// and returns the record unchanged, so concurrent duplicate revocations
// are not errors.
func (s *Service) Revoke(number string, revokerID uint) (*models.Certificate, error) {
	cert, err := s.get(number)
	if err != nil {
		return nil, err
	}

	if !s.identity.HasRole(revokerID, models.RoleAdmin) && revokerID != cert.IssuedBy {
		return nil, ErrUnauthorized
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Re-read after the role check; the record may have been revoked in
	// the meantime.
	cert, err = s.store.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrNotFound
	}
	if cert.Revoked {
		return cert, nil
	}

	now := s.Now()
	cert.Revoked = true
	cert.RevokedAt = &now
	cert.RevokedBy = &revokerID
	if err := s.store.Update(cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// ListForHolder returns the holder's certificates, newest first. Revoked
// certificates are included and flagged so audit trails stay complete.
func (s *Service) ListForHolder(holderID uint) ([]models.Certificate, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.store.ListForHolder(holderID)
}

// List returns a page of all issued certificates and the total count
func (s *Service) List(page, limit int) ([]models.Certificate, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.store.List((page-1)*limit, limit)
}

func (s *Service) get(number string) (*models.Certificate, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	cert, err := s.store.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrNotFound
	}
	return cert, nil
}

// certificateNumber derives the verification token from the issuance
// facts plus a ledger-local serial, so two issuances in the same instant
// still get distinct numbers.
func certificateNumber(holderID, courseID uint, issuedAt time.Time, serial uint64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%d|%d|%d", holderID, courseID, issuedAt.UnixNano(), serial)))
	return hex.EncodeToString(sum[:])
}
