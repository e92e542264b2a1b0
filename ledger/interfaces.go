package ledger

import "eduledger/models"

// CertificateStore defines storage for issued certificates. Certificates
// are append-only: Save inserts, Update only ever flips revocation
// fields, nothing is deleted.
type CertificateStore interface {
	// Save inserts a new certificate
	Save(cert *models.Certificate) error

	// Update persists revocation changes to an existing certificate
	Update(cert *models.Certificate) error

	// GetByNumber returns the certificate with the given number, or nil
	GetByNumber(number string) (*models.Certificate, error)

	// ActiveForHolderCourse returns the non-revoked certificate for the
	// (holder, course) pair, or nil
	ActiveForHolderCourse(holderID, courseID uint) (*models.Certificate, error)

	// ListForHolder returns all of the holder's certificates, newest
	// first, revoked included
	ListForHolder(holderID uint) ([]models.Certificate, error)

	// List returns a page of all certificates plus the total count
	List(offset, limit int) ([]models.Certificate, int64, error)

	// NextSerial returns the next value of the ledger-local monotonic
	// issuance counter
	NextSerial() (uint64, error)
}
