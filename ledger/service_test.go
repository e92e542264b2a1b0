package ledger_test

import (
	"testing"
	"time"

	"eduledger/gateways"
	"eduledger/ledger"
	"eduledger/ledger/store"
	"eduledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIdentity implements gateways.Identity for tests
type stubIdentity struct {
	registered map[uint]bool
	roles      map[uint]string
	weights    map[uint]uint64
}

func (s *stubIdentity) IsRegistered(userID uint) bool {
	return s.registered[userID]
}

func (s *stubIdentity) HasRole(userID uint, roles ...string) bool {
	for _, role := range roles {
		if s.roles[userID] == role {
			return true
		}
	}
	return false
}

func (s *stubIdentity) VotingWeight(userID uint) uint64 {
	return s.weights[userID]
}

func (s *stubIdentity) TotalVotingWeight() uint64 {
	var total uint64
	for _, w := range s.weights {
		total += w
	}
	return total
}

// stubCourses implements gateways.CourseAttainment for tests
type stubCourses struct {
	courses   map[uint]string          // course id -> title
	completed map[[2]uint]uint8        // (user, course) -> final score
}

func (s *stubCourses) CourseExists(courseID uint) bool {
	_, exists := s.courses[courseID]
	return exists
}

func (s *stubCourses) HasCompleted(userID, courseID uint) bool {
	_, completed := s.completed[[2]uint{userID, courseID}]
	return completed
}

func (s *stubCourses) Completion(userID, courseID uint) (*gateways.CourseCompletion, error) {
	score, completed := s.completed[[2]uint{userID, courseID}]
	if !completed {
		return nil, gateways.ErrNotCompleted
	}
	return &gateways.CourseCompletion{
		CourseTitle: s.courses[courseID],
		FinalScore:  score,
		Skills:      []string{"Go"},
	}, nil
}

const (
	student    = uint(1)
	instructor = uint(2)
	admin      = uint(3)
	stranger   = uint(4)

	goCourse   = uint(10)
	sqlCourse  = uint(11)
)

func newLedger(t *testing.T) *ledger.Service {
	t.Helper()

	identity := &stubIdentity{
		registered: map[uint]bool{student: true, instructor: true, admin: true, stranger: true},
		roles: map[uint]string{
			instructor: models.RoleInstructor,
			admin:      models.RoleAdmin,
		},
		weights: map[uint]uint64{},
	}
	courses := &stubCourses{
		courses: map[uint]string{goCourse: "Intro to Go", sqlCourse: "SQL Basics"},
		completed: map[[2]uint]uint8{
			{student, goCourse}:  92,
			{student, sqlCourse}: 81,
		},
	}
	return ledger.NewService(store.NewMemoryStore(), identity, courses)
}

func TestIssueCertificate(t *testing.T) {
	service := newLedger(t)

	t.Run("issues for completed course", func(t *testing.T) {
		cert, err := service.Issue(student, goCourse, instructor)
		require.NoError(t, err)
		assert.Equal(t, student, cert.UserID)
		assert.Equal(t, goCourse, cert.CourseID)
		assert.Equal(t, instructor, cert.IssuedBy)
		assert.Equal(t, uint8(92), cert.FinalScore)
		assert.Len(t, cert.CertificateNumber, 64)
		assert.False(t, cert.Revoked)
	})

	t.Run("rejects duplicate for same holder and course", func(t *testing.T) {
		_, err := service.Issue(student, goCourse, instructor)
		assert.ErrorIs(t, err, ledger.ErrDuplicateCertificate)
	})

	t.Run("rejects issuer without role", func(t *testing.T) {
		_, err := service.Issue(student, sqlCourse, stranger)
		assert.ErrorIs(t, err, ledger.ErrUnauthorized)
	})

	t.Run("rejects incomplete course", func(t *testing.T) {
		_, err := service.Issue(stranger, goCourse, instructor)
		assert.ErrorIs(t, err, ledger.ErrNotCompleted)
	})

	t.Run("rejects unknown holder", func(t *testing.T) {
		_, err := service.Issue(99, goCourse, instructor)
		assert.ErrorIs(t, err, ledger.ErrUnknownHolder)
	})

	t.Run("rejects unknown course", func(t *testing.T) {
		_, err := service.Issue(student, 99, instructor)
		assert.ErrorIs(t, err, ledger.ErrUnknownCourse)
	})
}

func TestIssueDistinctNumbersInSameInstant(t *testing.T) {
	service := newLedger(t)

	// Freeze the clock: the serial must still keep numbers distinct
	instant := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.Now = func() time.Time { return instant }

	first, err := service.Issue(student, goCourse, instructor)
	require.NoError(t, err)

	_, err = service.Revoke(first.CertificateNumber, instructor)
	require.NoError(t, err)

	second, err := service.Issue(student, goCourse, instructor)
	require.NoError(t, err)

	assert.NotEqual(t, first.CertificateNumber, second.CertificateNumber)
}

func TestVerifyCertificate(t *testing.T) {
	service := newLedger(t)

	cert, err := service.Issue(student, goCourse, instructor)
	require.NoError(t, err)

	t.Run("finds an active certificate", func(t *testing.T) {
		result, err := service.Verify(cert.CertificateNumber)
		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.False(t, result.Revoked)
		assert.Equal(t, student, result.HolderID)
		assert.Equal(t, goCourse, result.CourseID)
	})

	t.Run("never-issued number reports not found", func(t *testing.T) {
		result, err := service.Verify("no-such-number")
		assert.ErrorIs(t, err, ledger.ErrNotFound)
		require.NotNil(t, result)
		assert.False(t, result.Found)
	})

	t.Run("revoked certificate is still found", func(t *testing.T) {
		_, err := service.Revoke(cert.CertificateNumber, admin)
		require.NoError(t, err)

		result, err := service.Verify(cert.CertificateNumber)
		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.True(t, result.Revoked)
	})
}

func TestRevokeCertificate(t *testing.T) {
	service := newLedger(t)

	cert, err := service.Issue(student, goCourse, instructor)
	require.NoError(t, err)

	t.Run("rejects revoker who is neither admin nor issuer", func(t *testing.T) {
		_, err := service.Revoke(cert.CertificateNumber, stranger)
		assert.ErrorIs(t, err, ledger.ErrUnauthorized)
	})

	t.Run("issuer can revoke", func(t *testing.T) {
		revoked, err := service.Revoke(cert.CertificateNumber, instructor)
		require.NoError(t, err)
		assert.True(t, revoked.Revoked)
		require.NotNil(t, revoked.RevokedBy)
		assert.Equal(t, instructor, *revoked.RevokedBy)
	})

	t.Run("second revoke is a silent no-op", func(t *testing.T) {
		first, err := service.Revoke(cert.CertificateNumber, instructor)
		require.NoError(t, err)

		second, err := service.Revoke(cert.CertificateNumber, admin)
		require.NoError(t, err)
		assert.Equal(t, first.RevokedAt, second.RevokedAt)
		assert.Equal(t, first.RevokedBy, second.RevokedBy)
	})

	t.Run("unknown number reports not found", func(t *testing.T) {
		_, err := service.Revoke("no-such-number", admin)
		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})
}

func TestListForHolder(t *testing.T) {
	service := newLedger(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.Now = func() time.Time { return base }
	first, err := service.Issue(student, goCourse, instructor)
	require.NoError(t, err)

	service.Now = func() time.Time { return base.Add(time.Hour) }
	second, err := service.Issue(student, sqlCourse, instructor)
	require.NoError(t, err)

	_, err = service.Revoke(first.CertificateNumber, admin)
	require.NoError(t, err)

	certificates, err := service.ListForHolder(student)
	require.NoError(t, err)
	require.Len(t, certificates, 2)

	// Newest first, revoked included and flagged
	assert.Equal(t, second.CertificateNumber, certificates[0].CertificateNumber)
	assert.Equal(t, first.CertificateNumber, certificates[1].CertificateNumber)
	assert.False(t, certificates[0].Revoked)
	assert.True(t, certificates[1].Revoked)

	// A single active certificate per (holder, course) pair after all that
	active := 0
	for _, cert := range certificates {
		if cert.CourseID == goCourse && !cert.Revoked {
			active++
		}
	}
	assert.Equal(t, 0, active)
}
