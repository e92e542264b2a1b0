// Package gateways holds the narrow interfaces through which the ledger
// core consults platform facts it does not own (users, courses). Answers
// are trusted only at the instant of the call; callers re-validate their
// own state after any gateway round-trip.
package gateways

// Identity answers questions about platform users
type Identity interface {
	// IsRegistered reports whether the user exists and is not deleted
	IsRegistered(userID uint) bool

	// HasRole reports whether the user holds any of the given roles
	HasRole(userID uint, roles ...string) bool

	// VotingWeight returns the user's current governance voting weight
	VotingWeight(userID uint) uint64

	// TotalVotingWeight returns the summed weight of all registered users
	TotalVotingWeight() uint64
}

// CourseCompletion carries the course facts a certificate is built from
type CourseCompletion struct {
	CourseTitle string   `json:"course_title"`
	FinalScore  uint8    `json:"final_score"`
	Skills      []string `json:"skills"`
}

// CourseAttainment answers questions about courses and completion
type CourseAttainment interface {
	// CourseExists reports whether the course exists and is not deleted
	CourseExists(courseID uint) bool

	// HasCompleted reports whether the user finished the course
	HasCompleted(userID, courseID uint) bool

	// Completion returns completion details used for certificate content.
	// Returns an error when the user has not completed the course.
	Completion(userID, courseID uint) (*CourseCompletion, error)
}
