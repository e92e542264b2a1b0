package gateways

import (
	"eduledger/models"
	"errors"

	"gorm.io/gorm"
)

// ErrNotCompleted is returned by Completion when the user has not
// finished the course
var ErrNotCompleted = errors.New("course not completed")

// DbCourseAttainment answers completion questions from the local course
// and enrollment tables
type DbCourseAttainment struct {
	Db *gorm.DB
}

func NewDbCourseAttainment(db *gorm.DB) *DbCourseAttainment {
	return &DbCourseAttainment{Db: db}
}

func (g *DbCourseAttainment) CourseExists(courseID uint) bool {
	var count int64
	g.Db.Model(&models.Course{}).Where("id = ? AND is_deleted = ?", courseID, false).Count(&count)
	return count > 0
}

func (g *DbCourseAttainment) HasCompleted(userID, courseID uint) bool {
	var count int64
	g.Db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?",
			userID, courseID, models.EnrollmentCompleted, false).
		Count(&count)
	return count > 0
}

func (g *DbCourseAttainment) Completion(userID, courseID uint) (*CourseCompletion, error) {
	var enrollment models.Enrollment
	err := g.Db.Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?",
		userID, courseID, models.EnrollmentCompleted, false).
		First(&enrollment).Error
	if err != nil {
		return nil, ErrNotCompleted
	}

	var course models.Course
	if err := g.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, err
	}

	skills := []string{"General Knowledge"}
	if course.Category != "" {
		skills = []string{course.Category}
	}

	return &CourseCompletion{
		CourseTitle: course.Title,
		FinalScore:  enrollment.FinalScore,
		Skills:      skills,
	}, nil
}
