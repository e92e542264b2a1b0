package gateways

import (
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// RemoteCourseAttainment consults an external course service over HTTP.
// Used when the course catalog runs as its own deployment
// (COURSE_SERVICE_URL set); otherwise the DB-backed gateway is wired.
type RemoteCourseAttainment struct {
	client *resty.Client
}

func NewRemoteCourseAttainment(baseURL, apiKey string) *RemoteCourseAttainment {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return &RemoteCourseAttainment{client: client}
}

type remoteCourseResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Exists bool `json:"exists"`
	} `json:"data"`
}

type remoteCompletionResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Completed   bool     `json:"completed"`
		CourseTitle string   `json:"course_title"`
		FinalScore  uint8    `json:"final_score"`
		Skills      []string `json:"skills"`
	} `json:"data"`
}

func (g *RemoteCourseAttainment) CourseExists(courseID uint) bool {
	var result remoteCourseResponse
	resp, err := g.client.R().
		SetResult(&result).
		Get(fmt.Sprintf("/course/%d/exists", courseID))
	if err != nil || resp.IsError() {
		log.Printf("Error checking course %d on course service: %v", courseID, err)
		return false
	}
	return result.Data.Exists
}

func (g *RemoteCourseAttainment) HasCompleted(userID, courseID uint) bool {
	completion, err := g.fetchCompletion(userID, courseID)
	return err == nil && completion != nil
}

func (g *RemoteCourseAttainment) Completion(userID, courseID uint) (*CourseCompletion, error) {
	completion, err := g.fetchCompletion(userID, courseID)
	if err != nil {
		return nil, err
	}
	if completion == nil {
		return nil, ErrNotCompleted
	}
	return completion, nil
}

func (g *RemoteCourseAttainment) fetchCompletion(userID, courseID uint) (*CourseCompletion, error) {
	var result remoteCompletionResponse
	resp, err := g.client.R().
		SetResult(&result).
		Get(fmt.Sprintf("/course/%d/completion/%d", courseID, userID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("course service returned %s", resp.Status())
	}
	if !result.Data.Completed {
		return nil, nil
	}
	return &CourseCompletion{
		CourseTitle: result.Data.CourseTitle,
		FinalScore:  result.Data.FinalScore,
		Skills:      result.Data.Skills,
	}, nil
}
