package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/scholarai/scholar/internal/model"
)

// GenerateRequest asks the API to generate an assessment from a document.
type GenerateRequest struct {
	DocumentID    string   `json:"document_id"`
	Query         string   `json:"query"`
	NumQuestions  int      `json:"num_questions"`
	Difficulty    string   `json:"difficulty"`
	QuestionTypes []string `json:"question_types"`
}

// Generate starts generation and returns the new assessment's id. The
// assessment is filled in asynchronously; poll GetAssessment for it.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	const endpoint = "POST /assessments"
	data, err := c.Do(ctx, http.MethodPost, "/assessments", req)
	if err != nil {
		return "", err
	}
	if err := validate(endpoint, "generated", data); err != nil {
		return "", err
	}

	res := gjson.ParseBytes(data)
	if res.Type == gjson.String {
		return res.String(), nil
	}
	return first(res, "id", "assessment_id").String(), nil
}

// ListAssessments returns the user's assessments as known to the server.
func (c *Client) ListAssessments(ctx context.Context) ([]model.Assessment, error) {
	const endpoint = "GET /assessments"
	data, err := c.Do(ctx, http.MethodGet, "/assessments", nil)
	if err != nil {
		return nil, err
	}
	if err := validate(endpoint, "assessmentList", data); err != nil {
		return nil, err
	}

	rows := items(gjson.ParseBytes(data), "assessments")
	out := make([]model.Assessment, 0, len(rows))
	for _, r := range rows {
		a, err := c.decodeAssessment(r)
		if err != nil {
			return nil, &InvalidResponseError{Endpoint: endpoint, Content: []byte(r.Raw), Err: err}
		}
		out = append(out, a)
	}
	return out, nil
}

// GetAssessment fetches one assessment.
func (c *Client) GetAssessment(ctx context.Context, id string) (model.Assessment, error) {
	if id == "" {
		return model.Assessment{}, fmt.Errorf("get assessment: empty id")
	}
	endpoint := "GET /assessments/" + id
	data, err := c.Do(ctx, http.MethodGet, "/assessments/"+url.PathEscape(id), nil)
	if err != nil {
		return model.Assessment{}, err
	}
	if err := validate(endpoint, "assessment", data); err != nil {
		return model.Assessment{}, err
	}

	a, err := c.decodeAssessment(gjson.ParseBytes(data))
	if err != nil {
		return model.Assessment{}, &InvalidResponseError{Endpoint: endpoint, Content: data, Err: err}
	}
	return a, nil
}
