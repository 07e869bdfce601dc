// Curriculum CMS implementation of [CurriculumAPI]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rpaulsen/lectern/internal/models"
	"github.com/rpaulsen/lectern/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// ClassroomService talks to the curriculum CMS REST API: hierarchy reads,
// server-stored content uploads, upload signatures, and asset records.
// Requests are rate limited client-side to stay polite to shared deployments.
type ClassroomService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	session    *shared.SessionHeaders
}

var _ CurriculumAPI = (*ClassroomService)(nil)

// ClassroomOpts configures a ClassroomService.
type ClassroomOpts struct {
	BaseURL   string
	APIToken  string       // static bearer token; ignored when Client is set
	Client    *http.Client // pre-authenticated client (e.g. from the OAuth flow)
	RateLimit float64      // requests per second, 0 disables limiting
}

// NewClassroomService creates a CMS client. With an APIToken and no Client,
// requests are authenticated through an oauth2 static token source.
func NewClassroomService(opts ClassroomOpts) *ClassroomService {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8000"
	}

	client := opts.Client
	if client == nil {
		if opts.APIToken != "" {
			src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.APIToken})
			client = oauth2.NewClient(context.Background(), src)
		} else {
			client = http.DefaultClient
		}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &ClassroomService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: client,
		limiter:    limiter,
	}
}

// Authenticate swaps in a client backed by the given token, as returned from
// the authorization-code flow.
func (s *ClassroomService) Authenticate(ctx context.Context, config *oauth2.Config, token *oauth2.Token) {
	s.httpClient = config.Client(ctx, token)
}

// UseSession attaches imported browser-session headers to every request,
// an alternative to token auth for admins.
func (s *ClassroomService) UseSession(headers *shared.SessionHeaders) {
	s.session = headers
}

// wait blocks on the client-side rate limiter, if one is configured.
func (s *ClassroomService) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

// doRequest performs a rate-limited JSON request against the CMS API.
func (s *ClassroomService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.session != nil {
		s.session.Apply(req.Header)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, responseError(resp))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// responseError extracts a usable message from a non-2xx response: the
// body's error field, the raw body, or the status code.
func responseError(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// Hierarchy reads

// Classes retrieves the top-level class list.
func (s *ClassroomService) Classes(ctx context.Context) ([]models.ClassLevel, error) {
	var out []models.ClassLevel
	if err := s.doRequest(ctx, http.MethodGet, "/api/classes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Subjects retrieves the subjects under a class.
func (s *ClassroomService) Subjects(ctx context.Context, classID string) ([]models.Subject, error) {
	var out []models.Subject
	endpoint := fmt.Sprintf("/api/classes/%s/subjects", classID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Units retrieves the units under a subject.
func (s *ClassroomService) Units(ctx context.Context, subjectID string) ([]models.Unit, error) {
	var out []models.Unit
	endpoint := fmt.Sprintf("/api/subjects/%s/units", subjectID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubUnits retrieves the sub-units under a unit.
func (s *ClassroomService) SubUnits(ctx context.Context, unitID string) ([]models.SubUnit, error) {
	var out []models.SubUnit
	endpoint := fmt.Sprintf("/api/units/%s/subunits", unitID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Lessons retrieves the lessons under a sub-unit.
func (s *ClassroomService) Lessons(ctx context.Context, subUnitID string) ([]models.Lesson, error) {
	var out []models.Lesson
	endpoint := fmt.Sprintf("/api/subunits/%s/lessons", subUnitID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Contents retrieves the content items attached to a lesson.
func (s *ClassroomService) Contents(ctx context.Context, lessonID string) ([]models.ContentItem, error) {
	var out []models.ContentItem
	endpoint := fmt.Sprintf("/api/lessons/%s/contents", lessonID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Upload pipeline

// UploadContent submits a server-stored binary as one streamed multipart
// request. Resolves on any 2xx; rejects with the response body otherwise.
func (s *ClassroomService) UploadContent(ctx context.Context, up ContentUpload, onProgress TransferProgress) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	fields := [][2]string{
		{"lessonId", up.LessonID},
		{"category", up.Category},
		{"title", up.Title},
	}
	if up.Folder != "" {
		fields = append(fields, [2]string{"folder", up.Folder})
	}
	if up.ExamKind != "" {
		fields = append(fields, [2]string{"examKind", up.ExamKind})
	}

	payload := newProgressReader(up.File, up.Size, onProgress)
	body, contentType := newMultipartBody(fields, "file", up.FileName, payload)
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/content/upload", body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if s.session != nil {
		s.session.Apply(req.Header)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s", responseError(resp))
	}

	return nil
}

// SignUpload requests a short-lived direct-upload authorization.
func (s *ClassroomService) SignUpload(ctx context.Context, req SignRequest) (*UploadSignature, error) {
	var sig UploadSignature
	if err := s.doRequest(ctx, http.MethodPost, "/api/content/sign-upload", req, &sig); err != nil {
		return nil, err
	}
	return &sig, nil
}

// SaveCloudAsset records a provider-hosted asset's metadata at the CMS.
func (s *ClassroomService) SaveCloudAsset(ctx context.Context, rec CloudAssetRecord) error {
	return s.doRequest(ctx, http.MethodPost, "/api/content/save-asset", rec, nil)
}
