// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-portal/internal/common/config"
	commonhttp "interview-portal/internal/common/http"
	"interview-portal/internal/common/logger"
	"interview-portal/internal/events"
	"interview-portal/internal/httpapi"
	"interview-portal/internal/interview"
	"interview-portal/internal/jobs"
	"interview-portal/internal/models"
	"interview-portal/internal/profile"
	"interview-portal/internal/submission"
	"interview-portal/internal/toast"
	"interview-portal/internal/wizard"
)

// platform fakes the upstream jobs and applications API.
type platform struct {
	jobLookups  atomic.Int32
	submissions atomic.Int32
	lastBody    atomic.Value
	reject      atomic.Bool
}

func (p *platform) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		p.jobLookups.Add(1)
		if r.PathValue("id") != "job-42" {
			_, _ = io.WriteString(w, `{"data":null}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"id":"job-42","title":"Platform Engineer","company":"Acme","skills":["go","k8s"]}}`)
	})
	mux.HandleFunc("POST /api/v2/applications", func(w http.ResponseWriter, r *http.Request) {
		p.submissions.Add(1)
		body, _ := io.ReadAll(r.Body)
		p.lastBody.Store(body)
		if p.reject.Load() {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"error":"You have already applied to this job"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"id":"app-777"}}`)
	})
	return mux
}

type portal struct {
	t        *testing.T
	url      string
	client   *http.Client
	platform *platform
}

func startPortal(t *testing.T) *portal {
	t.Helper()
	log := logger.NewTestLogger(t)

	p := &platform{}
	upstreamSrv := httptest.NewServer(p.handler())
	t.Cleanup(upstreamSrv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	upstream := commonhttp.NewClient(upstreamSrv.URL, 5*time.Second)
	lookup := jobs.NewCachedLookup(jobs.NewAPIClient(upstream, "/api/jobs", nil), rdb, time.Minute, log)
	profiles := profile.NewProvider(rdb, "portal:client", log)
	hub := events.NewHub()
	toasts := toast.NewRegistry(toast.Options{Duration: time.Minute}, hub)
	t.Cleanup(toasts.Close)

	d := httpapi.Deps{
		Log:          log,
		Hub:          hub,
		Toasts:       toasts,
		Profiles:     profiles,
		Resolver:     interview.NewResolver(lookup, profiles, log),
		Jobs:         lookup,
		Submitter:    submission.NewSubmitter(upstream, nil, nil, submission.Config{}, log),
		DefaultShape: submission.ShapeNested,
		ServiceName:  "interview-portal",
		Version:      "e2e",
	}
	srv := httptest.NewServer(httpapi.NewHandler(d, config.ServerConfig{ClientCookie: "portal_client"}, false))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &portal{t: t, url: srv.URL, client: client, platform: p}
}

func (p *portal) call(method, path string, body any, out any) *http.Response {
	p.t.Helper()
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(p.t, err)
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, p.url+path, rdr)
	require.NoError(p.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	require.NoError(p.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(p.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func filledApplication() models.ApplicationData {
	d := models.NewApplicationData()
	d.PersonalInfo = models.PersonalInfo{
		FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Phone: "+1 555 010 0199",
		LinkedInURL: "https://linkedin.com/in/grace",
	}
	d.AddressInfo = models.AddressInfo{Street: "1 Navy Way", City: "Arlington", State: "VA", ZipCode: "22202", Country: "US"}
	d.Experience.Skills = "cobol, compilers, leadership"
	d.Experience.WorkExperience = []models.WorkExperience{
		{Company: "US Navy", Title: "Rear Admiral", StartDate: "1943-12", Current: true},
	}
	d.Experience.Education = []models.Education{
		{Institution: "Yale", Degree: "PhD", FieldOfStudy: "Mathematics", GraduationYear: "1934"},
	}
	d.Questions = models.Questions{WorkAuthorized: "yes", RequiresSponsorship: "no", WillingToRelocate: "yes"}
	d.Disclosures = models.Disclosures{PreviouslyEmployed: "no", HasNonCompete: "no", BackgroundCheckConsent: "yes", AttestTruthful: "yes"}
	return d
}

func TestCandidateJourney(t *testing.T) {
	p := startPortal(t)

	// A first visit is a guest and gets a client cookie.
	var prof models.Profile
	resp := p.call(http.MethodGet, "/api/me", nil, &prof)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.UserGuest, prof.Class)

	p.call(http.MethodPut, "/api/me", models.User{ID: "u-1", Email: "grace@example.com", HasResume: true}, &prof)
	assert.Equal(t, models.UserHasResume, prof.Class)

	// Walk the wizard from step 1 to the review step.
	state := wizard.FormState{CurrentStep: 1, Data: filledApplication()}
	for step := 1; step < wizard.FinalStep; step++ {
		var tr struct {
			CurrentStep int               `json:"currentStep"`
			Transition  wizard.Transition `json:"transition"`
		}
		resp := p.call(http.MethodPost, "/api/wizard/next", state, &tr)
		require.Equal(t, http.StatusOK, resp.StatusCode, "step %d", step)
		assert.Equal(t, wizard.OutcomeAdvanced, tr.Transition.Outcome)
		state.CurrentStep = tr.CurrentStep
	}
	require.Equal(t, wizard.FinalStep, state.CurrentStep)

	var receipt submission.Receipt
	resp = p.call(http.MethodPost, "/api/applications", map[string]any{
		"currentStep": state.CurrentStep, "data": state.Data, "jobId": "job-42",
	}, &receipt)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "app-777", receipt.ApplicationID)
	assert.Equal(t, submission.ShapeNested, receipt.Shape)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(p.platform.lastBody.Load().([]byte), &sent))
	assert.Equal(t, "job-42", sent["position"].(map[string]any)["job_id"])
	skills := sent["experience_and_skills"].(map[string]any)["skills"].([]any)
	assert.Equal(t, []any{"cobol", "compilers", "leadership"}, skills)

	var toasts struct {
		Toasts []toast.Toast `json:"toasts"`
	}
	p.call(http.MethodGet, "/api/toasts", nil, &toasts)
	require.Len(t, toasts.Toasts, 1)
	assert.Equal(t, toast.KindSuccess, toasts.Toasts[0].Kind)

	// Interview entry: the query protocol resolves the job and the stored user.
	var d interview.Decision
	resp = p.call(http.MethodGet, "/interview/job/session?jobId=job-42", nil, &d)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Platform Engineer", d.Session.Job.Title)
	assert.Equal(t, models.UserHasResume, d.Session.User.Class)
	assert.Equal(t, "/interview/job/complete?jobId=job-42&reason=", d.CompleteURL)

	// A second resolution is served from the cache.
	p.call(http.MethodGet, "/interview/job/session?id=job-42", nil, &d)
	assert.Equal(t, int32(1), p.platform.jobLookups.Load())

	// The path protocol without a session goes back to preparation.
	resp = p.call(http.MethodGet, "/interview/job-42/session", nil, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/interview/job-42/prepare", resp.Header.Get("Location"))

	var bundle interview.Bundle
	p.call(http.MethodGet, "/interview/job-42/complete?reason=completed", nil, &bundle)
	assert.Equal(t, "Interview Completed", bundle.Title)
	require.Len(t, bundle.Actions, 2)
	assert.Equal(t, interview.RouteDashboard, bundle.Actions[0].Href)
}

func TestSubmissionRejectedByPlatform(t *testing.T) {
	p := startPortal(t)
	p.platform.reject.Store(true)

	var apiErr httpapi.APIError
	resp := p.call(http.MethodPost, "/api/applications", map[string]any{
		"currentStep": wizard.FinalStep, "data": filledApplication(), "jobId": "job-42",
	}, &apiErr)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "SUBMISSION_REJECTED", apiErr.Error.Code)
	assert.Equal(t, "You have already applied to this job", apiErr.Error.Message)

	var toasts struct {
		Toasts []toast.Toast `json:"toasts"`
	}
	p.call(http.MethodGet, "/api/toasts", nil, &toasts)
	require.Len(t, toasts.Toasts, 1)
	assert.Equal(t, toast.KindError, toasts.Toasts[0].Kind)
	assert.Equal(t, "You have already applied to this job", toasts.Toasts[0].Message)
}

func TestUnknownJobShowsPreparationAction(t *testing.T) {
	p := startPortal(t)

	var d interview.Decision
	resp := p.call(http.MethodGet, "/interview/job-missing/session?session=s-1", nil, &d)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, jobs.MessageJobNotFound, d.Error.Message)
	assert.Equal(t, "/interview/job-missing/prepare", d.Error.Action.Href)
}
