package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"checkmate/internal/auth"
	"checkmate/internal/consensus"
	"checkmate/internal/models"
	"checkmate/internal/repository"
	"checkmate/internal/services"
	"checkmate/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	auth.InitJWT("test-secret")
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	repo   *repository.Repository
	auth   *services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := zerolog.Nop()
	db := testutil.NewTestDB(t)
	repo := repository.NewRepository(db)
	engine := consensus.NewEngine(repo, consensus.Config{}, log)

	authSvc := services.NewAuthService(repo, log)
	reviewers := services.NewReviewerService(repo, nil)
	leaderboard := services.NewLeaderboardService(repo, 1, 10)

	r := gin.New()
	RegisterRoutes(r, Handlers{
		Auth:        NewAuthHandler(authSvc, reviewers, log),
		Submissions: NewSubmissionHandler(services.NewSubmissionService(repo, log), services.NewBallotService(repo, log), reviewers, log),
		Dashboard:   NewDashboardHandler(reviewers, leaderboard, log),
		Admin:       NewAdminHandler(services.NewAdminService(repo, engine, leaderboard), log),
	}, log)

	return &testServer{router: r, db: db, repo: repo, auth: authSvc}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, p *models.ReviewerProfile) string {
	t.Helper()
	token, err := auth.GenerateToken(p.ID, p.Email, p.IsAdmin)
	require.NoError(t, err)
	return token
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.auth.Register(ctx, "Yara", "yara@checkmate.test", "s3cret", false)
	require.NoError(t, err)

	w := s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "yara@checkmate.test", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "yara@checkmate.test", Password: "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token    string                 `json:"token"`
		Reviewer models.ReviewerProfile `json:"reviewer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Token)
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(t, http.MethodGet, "/api/reviewers/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Yara"`)
}

func TestSubmitBallotFlow(t *testing.T) {
	s := newTestServer(t)

	reviewer := testutil.CreateReviewer(t, s.db, "zoe")
	token := tokenFor(t, reviewer)
	sub := testutil.CreateSubmission(t, s.db, "tax relief", time.Now())
	path := "/api/submissions/" + sub.ID.String() + "/ballots"

	w := s.do(t, http.MethodPost, path, "", models.SubmitBallotRequest{Category: "False", AIRating: "helpful"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, path, token, models.SubmitBallotRequest{AIRating: "helpful"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, path, token, models.SubmitBallotRequest{Category: "Rumour", AIRating: "helpful"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, path, token, models.SubmitBallotRequest{Category: "Legitimate", AIRating: "helpful"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.SubmitBallotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsUpdate)
	assert.Equal(t, int64(1), resp.BallotCount)

	w = s.do(t, http.MethodPost, path, token, models.SubmitBallotRequest{Category: "Misleading", AIRating: "not_helpful"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsUpdate)

	w = s.do(t, http.MethodGet, "/api/submissions/"+sub.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"ballots"`)

	w = s.do(t, http.MethodPost, "/api/submissions/"+uuid.NewString()+"/ballots", token, models.SubmitBallotRequest{Category: "False", AIRating: "helpful"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/submissions/not-a-uuid/ballots", token, models.SubmitBallotRequest{Category: "False", AIRating: "helpful"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBallotRejectedAfterClose(t *testing.T) {
	s := newTestServer(t)

	reviewer := testutil.CreateReviewer(t, s.db, "abe")
	admin := testutil.CreateReviewer(t, s.db, "root")
	require.NoError(t, s.db.Model(admin).Update("is_admin", true).Error)
	admin.IsAdmin = true

	sub := testutil.CreateSubmission(t, s.db, "old news", time.Now().Add(-25*time.Hour))
	testutil.AddBallot(t, s.db, sub.ID, reviewer.ID, models.CategorySatire, time.Now().Add(-24*time.Hour))

	w := s.do(t, http.MethodPost, "/api/admin/cycles", tokenFor(t, reviewer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/admin/cycles", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary consensus.CycleSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Closed)
	require.Len(t, summary.Outcomes, 1)
	assert.Equal(t, "Satire - 100% consensus", summary.Outcomes[0].Verdict)

	w = s.do(t, http.MethodPost, "/api/submissions/"+sub.ID.String()+"/ballots", tokenFor(t, reviewer),
		models.SubmitBallotRequest{Category: "False", AIRating: "helpful"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/submissions/"+sub.ID.String(), tokenFor(t, reviewer), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"verdict":"Satire - 100% consensus"`)
	assert.Contains(t, w.Body.String(), `"ballots"`)

	w = s.do(t, http.MethodGet, "/api/admin/stats", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"closed":1`)
}

func TestDashboardAndLeaderboard(t *testing.T) {
	s := newTestServer(t)

	reviewer := testutil.CreateReviewer(t, s.db, "bea")
	require.NoError(t, s.repo.IncrementCounters(context.Background(), reviewer.ID, 10, 7))

	w := s.do(t, http.MethodGet, "/api/dashboard", tokenFor(t, reviewer), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash models.DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.True(t, dash.IsNewChecker)
	assert.Equal(t, int64(70), dash.UserData.Accuracy)

	w = s.do(t, http.MethodGet, "/api/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"bea"`)

	w = s.do(t, http.MethodGet, "/api/submissions", tokenFor(t, reviewer), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestAdminCreateSubmission(t *testing.T) {
	s := newTestServer(t)

	admin := testutil.CreateReviewer(t, s.db, "cora")
	admin.IsAdmin = true

	w := s.do(t, http.MethodPost, "/api/admin/submissions", tokenFor(t, admin), models.CreateSubmissionRequest{Content: "chain letter"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"open"`)

	w = s.do(t, http.MethodPost, "/api/admin/submissions", tokenFor(t, admin), map[string]string{"sender": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
