package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roms-agency/roms-backend/internal/assignments"
	"github.com/roms-agency/roms-backend/internal/candidates"
	"github.com/roms-agency/roms-backend/internal/commission"
	"github.com/roms-agency/roms-backend/internal/documents"
	"github.com/roms-agency/roms-backend/internal/joborders"
	pkgAuth "github.com/roms-agency/roms-backend/pkg/auth"
	"github.com/roms-agency/roms-backend/pkg/config"
	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
	"github.com/roms-agency/roms-backend/pkg/logger"
	"github.com/roms-agency/roms-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCandidateService struct{}

func (stubCandidateService) Apply(ctx context.Context, input candidates.ApplyInput) (*models.Candidate, error) {
	return &models.Candidate{ID: 1, CurrentStatus: enums.CandidateStatusApplicationSubmitted}, nil
}

func (stubCandidateService) Get(ctx context.Context, id int64) (*models.Candidate, error) {
	return &models.Candidate{ID: id, CurrentStatus: enums.CandidateStatusUnderReview}, nil
}

func (stubCandidateService) List(ctx context.Context, query candidates.ListQuery) ([]models.Candidate, error) {
	return []models.Candidate{}, nil
}

func (stubCandidateService) UpdateProfile(ctx context.Context, id int64, input candidates.ProfileInput) (*models.Candidate, error) {
	return &models.Candidate{ID: id}, nil
}

type stubDocumentService struct{}

func (stubDocumentService) UploadMetadata(ctx context.Context, input documents.UploadInput) (*models.CandidateDocument, error) {
	panic("unimplemented")
}

func (stubDocumentService) List(ctx context.Context, candidateID int64) ([]models.CandidateDocument, error) {
	return []models.CandidateDocument{}, nil
}

func (stubDocumentService) DeleteMetadata(ctx context.Context, documentID int64) error {
	panic("unimplemented")
}

type stubWorkflowService struct{}

func (stubWorkflowService) Transition(ctx context.Context, candidateID int64, target enums.CandidateStatus) (*models.Candidate, error) {
	return &models.Candidate{ID: candidateID, CurrentStatus: target}, nil
}

func (stubWorkflowService) CanTransition(ctx context.Context, candidateID int64, target enums.CandidateStatus) (bool, error) {
	return true, nil
}

func (stubWorkflowService) BlockReason(ctx context.Context, candidateID int64, target enums.CandidateStatus) (string, error) {
	return "", nil
}

func (stubWorkflowService) ReviewDocuments(ctx context.Context, candidateID int64) (*models.Candidate, error) {
	panic("unimplemented")
}

func (stubWorkflowService) AcceptOffer(ctx context.Context, candidateID int64) (*models.Candidate, error) {
	return &models.Candidate{ID: candidateID, CurrentStatus: enums.CandidateStatusOfferAccepted}, nil
}

type stubJobOrderService struct{}

func (stubJobOrderService) Create(ctx context.Context, input joborders.CreateInput) (*models.JobOrder, error) {
	panic("unimplemented")
}

func (stubJobOrderService) Get(ctx context.Context, id int64) (*models.JobOrder, error) {
	panic("unimplemented")
}

func (stubJobOrderService) List(ctx context.Context, query joborders.ListQuery) ([]models.JobOrder, error) {
	return []models.JobOrder{}, nil
}

func (stubJobOrderService) UpdateStatus(ctx context.Context, id int64, status enums.JobOrderStatus) (*models.JobOrder, error) {
	panic("unimplemented")
}

type stubAssignmentService struct{}

func (stubAssignmentService) Create(ctx context.Context, input assignments.CreateInput) (*models.Assignment, error) {
	panic("unimplemented")
}

func (stubAssignmentService) Cancel(ctx context.Context, id int64) (*models.Assignment, error) {
	panic("unimplemented")
}

func (stubAssignmentService) IssueOffer(ctx context.Context, id int64) (*models.Assignment, error) {
	panic("unimplemented")
}

func (stubAssignmentService) ConfirmPlacement(ctx context.Context, id int64) (*models.Assignment, error) {
	panic("unimplemented")
}

func (stubAssignmentService) Get(ctx context.Context, id int64) (*models.Assignment, error) {
	panic("unimplemented")
}

func (stubAssignmentService) List(ctx context.Context, query assignments.ListQuery) ([]models.Assignment, error) {
	return []models.Assignment{}, nil
}

func (stubAssignmentService) ActiveForCandidate(ctx context.Context, candidateID int64) (*models.Assignment, error) {
	panic("unimplemented")
}

func (stubAssignmentService) HasActive(ctx context.Context, candidateID int64) (bool, error) {
	return false, nil
}

type stubCommissionService struct{}

func (stubCommissionService) CreateAgreement(ctx context.Context, input commission.CreateAgreementInput) (*models.CommissionAgreement, error) {
	panic("unimplemented")
}

func (stubCommissionService) Sign(ctx context.Context, agreementID uuid.UUID, signedDocumentURL *string) (*models.CommissionAgreement, error) {
	panic("unimplemented")
}

func (stubCommissionService) Cancel(ctx context.Context, agreementID uuid.UUID, reason string) (*models.CommissionAgreement, error) {
	panic("unimplemented")
}

func (stubCommissionService) UpdateAmounts(ctx context.Context, agreementID uuid.UUID, total, downpayment decimal.Decimal) (*models.CommissionAgreement, error) {
	panic("unimplemented")
}

func (stubCommissionService) RecordDownpayment(ctx context.Context, input commission.PaymentInput) (*models.Payment, error) {
	panic("unimplemented")
}

func (stubCommissionService) RecordInstallment(ctx context.Context, input commission.PaymentInput) (*models.Payment, error) {
	panic("unimplemented")
}

func (stubCommissionService) ReversePayment(ctx context.Context, paymentID uuid.UUID, reason string, recordedBy *int64) (*models.Payment, error) {
	panic("unimplemented")
}

func (stubCommissionService) Statement(ctx context.Context, candidateID int64, agreementID uuid.UUID) (*commission.Statement, error) {
	panic("unimplemented")
}

func (stubCommissionService) IsDownpaymentComplete(ctx context.Context, assignmentID int64) (bool, error) {
	return false, nil
}

func (stubCommissionService) IsFullPaymentComplete(ctx context.Context, assignmentID int64) (bool, error) {
	return false, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubCandidateService{},
		stubDocumentService{},
		stubWorkflowService{},
		stubJobOrderService{},
		stubAssignmentService{},
		stubCommissionService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.MemberRole, candidateID *int64) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:      7,
		Role:        role,
		CandidateID: candidateID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())

	live := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, live)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for live got %d", resp.Code)
	}

	ready := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, ready)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while redis is down got %d", resp.Code)
	}
}

func TestApplyIsOpenWithoutToken(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"first_name":"Amina","last_name":"Odhiambo","email":"amina@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/apply", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public apply got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthedRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCandidateListRequiresStaffRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	candidateID := int64(1)
	applicant := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/", nil)
	applicant.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleApplicant, &candidateID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, applicant)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for applicant list got %d", resp.Code)
	}

	staff := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleOperationsStaff, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff list got %d", resp.Code)
	}
}

func TestWorkflowTransitionRequiresStaffRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"target":"under_review"}`

	candidateID := int64(1)
	applicant := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/1/transition", strings.NewReader(body))
	applicant.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleApplicant, &candidateID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, applicant)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for applicant transition got %d", resp.Code)
	}

	staff := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/1/transition", strings.NewReader(body))
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleOperationsStaff, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff transition got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCommissionGroupRequiresFinanceRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	path := "/api/v1/commission/assignments/1/payment-status"

	staff := httptest.NewRequest(http.MethodGet, path, nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleOperationsStaff, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for operations staff on commission got %d", resp.Code)
	}

	finance := httptest.NewRequest(http.MethodGet, path, nil)
	finance.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleFinance, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, finance)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for finance got %d", resp.Code)
	}
}

func TestApplicantSelfAccessIsScoped(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	candidateID := int64(5)
	token := buildToken(t, cfg, enums.MemberRoleApplicant, &candidateID)

	own := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/5", nil)
	own.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, own)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for own record got %d", resp.Code)
	}

	other := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/6", nil)
	other.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, other)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for another candidate got %d", resp.Code)
	}
}

func TestAdminPassesEveryRoleGate(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg, enums.MemberRoleAdmin, nil)

	for _, path := range []string{
		"/api/v1/candidates/",
		"/api/v1/job-orders/",
		"/api/v1/assignments/",
		"/api/v1/commission/assignments/1/payment-status",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for admin on %s got %d", path, resp.Code)
		}
	}
}
