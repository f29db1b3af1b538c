package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roms-agency/roms-backend/api/controllers"
	"github.com/roms-agency/roms-backend/api/middleware"
	"github.com/roms-agency/roms-backend/internal/assignments"
	"github.com/roms-agency/roms-backend/internal/candidates"
	"github.com/roms-agency/roms-backend/internal/commission"
	"github.com/roms-agency/roms-backend/internal/documents"
	"github.com/roms-agency/roms-backend/internal/joborders"
	"github.com/roms-agency/roms-backend/internal/workflow"
	"github.com/roms-agency/roms-backend/pkg/config"
	"github.com/roms-agency/roms-backend/pkg/db"
	"github.com/roms-agency/roms-backend/pkg/enums"
	"github.com/roms-agency/roms-backend/pkg/logger"
	"github.com/roms-agency/roms-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	candidateService candidates.Service,
	documentService documents.Service,
	workflowService workflow.Service,
	jobOrderService joborders.Service,
	assignmentService assignments.Service,
	commissionService commission.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	staff := string(enums.MemberRoleOperationsStaff)
	finance := string(enums.MemberRoleFinance)
	admin := string(enums.MemberRoleAdmin)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	// Intake is open to unauthenticated applicants.
	r.Post("/api/v1/candidates/apply", controllers.CandidateApply(candidateService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/candidates", func(r chi.Router) {
			r.With(middleware.RequireAnyRole(logg, staff, finance, admin)).Get("/", controllers.CandidateList(candidateService, logg))
			r.Route("/{candidateID}", func(r chi.Router) {
				r.Get("/", controllers.CandidateGet(candidateService, logg))
				r.Patch("/", controllers.CandidateUpdateProfile(candidateService, logg))
				r.Route("/documents", func(r chi.Router) {
					r.Get("/", controllers.DocumentList(documentService, logg))
					r.Post("/", controllers.DocumentUpload(documentService, logg))
					r.Delete("/{documentID}", controllers.DocumentDelete(documentService, logg))
				})
				r.Post("/accept-offer", controllers.WorkflowAcceptOffer(workflowService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAnyRole(logg, staff, admin))
					r.Post("/transition", controllers.WorkflowTransition(workflowService, logg))
					r.Get("/transition-check", controllers.WorkflowCheck(workflowService, logg))
					r.Post("/review-documents", controllers.WorkflowReviewDocuments(workflowService, logg))
				})
			})
		})

		r.Route("/job-orders", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, staff, admin))
			r.Post("/", controllers.JobOrderCreate(jobOrderService, logg))
			r.Get("/", controllers.JobOrderList(jobOrderService, logg))
			r.Get("/{jobOrderID}", controllers.JobOrderGet(jobOrderService, logg))
			r.Patch("/{jobOrderID}/status", controllers.JobOrderUpdateStatus(jobOrderService, logg))
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, staff, admin))
			r.Post("/", controllers.AssignmentCreate(assignmentService, logg))
			r.Get("/", controllers.AssignmentList(assignmentService, logg))
			r.Post("/{assignmentID}/cancel", controllers.AssignmentCancel(assignmentService, logg))
			r.Post("/{assignmentID}/issue-offer", controllers.AssignmentIssueOffer(assignmentService, logg))
			r.Post("/{assignmentID}/confirm-placement", controllers.AssignmentConfirmPlacement(assignmentService, logg))
		})

		r.Route("/commission", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, finance, admin))
			r.Route("/agreements", func(r chi.Router) {
				r.Post("/", controllers.AgreementCreate(commissionService, logg))
				r.Route("/{agreementID}", func(r chi.Router) {
					r.Post("/sign", controllers.AgreementSign(commissionService, logg))
					r.Post("/cancel", controllers.AgreementCancel(commissionService, logg))
					r.Patch("/amounts", controllers.AgreementUpdateAmounts(commissionService, logg))
					r.Post("/downpayments", controllers.PaymentRecordDownpayment(commissionService, logg))
					r.Post("/installments", controllers.PaymentRecordInstallment(commissionService, logg))
				})
			})
			r.Get("/candidates/{candidateID}/agreements/{agreementID}/statement", controllers.AgreementStatement(commissionService, logg))
			r.Post("/payments/{paymentID}/reverse", controllers.PaymentReverse(commissionService, logg))
			r.Get("/assignments/{assignmentID}/payment-status", controllers.AssignmentPaymentStatus(commissionService, logg))
		})
	})

	return r
}
