package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/rental-backend/internal/interface/http/dto"
	"github.com/ignatzorin/rental-backend/internal/interface/http/response"
	"github.com/ignatzorin/rental-backend/internal/usecase/application"
)

type ApplicationHandler struct {
	submitUC       *application.SubmitApplicationUseCase
	approveUC      *application.ApproveApplicationUseCase
	rejectUC       *application.RejectApplicationUseCase
	startReviewUC  *application.StartReviewUseCase
	listTenantUC   *application.ListTenantApplicationsUseCase
	listPropertyUC *application.ListPropertyApplicationsUseCase
	getUC          *application.GetApplicationUseCase
}

func NewApplicationHandler(deps application.Deps) *ApplicationHandler {
	return &ApplicationHandler{
		submitUC:       application.NewSubmitApplicationUseCase(deps),
		approveUC:      application.NewApproveApplicationUseCase(deps),
		rejectUC:       application.NewRejectApplicationUseCase(deps),
		startReviewUC:  application.NewStartReviewUseCase(deps),
		listTenantUC:   application.NewListTenantApplicationsUseCase(deps),
		listPropertyUC: application.NewListPropertyApplicationsUseCase(deps),
		getUC:          application.NewGetApplicationUseCase(deps),
	}
}

// Submit обрабатывает POST /applications.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.SubmitApplicationRequest
	if !bindJSON(c, &req) {
		return
	}

	// роль проверяется раньше тела запроса, поэтому тело разбираем только у арендатора
	in := application.SubmitInput{Actor: actor, Message: req.Message}
	if actor.Role.IsTenant() {
		propertyID, err := dto.ParsePropertyID(req.PropertyID)
		if err != nil {
			response.Error(c, err)
			return
		}
		moveIn, err := dto.ParseMoveInDate(req.ProposedMoveInDate)
		if err != nil {
			response.Error(c, err)
			return
		}
		in.PropertyID = propertyID
		in.ProposedMoveInDate = moveIn
	}

	out, err := h.submitUC.Execute(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.ToSubmitApplicationResponse(out.Application, out.Transaction)
	response.Fields(c, gin.H{"application": resp.Application, "transaction": resp.Transaction})
}

// Approve обрабатывает PATCH /applications/:id/approve.
func (h *ApplicationHandler) Approve(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	app, err := h.approveUC.Execute(c.Request.Context(), application.ApproveInput{Actor: actor, ApplicationID: id})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Fields(c, gin.H{"application": dto.ToDecisionResponse(app)})
}

// Reject обрабатывает PATCH /applications/:id/reject.
func (h *ApplicationHandler) Reject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.RejectApplicationRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.rejectUC.Execute(c.Request.Context(), application.RejectInput{
		Actor:         actor,
		ApplicationID: id,
		Reason:        req.Reason,
		ReasonCode:    req.ReasonCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Fields(c, gin.H{"application": dto.ToDecisionResponse(app)})
}

// StartReview обрабатывает PATCH /applications/:id/review.
func (h *ApplicationHandler) StartReview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	app, err := h.startReviewUC.Execute(c.Request.Context(), application.StartReviewInput{Actor: actor, ApplicationID: id})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Fields(c, gin.H{"application": dto.ToDecisionResponse(app)})
}

// ListMine обрабатывает GET /applications.
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	views, err := h.listTenantUC.Execute(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Fields(c, gin.H{"applications": dto.ToTenantApplicationsResponse(views)})
}

// ListForProperty обрабатывает GET /properties/:id/applications.
func (h *ApplicationHandler) ListForProperty(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	propertyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	views, err := h.listPropertyUC.Execute(c.Request.Context(), actor, propertyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Fields(c, gin.H{"applications": dto.ToApplicantsResponse(views)})
}

// Get обрабатывает GET /applications/:id.
func (h *ApplicationHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	out, err := h.getUC.Execute(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Fields(c, gin.H{"application": dto.ToApplicationResponse(out.Application, out.Transaction)})
}
