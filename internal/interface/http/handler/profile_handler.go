package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/interface/http/dto"
	"github.com/ignatzorin/rental-backend/internal/interface/http/response"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rental-backend/internal/usecase/profile"
)

// multipartOverhead — запас на заголовки multipart поверх лимита файла.
const multipartOverhead = 1 << 20

type ProfileHandler struct {
	profiles       *profile.Service
	maxUploadBytes int64
}

func NewProfileHandler(profiles *profile.Service, maxUploadMB int64) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, maxUploadBytes: maxUploadMB << 20}
}

// GetTenant обрабатывает GET /tenants/me.
func (h *ProfileHandler) GetTenant(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	tenant, err := h.profiles.Tenant(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToTenantResponse(tenant))
}

// UpdateTenant обрабатывает PUT /tenants/me.
func (h *ProfileHandler) UpdateTenant(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.UpdateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, err := h.profiles.UpdateTenant(c.Request.Context(), actor, profile.UpdateTenantInput{
		Budget:            req.Budget,
		PreferredLocation: req.PreferredLocation,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToTenantResponse(tenant))
}

// UploadDocument обрабатывает POST /tenants/me/documents/:kind, файл в поле file.
func (h *ProfileHandler) UploadDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	kind, err := valueobject.NewDocumentKind(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, apperror.New(apperror.ErrCodePayloadTooLarge, "файл превышает допустимый размер"))
			return
		}
		response.Error(c, apperror.New(apperror.ErrCodeValidation, "файл не передан").WithDetail("fields", []string{"file"}))
		return
	}
	if header.Size > h.maxUploadBytes {
		response.Error(c, apperror.New(apperror.ErrCodePayloadTooLarge, "файл превышает допустимый размер"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, apperror.Dependency(err, "не удалось прочитать файл"))
		return
	}
	defer file.Close()

	tenant, err := h.profiles.UploadDocument(c.Request.Context(), actor, kind, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToTenantResponse(tenant))
}

// JoinGuarantee обрабатывает POST /landlords/me/guarantee.
func (h *ProfileHandler) JoinGuarantee(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	landlord, err := h.profiles.JoinGuarantee(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToLandlordResponse(landlord))
}

// SetVerification обрабатывает PATCH /admin/users/:id/verification.
func (h *ProfileHandler) SetVerification(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.SetVerificationRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := valueobject.NewVerificationStatus(req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.profiles.SetVerification(c.Request.Context(), actor, userID, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToUserResponse(user))
}
