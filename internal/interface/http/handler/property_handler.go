package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/rental-backend/internal/interface/http/dto"
	"github.com/ignatzorin/rental-backend/internal/interface/http/response"
	"github.com/ignatzorin/rental-backend/internal/usecase/property"
)

type PropertyHandler struct {
	properties *property.Service
}

func NewPropertyHandler(properties *property.Service) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

func (h *PropertyHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.CreatePropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.properties.Create(c.Request.Context(), property.CreateInput{
		Actor:    actor,
		Title:    req.Title,
		City:     req.City,
		Address:  req.Address,
		Price:    req.Price,
		Currency: req.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToPropertyResponse(created))
}

func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	found, err := h.properties.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToPropertyResponse(found))
}

func (h *PropertyHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	items, err := h.properties.ListActive(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dto.ToPropertiesResponse(items), len(items), limit, offset)
}
