package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/domain/service"
	"github.com/ignatzorin/rental-backend/internal/interface/http/dto"
	"github.com/ignatzorin/rental-backend/internal/interface/http/response"
	"github.com/ignatzorin/rental-backend/internal/usecase/rating"
)

// TrustScoreReader отдаёт оценку доверия, при наличии из кэша.
type TrustScoreReader interface {
	Get(ctx context.Context, userID uuid.UUID) (*service.TrustScore, error)
}

type TrustHandler struct {
	scores  TrustScoreReader
	ratings *rating.Service
}

func NewTrustHandler(scores TrustScoreReader, ratings *rating.Service) *TrustHandler {
	return &TrustHandler{scores: scores, ratings: ratings}
}

// GetTrustScore обрабатывает GET /users/:id/trust-score.
func (h *TrustHandler) GetTrustScore(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	score, err := h.scores.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, score)
}

// Rate обрабатывает POST /applications/:id/ratings.
func (h *TrustHandler) Rate(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateRatingRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.ratings.Rate(c.Request.Context(), rating.RateInput{
		Actor:         actor,
		ApplicationID: applicationID,
		Score:         req.Score,
		Comment:       req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToRatingResponse(created))
}

// ListRatings обрабатывает GET /users/:id/ratings.
func (h *TrustHandler) ListRatings(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	items, err := h.ratings.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dto.ToRatingsResponse(items), len(items), limit, offset)
}
