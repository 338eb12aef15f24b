package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/interfaces/http/middleware"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/interfaces/http/response"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/usecases"
)

// RevealTokenHeader carries the single-use token issued by
// verify-password
const RevealTokenHeader = "X-Reveal-Token"

// CardDetailHandler handles the reveal and verification endpoints
type CardDetailHandler struct {
	cardUsecase *usecases.CardDetailUsecase
}

// NewCardDetailHandler creates a new card detail handler
func NewCardDetailHandler(cardUsecase *usecases.CardDetailUsecase) *CardDetailHandler {
	return &CardDetailHandler{
		cardUsecase: cardUsecase,
	}
}

// GetBorrowerCardDetails returns a borrower's card details. The secret
// fields are plaintext only when a valid reveal token accompanies the
// request; otherwise they are empty placeholders.
// GET /api/v1/auth/borrower-card-details/:id
func (h *CardDetailHandler) GetBorrowerCardDetails(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}
	actorRole, _ := middleware.GetUserRole(c)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid borrower id"))
		return
	}

	ticket := c.GetHeader(RevealTokenHeader)

	view, err := h.cardUsecase.Reveal(c.Request.Context(), actorID, actorRole, targetID, ticket)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

// VerifyCardDetails checks a candidate value against the stored secret
// POST /api/v1/auth/verify-card-details
func (h *CardDetailHandler) VerifyCardDetails(c *gin.Context) {
	var input entities.VerifyCardDetailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	match, err := h.cardUsecase.VerifyCardDetail(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"isMatch": match,
	})
}
