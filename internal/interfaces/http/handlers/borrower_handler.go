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

// BorrowerHandler handles borrower profile endpoints
type BorrowerHandler struct {
	borrowerUsecase *usecases.BorrowerUsecase
}

// NewBorrowerHandler creates a new borrower handler
func NewBorrowerHandler(borrowerUsecase *usecases.BorrowerUsecase) *BorrowerHandler {
	return &BorrowerHandler{
		borrowerUsecase: borrowerUsecase,
	}
}

func actorFromContext(c *gin.Context) (uuid.UUID, string, bool) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		return uuid.Nil, "", false
	}
	role, _ := middleware.GetUserRole(c)
	return actorID, role, true
}

// Create registers a borrower for the acting lender or admin
// POST /api/v1/borrowers
func (h *BorrowerHandler) Create(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.CreateBorrowerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	borrower, err := h.borrowerUsecase.Create(c.Request.Context(), actorID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"success":  true,
		"borrower": borrower,
	})
}

// List returns the borrowers visible to the acting user
// GET /api/v1/borrowers
func (h *BorrowerHandler) List(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	borrowers, err := h.borrowerUsecase.List(c.Request.Context(), actorID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success":   true,
		"borrowers": borrowers,
	})
}

// Get returns one borrower
// GET /api/v1/borrowers/:id
func (h *BorrowerHandler) Get(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	borrowerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid borrower id"))
		return
	}

	borrower, err := h.borrowerUsecase.Get(c.Request.Context(), actorID, role, borrowerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success":  true,
		"borrower": borrower,
	})
}

// Update modifies a borrower profile
// PUT /api/v1/borrowers/:id
func (h *BorrowerHandler) Update(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	borrowerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid borrower id"))
		return
	}

	var input entities.UpdateBorrowerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	borrower, err := h.borrowerUsecase.Update(c.Request.Context(), actorID, role, borrowerID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success":  true,
		"borrower": borrower,
	})
}

// Delete deactivates a borrower, or removes the account permanently
// when the caller confirms
// DELETE /api/v1/borrowers/:id?confirmation=delete
func (h *BorrowerHandler) Delete(c *gin.Context) {
	actorID, role, ok := actorFromContext(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	borrowerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid borrower id"))
		return
	}

	permanent := c.Query("confirmation") == "delete"
	if err := h.borrowerUsecase.Delete(c.Request.Context(), actorID, role, borrowerID, permanent); err != nil {
		response.Error(c, err)
		return
	}

	message := "Borrower deactivated"
	if permanent {
		message = "Borrower permanently deleted"
	}
	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}
