package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/interfaces/http/middleware"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/interfaces/http/response"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/usecases"
)

// AdminHandler handles admin-only maintenance and user management
type AdminHandler struct {
	migrationUsecase *usecases.CardMigrationUsecase
	userUsecase      *usecases.UserUsecase
	importMaxBytes   int64
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(migrationUsecase *usecases.CardMigrationUsecase, userUsecase *usecases.UserUsecase, importMaxBytes int64) *AdminHandler {
	return &AdminHandler{
		migrationUsecase: migrationUsecase,
		userUsecase:      userUsecase,
		importMaxBytes:   importMaxBytes,
	}
}

// MigrateCardDetails runs the in-place legacy secret migration
// POST /api/v1/admin/migrate-card-details
func (h *AdminHandler) MigrateCardDetails(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	result, err := h.migrationUsecase.MigrateInPlaceSecrets(c.Request.Context(), actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success":       true,
		"migratedCount": result.MigratedCount,
		"skippedCount":  result.SkippedCount,
	})
}

// ImportCardDetails imports a JSON batch of card secret records
// uploaded as a multipart file
// POST /api/v1/admin/import-card-details
func (h *AdminHandler) ImportCardDetails(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("A JSON file upload is required"))
		return
	}
	if strings.ToLower(filepath.Ext(fileHeader.Filename)) != ".json" {
		response.Error(c, domainerrors.BadRequest("Only .json files are accepted"))
		return
	}
	if fileHeader.Size > h.importMaxBytes {
		response.Error(c, domainerrors.BadRequest("File exceeds the upload size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, domainerrors.InternalError(err))
		return
	}
	defer file.Close()

	var records []entities.ImportCardRecord
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		response.Error(c, domainerrors.BadRequest("File is not valid JSON"))
		return
	}

	result, err := h.migrationUsecase.ImportFromBatch(c.Request.Context(), actorID, records)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success":       true,
		"importedCount": result.ImportedCount,
		"skippedCount":  result.SkippedCount,
		"errorCount":    result.ErrorCount,
	})
}

// ListLenders returns all lender accounts
// GET /api/v1/auth/lenders
func (h *AdminHandler) ListLenders(c *gin.Context) {
	lenders, err := h.userUsecase.ListLenders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"lenders": lenders,
	})
}

// UpdateUser modifies any user account
// PUT /api/v1/auth/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user id"))
		return
	}

	var input entities.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, err := h.userUsecase.Update(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// DeleteUser permanently removes a user and their card record
// DELETE /api/v1/auth/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user id"))
		return
	}

	if err := h.userUsecase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted",
	})
}
