package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/services"
)

const maxMaterialSizeBytes = 25 * 1024 * 1024

type materialApplicationService interface {
	CreateMaterial(
		ctx context.Context,
		tutorID int64,
		input services.CreateMaterialInput,
	) (*models.Material, error)
	ListMaterials(ctx context.Context, actorID int64, role string) ([]models.Material, error)
	GetMaterial(
		ctx context.Context,
		actorID int64,
		role string,
		materialID int64,
	) (*models.Material, error)
	GetDownloadURL(ctx context.Context, actorID int64, role string, materialID int64) (string, error)
}

type materialResponse struct {
	ID          int64     `json:"id"`
	TutorID     int64     `json:"tutor_id"`
	StudentID   int64     `json:"student_id"`
	SessionID   *int64    `json:"session_id,omitempty"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type MaterialHandler struct {
	service materialApplicationService
}

func NewMaterialHandler(service materialApplicationService) *MaterialHandler {
	return &MaterialHandler{service: service}
}

func (h *MaterialHandler) CreateMaterial(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != domain.RoleTutor {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	tutorID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	studentID, err := strconv.ParseInt(strings.TrimSpace(c.FormValue("student_id")), 10, 64)
	if err != nil || studentID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "student_id must be a positive integer"})
	}

	var sessionID *int64
	if raw := strings.TrimSpace(c.FormValue("session_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "session_id must be a positive integer"})
		}
		sessionID = &parsed
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	var description *string
	if rawDescription := c.FormValue("description"); rawDescription != "" {
		description = &rawDescription
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is empty"})
	}
	if fileHeader.Size > maxMaterialSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file exceeds 25MB limit"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to open file"})
	}
	defer file.Close()

	material, err := h.service.CreateMaterial(c.Context(), tutorID, services.CreateMaterialInput{
		StudentID:   studentID,
		SessionID:   sessionID,
		Title:       title,
		Description: description,
		File:        file,
		Filename:    fileHeader.Filename,
	})
	if err != nil {
		return mapMaterialError(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"material": newMaterialResponse(material)})
}

func (h *MaterialHandler) ListMaterials(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != domain.RoleStudent && role != domain.RoleTutor) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	materials, err := h.service.ListMaterials(c.Context(), actorID, role)
	if err != nil {
		return mapMaterialError(c, err)
	}

	return c.JSON(fiber.Map{"materials": newMaterialResponses(materials)})
}

func (h *MaterialHandler) GetMaterial(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || !domain.ValidRole(role) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	materialID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || materialID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid material id"})
	}

	material, err := h.service.GetMaterial(c.Context(), actorID, role, materialID)
	if err != nil {
		return mapMaterialError(c, err)
	}

	return c.JSON(fiber.Map{"material": newMaterialResponse(material)})
}

func (h *MaterialHandler) DownloadMaterial(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || !domain.ValidRole(role) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	materialID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || materialID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid material id"})
	}

	signedURL, err := h.service.GetDownloadURL(c.Context(), actorID, role, materialID)
	if err != nil {
		return mapMaterialError(c, err)
	}

	return c.JSON(fiber.Map{
		"download_url":       signedURL,
		"expires_in_seconds": services.SignedURLExpirySeconds,
	})
}

func mapMaterialError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrStudentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	case errors.Is(err, services.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"error": "Storage service is not configured"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "Material or related resource not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process material request"})
	}
}

func newMaterialResponse(material *models.Material) *materialResponse {
	if material == nil {
		return nil
	}
	return &materialResponse{
		ID:          material.ID,
		TutorID:     material.TutorID,
		StudentID:   material.StudentID,
		SessionID:   material.SessionID,
		Title:       material.Title,
		Description: material.Description,
		CreatedAt:   material.CreatedAt,
	}
}

func newMaterialResponses(materials []models.Material) []materialResponse {
	if len(materials) == 0 {
		return []materialResponse{}
	}
	responses := make([]materialResponse, 0, len(materials))
	for i := range materials {
		material := materials[i]
		responses = append(responses, materialResponse{
			ID:          material.ID,
			TutorID:     material.TutorID,
			StudentID:   material.StudentID,
			SessionID:   material.SessionID,
			Title:       material.Title,
			Description: material.Description,
			CreatedAt:   material.CreatedAt,
		})
	}
	return responses
}
