package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/RandyMyers/mbzserver12-sub001/internal/api/dto"
	"github.com/RandyMyers/mbzserver12-sub001/internal/auth"
	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
	"github.com/RandyMyers/mbzserver12-sub001/internal/service"
	"github.com/RandyMyers/mbzserver12-sub001/pkg/util"
)

// IntegrationsHandler manages chat-integration endpoints.
type IntegrationsHandler struct {
	service *service.IntegrationService
}

// NewIntegrationsHandler constructs handler.
func NewIntegrationsHandler(integrationService *service.IntegrationService) *IntegrationsHandler {
	return &IntegrationsHandler{service: integrationService}
}

// AddIntegration POST /integrations.
func (h *IntegrationsHandler) AddIntegration(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	input, err := parseIntegrationBody(c)
	if err != nil {
		return err
	}
	list, err := h.service.Add(c.UserContext(), principal.UserID, principal.OrganizationID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": integrationResponses(list)})
}

// ListIntegrations GET /integrations.
func (h *IntegrationsHandler) ListIntegrations(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	list, err := h.service.List(c.UserContext(), principal.OrganizationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": integrationResponses(list)})
}

// UpdateIntegration PUT /integrations/:id.
func (h *IntegrationsHandler) UpdateIntegration(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	input, err := parseIntegrationBody(c)
	if err != nil {
		return err
	}
	list, err := h.service.UpdateByID(c.UserContext(), principal.UserID, principal.OrganizationID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": integrationResponses(list)})
}

// RemoveIntegration DELETE /integrations/:id.
func (h *IntegrationsHandler) RemoveIntegration(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	list, err := h.service.RemoveByID(c.UserContext(), principal.UserID, principal.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": integrationResponses(list)})
}

// UpdateIntegrationAt PUT /integrations/at/:index. Positional addressing is
// a compatibility mode; indexes shift on removal.
func (h *IntegrationsHandler) UpdateIntegrationAt(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	index, err := parseIndex(c)
	if err != nil {
		return err
	}
	input, err := parseIntegrationBody(c)
	if err != nil {
		return err
	}
	list, err := h.service.UpdateAt(c.UserContext(), principal.UserID, principal.OrganizationID, index, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": integrationResponses(list)})
}

// RemoveIntegrationAt DELETE /integrations/at/:index.
func (h *IntegrationsHandler) RemoveIntegrationAt(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	index, err := parseIndex(c)
	if err != nil {
		return err
	}
	list, err := h.service.RemoveAt(c.UserContext(), principal.UserID, principal.OrganizationID, index)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": integrationResponses(list)})
}

func parseIntegrationBody(c *fiber.Ctx) (service.IntegrationInput, error) {
	var req dto.IntegrationRequest
	if err := c.BodyParser(&req); err != nil {
		return service.IntegrationInput{}, util.NewValidationError("invalid payload", nil)
	}
	return service.IntegrationInput{
		Provider:   req.Provider,
		APIKey:     req.APIKey,
		WidgetID:   req.WidgetID,
		PropertyID: req.PropertyID,
		Config:     req.Config,
		IsActive:   req.IsActive,
		Status:     req.Status,
	}, nil
}

func parseIndex(c *fiber.Ctx) (int, error) {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return 0, util.NewValidationError("invalid index", map[string]any{"index": c.Params("index")})
	}
	return index, nil
}

func integrationResponses(list []domain.ChatIntegration) []dto.IntegrationResponse {
	resp := make([]dto.IntegrationResponse, 0, len(list))
	for _, integ := range list {
		resp = append(resp, dto.IntegrationResponse{
			ID:         integ.ID,
			Provider:   integ.Provider,
			APIKey:     integ.APIKey,
			WidgetID:   integ.WidgetID,
			PropertyID: integ.PropertyID,
			Config:     integ.Config,
			IsActive:   integ.IsActive,
			Status:     integ.Status,
		})
	}
	return resp
}
