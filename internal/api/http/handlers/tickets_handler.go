package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RandyMyers/mbzserver12-sub001/internal/api/dto"
	"github.com/RandyMyers/mbzserver12-sub001/internal/auth"
	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
	"github.com/RandyMyers/mbzserver12-sub001/internal/service"
	"github.com/RandyMyers/mbzserver12-sub001/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		OrganizationID: principal.OrganizationID,
		Subject:        req.Subject,
		Description:    req.Description,
		Category:       req.Category,
		Priority:       req.Priority,
		Customer: domain.Customer{
			Name:   req.Customer.Name,
			Email:  req.Customer.Email,
			Avatar: req.Customer.Avatar,
		},
	}
	ticket, err := h.service.Create(c.UserContext(), principal.UserID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	tickets, err := h.service.List(c.UserContext(), principal.OrganizationID)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"), principal.OrganizationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	patch := domain.TicketPatch{
		Subject:        req.Subject,
		Description:    req.Description,
		Category:       req.Category,
		Priority:       req.Priority,
		Status:         req.Status,
		OrganizationID: req.OrganizationID,
	}
	if req.Customer != nil {
		patch.Customer = &domain.Customer{
			Name:   req.Customer.Name,
			Email:  req.Customer.Email,
			Avatar: req.Customer.Avatar,
		}
	}
	ticket, err := h.service.Update(c.UserContext(), principal.UserID, c.Params("id"), principal.OrganizationID, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// AppendMessage POST /tickets/:id/messages.
func (h *TicketsHandler) AppendMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	var req dto.AppendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AppendMessage(c.UserContext(), principal.UserID, c.Params("id"), principal.OrganizationID, req.Sender, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ChangeStatus POST /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeStatus(c.UserContext(), principal.UserID, c.Params("id"), principal.OrganizationID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	if err := h.service.Delete(c.UserContext(), principal.UserID, c.Params("id"), principal.OrganizationID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:                ticket.ID,
		OrganizationID:    ticket.OrganizationID,
		Subject:           ticket.Subject,
		Category:          ticket.Category,
		Priority:          ticket.Priority,
		Status:            ticket.Status,
		Customer:          customerPayload(ticket.Customer),
		HasUnreadMessages: ticket.HasUnreadMessages,
		MessageCount:      len(ticket.Messages),
		CreatedAt:         ticket.CreatedAt,
		UpdatedAt:         ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetailResponse {
	messages := make([]dto.MessageResponse, 0, len(ticket.Messages))
	for _, msg := range ticket.Messages {
		messages = append(messages, dto.MessageResponse{
			ID:         msg.ID,
			Sender:     msg.Sender,
			Content:    msg.Content,
			Timestamp:  msg.Timestamp,
			ReadStatus: msg.ReadStatus,
		})
	}
	return dto.TicketDetailResponse{
		ID:                ticket.ID,
		OrganizationID:    ticket.OrganizationID,
		Subject:           ticket.Subject,
		Description:       ticket.Description,
		Category:          ticket.Category,
		Priority:          ticket.Priority,
		Status:            ticket.Status,
		Customer:          customerPayload(ticket.Customer),
		HasUnreadMessages: ticket.HasUnreadMessages,
		Messages:          messages,
		ChatIntegrations:  integrationResponses(ticket.ChatIntegrations),
		CreatedAt:         ticket.CreatedAt,
		UpdatedAt:         ticket.UpdatedAt,
	}
}

func customerPayload(customer domain.Customer) dto.CustomerPayload {
	return dto.CustomerPayload{
		Name:   customer.Name,
		Email:  customer.Email,
		Avatar: customer.Avatar,
	}
}
