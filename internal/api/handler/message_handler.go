package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/messagely/messaging-system/internal/core/domain"
	"github.com/messagely/messaging-system/internal/core/ports"
)

// MessageHandler serves single-message reads and writes. Participant checks
// live in the service; the handler only resolves the caller.
type MessageHandler struct {
	service ports.MessageService
}

func NewMessageHandler(service ports.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

func messageID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid message id")
	}
	return id, nil
}

func noSuchMessage(err error, id int64) error {
	if errors.Is(err, domain.ErrMessageNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("No such message: %d", id))
	}
	return err
}

// Get returns a message to its sender or recipient.
//
// @Summary      Get message
// @Tags         messages
// @Produce      json
// @Param        id      path      int     true  "Message id"
// @Param        _token  query     string  true  "Session token"
// @Success      200     {object}  messageResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /messages/{id} [get]
func (h *MessageHandler) Get(c echo.Context) error {
	caller, err := callerUsername(c)
	if err != nil {
		return err
	}
	id, err := messageID(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), caller, id)
	if err != nil {
		return noSuchMessage(err, id)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: detail})
}

// Create sends a message from the caller.
//
// @Summary      Send message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body      createMessageRequest  true  "Recipient and body; _token may be sent in the body"
// @Success      201   {object}  createdMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /messages [post]
func (h *MessageHandler) Create(c echo.Context) error {
	caller, err := callerUsername(c)
	if err != nil {
		return err
	}

	var req createMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.service.Create(c.Request().Context(), ports.CreateMessageInput{
		FromUsername: caller,
		ToUsername:   req.ToUsername,
		Body:         req.Body,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("No such user: %s", req.ToUsername))
		}
		return err
	}

	return c.JSON(http.StatusCreated, createdMessageResponse{Message: createdMessage{
		ID:           msg.ID,
		FromUsername: msg.FromUsername,
		ToUsername:   msg.ToUsername,
		Body:         msg.Body,
		SentAt:       msg.SentAt,
	}})
}

// MarkRead marks a message read on behalf of its recipient.
//
// @Summary      Mark message read
// @Tags         messages
// @Produce      json
// @Param        id      path      int     true  "Message id"
// @Param        _token  query     string  true  "Session token"
// @Success      200     {object}  messageReadResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /messages/{id}/read [post]
func (h *MessageHandler) MarkRead(c echo.Context) error {
	caller, err := callerUsername(c)
	if err != nil {
		return err
	}
	id, err := messageID(c)
	if err != nil {
		return err
	}

	read, err := h.service.MarkRead(c.Request().Context(), caller, id)
	if err != nil {
		return noSuchMessage(err, id)
	}
	return c.JSON(http.StatusOK, messageReadResponse{MessageRead: read})
}
