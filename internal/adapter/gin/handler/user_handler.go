package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	domain "user-directory-service/internal/domain/user"
	"user-directory-service/internal/usecase/user"
	apperrors "user-directory-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// birthDateLayout is the wire format for the birthDate field.
const birthDateLayout = "2006-01-02"

// UserHandler handles HTTP requests for user directory operations.
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserRequest represents the HTTP request body for creating or updating a
// user. Field rules are enforced by the usecase, not by binding tags, so
// the envelope always carries the core's own messages.
type UserRequest struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birthDate"`
	UserType  string `json:"userType"`
}

// UserResponse represents a user record on the wire.
type UserResponse struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birthDate"`
	UserType  string `json:"userType"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		BirthDate: u.BirthDate.Format(birthDateLayout),
		UserType:  u.UserType.String(),
	}
}

// toInput shapes a wire request into the usecase input. An unparseable
// birthDate is reported here; an empty one is left to the usecase's
// required-field rule.
func (h *UserHandler) toInput(req UserRequest) (user.UserInput, error) {
	in := user.UserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		UserType: domain.UserType(req.UserType),
	}

	if req.BirthDate != "" {
		birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
		if err != nil {
			return user.UserInput{}, apperrors.NewValidationError("BirthDate",
				"BirthDate must be a valid date in YYYY-MM-DD format")
		}
		in.BirthDate = birthDate
	}

	return in, nil
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create user request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorEnvelope("request body must be valid JSON"))
		return
	}

	in, err := h.toInput(req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	created, err := h.uc.CreateUser(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DataEnvelope(toUserResponse(created)))
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	u, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DataEnvelope(toUserResponse(u)))
}

// ListUsers handles GET /api/users. An empty directory is a distinct
// outcome: 204 with no body, never an empty-envelope success.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	if len(users) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = toUserResponse(&users[i])
	}

	// The whole list is one envelope element.
	c.JSON(http.StatusOK, DataEnvelope(items))
}

// UpdateUser handles PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update user request body", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorEnvelope("request body must be valid JSON"))
		return
	}

	in, err := h.toInput(req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	updated, err := h.uc.UpdateUser(c.Request.Context(), id, in)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DataEnvelope(toUserResponse(updated)))
}

// DeleteUser handles DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DataEnvelope("user has been deleted"))
}

// parseID extracts the numeric id path parameter, writing the error
// envelope itself when the value is malformed.
func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.log.Warn("invalid user id", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorEnvelope("user id must be a valid number"))
		return 0, false
	}
	return id, true
}

// handleError converts usecase errors to HTTP responses. The status code
// comes from the error's own mapping; the envelope body is the contract.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var statuser apperrors.HTTPStatuser
	if errors.As(err, &statuser) {
		status = statuser.HTTPStatus()
	}

	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.Error(err))
	}

	c.JSON(status, ErrorEnvelope(err.Error()))
}
