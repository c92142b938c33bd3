package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "usuarios/internal/errors"
	"usuarios/internal/logger"
	"usuarios/internal/model"
	"usuarios/internal/service"
)

// saveUserError is the fixed message for unexpected persistence failures on
// the write paths; the real cause is logged, never sent to the client.
const saveUserError = "error al guardar el usuario"

// UserHandler bundles the usuarios HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// parseID reads the path id. A non-numeric id can never match a row, so the
// caller treats a parse failure the same as an unknown id.
func parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (h *UserHandler) respondError(c echo.Context, err error, hideDetail bool) error {
	httpErr := apperrors.MapErrorToHTTP(err, hideDetail, saveUserError)
	if httpErr.StatusCode == http.StatusInternalServerError {
		logger.Get().Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg("usuarios request failed")
	}
	return c.JSON(httpErr.StatusCode, httpErr.Body)
}

func (h *UserHandler) notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, apperrors.NotFoundResponse{
		Message: apperrors.ErrUserNotFound.Error(),
	})
}

// ListUsers godoc
// @Summary List usuarios
// @Tags usuarios
// @Produce json
// @Success 200 {array} model.User
// @Failure 500 {object} errors.ErrorResponse
// @Router /usuarios [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return h.respondError(c, err, false)
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get usuario by id
// @Tags usuarios
// @Produce json
// @Param id path int true "Usuario ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.NotFoundResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /usuarios/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return h.notFound(c)
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err, false)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser godoc
// @Summary Create usuario
// @Tags usuarios
// @Accept json
// @Produce json
// @Param usuario body service.CreateUserInput true "Usuario payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /usuarios [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var in service.CreateUserInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "cuerpo de la petición no válido",
		})
	}
	user, err := h.svc.CreateUser(c.Request().Context(), in)
	if err != nil {
		return h.respondError(c, err, true)
	}
	// The creation response echoes the fields sent, never the timestamp and
	// never the password.
	return c.JSON(http.StatusCreated, echo.Map{
		"id":     user.ID,
		"nombre": user.Name,
		"email":  user.Email,
		"rol":    user.Role,
		"activo": user.Active,
	})
}

// UpdateUser godoc
// @Summary Partially update usuario
// @Tags usuarios
// @Accept json
// @Produce json
// @Param id path int true "Usuario ID"
// @Param usuario body service.UpdateUserInput true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.NotFoundResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /usuarios/{id} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return h.notFound(c)
	}
	var in service.UpdateUserInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "cuerpo de la petición no válido",
		})
	}
	updated, err := h.svc.UpdateUser(c.Request().Context(), id, in)
	if err != nil {
		return h.respondError(c, err, true)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteUser godoc
// @Summary Delete usuario
// @Tags usuarios
// @Param id path int true "Usuario ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.NotFoundResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /usuarios/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return h.notFound(c)
	}
	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return h.respondError(c, err, false)
	}
	return c.NoContent(http.StatusNoContent)
}
