package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "usuarios/internal/errors"
	"usuarios/internal/service"
)

// SeedHandler handles demo data endpoints.
type SeedHandler struct {
	userService service.UserService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(userService service.UserService) *SeedHandler {
	return &SeedHandler{userService: userService}
}

// SeedUsersResponse represents the seed response.
type SeedUsersResponse struct {
	Message string `json:"message"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

// demoUsers are the fixtures inserted by the seed endpoint. Existing emails
// are skipped, so the endpoint is safe to call repeatedly.
var demoUsers = []service.CreateUserInput{
	{Name: "Ana García", Email: "ana@example.com", Password: "secret1"},
	{Name: "Luis Pérez", Email: "luis@example.com", Password: "secret2"},
	{Name: "María López", Email: "maria@example.com", Password: "secret3", Role: "admin"},
}

// SeedUsers godoc
// @Summary Seed demo usuarios
// @Tags seed
// @Produce json
// @Success 200 {object} SeedUsersResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/usuarios [get]
func (h *SeedHandler) SeedUsers(c echo.Context) error {
	created, skipped := 0, 0
	for _, in := range demoUsers {
		_, err := h.userService.CreateUser(c.Request().Context(), in)
		if err != nil {
			var conflict *apperrors.ConflictError
			if errors.As(err, &conflict) {
				skipped++
				continue
			}
			return c.JSON(http.StatusInternalServerError, apperrors.ErrorResponse{
				Error: "error al cargar los usuarios de prueba",
			})
		}
		created++
	}
	return c.JSON(http.StatusOK, SeedUsersResponse{
		Message: "usuarios de prueba cargados",
		Created: created,
		Skipped: skipped,
	})
}
