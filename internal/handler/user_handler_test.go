package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "usuarios/internal/errors"
	"usuarios/internal/model"
	"usuarios/internal/service"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, in service.CreateUserInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id uint, in service.UpdateUserInput) (map[string]interface{}, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUserHandler_GetUser(t *testing.T) {
	t.Run("non numeric id is not found", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc)

		c, rec := newContext(t, http.MethodGet, "/api/usuarios/abc", "")
		c.SetParamNames("id")
		c.SetParamValues("abc")

		assert.NoError(t, h.GetUser(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"usuario no encontrado"}`, rec.Body.String())
		svc.AssertNotCalled(t, "GetUser")
	})

	t.Run("unknown id uses the message key", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("GetUser", mock.Anything, uint(9)).Return(nil, apperrors.ErrUserNotFound)
		h := NewUserHandler(svc)

		c, rec := newContext(t, http.MethodGet, "/api/usuarios/9", "")
		c.SetParamNames("id")
		c.SetParamValues("9")

		assert.NoError(t, h.GetUser(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"usuario no encontrado"}`, rec.Body.String())
	})

	t.Run("store failure surfaces the error key", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("GetUser", mock.Anything, uint(9)).Return(nil, errors.New("connection reset"))
		h := NewUserHandler(svc)

		c, rec := newContext(t, http.MethodGet, "/api/usuarios/9", "")
		c.SetParamNames("id")
		c.SetParamValues("9")

		assert.NoError(t, h.GetUser(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"connection reset"}`, rec.Body.String())
	})
}

func TestUserHandler_ListUsers(t *testing.T) {
	t.Run("empty table yields an empty array", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("ListUsers", mock.Anything).Return([]model.User(nil), nil)
		h := NewUserHandler(svc)

		c, rec := newContext(t, http.MethodGet, "/api/usuarios", "")
		assert.NoError(t, h.ListUsers(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestUserHandler_CreateUser(t *testing.T) {
	t.Run("created response echoes fields without password", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("CreateUser", mock.Anything, mock.AnythingOfType("service.CreateUserInput")).Return(&model.User{
			ID:           12,
			Name:         "Ana",
			Email:        "ana@x.com",
			PasswordHash: "$2a$10$hash",
			Role:         model.RoleCliente,
			Active:       model.Active,
		}, nil)
		h := NewUserHandler(svc)

		c, rec := newContext(t, http.MethodPost, "/api/usuarios",
			`{"nombre":"Ana","email":"ana@x.com","password":"secret1"}`)

		assert.NoError(t, h.CreateUser(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var body map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(12), body["id"])
		assert.Equal(t, "Ana", body["nombre"])
		assert.Equal(t, "ana@x.com", body["email"])
		assert.Equal(t, "cliente", body["rol"])
		assert.Equal(t, float64(1), body["activo"])
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "creado_en")
	})

	t.Run("validation failure is a bad request", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("CreateUser", mock.Anything, mock.AnythingOfType("service.CreateUserInput")).
			Return(nil, apperrors.NewValidation("el nombre es obligatorio"))
		h := NewUserHandler(svc)

		c, rec := newContext(t, http.MethodPost, "/api/usuarios", `{"email":"ana@x.com","password":"secret1"}`)

		assert.NoError(t, h.CreateUser(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"el nombre es obligatorio"}`, rec.Body.String())
	})

	t.Run("store failure hides the detail", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("CreateUser", mock.Anything, mock.AnythingOfType("service.CreateUserInput")).
			Return(nil, errors.New("Error 1205: lock wait timeout"))
		h := NewUserHandler(svc)

		c, rec := newContext(t, http.MethodPost, "/api/usuarios",
			`{"nombre":"Ana","email":"ana@x.com","password":"secret1"}`)

		assert.NoError(t, h.CreateUser(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"error al guardar el usuario"}`, rec.Body.String())
	})
}

func TestUserHandler_UpdateUser(t *testing.T) {
	t.Run("returns only the updated fields", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("UpdateUser", mock.Anything, uint(3), mock.AnythingOfType("service.UpdateUserInput")).
			Return(map[string]interface{}{"rol": "admin"}, nil)
		h := NewUserHandler(svc)

		c, rec := newContext(t, http.MethodPatch, "/api/usuarios/3", `{"rol":"admin"}`)
		c.SetParamNames("id")
		c.SetParamValues("3")

		assert.NoError(t, h.UpdateUser(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"rol":"admin"}`, rec.Body.String())
	})

	t.Run("empty payload is a bad request", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("UpdateUser", mock.Anything, uint(3), mock.AnythingOfType("service.UpdateUserInput")).
			Return(nil, apperrors.NewValidation("debe enviar al menos un campo para actualizar"))
		h := NewUserHandler(svc)

		c, rec := newContext(t, http.MethodPatch, "/api/usuarios/3", `{}`)
		c.SetParamNames("id")
		c.SetParamValues("3")

		assert.NoError(t, h.UpdateUser(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"debe enviar al menos un campo para actualizar"}`, rec.Body.String())
	})
}

func TestUserHandler_DeleteUser(t *testing.T) {
	t.Run("no content on success", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("DeleteUser", mock.Anything, uint(4)).Return(nil)
		h := NewUserHandler(svc)

		c, rec := newContext(t, http.MethodDelete, "/api/usuarios/4", "")
		c.SetParamNames("id")
		c.SetParamValues("4")

		assert.NoError(t, h.DeleteUser(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("DeleteUser", mock.Anything, uint(4)).Return(apperrors.ErrUserNotFound)
		h := NewUserHandler(svc)

		c, rec := newContext(t, http.MethodDelete, "/api/usuarios/4", "")
		c.SetParamNames("id")
		c.SetParamValues("4")

		assert.NoError(t, h.DeleteUser(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"usuario no encontrado"}`, rec.Body.String())
	})
}
