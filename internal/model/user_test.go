package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceActive(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    ActiveFlag
		wantErr bool
	}{
		{name: "number zero", input: float64(0), want: Inactive},
		{name: "number one", input: float64(1), want: Active},
		{name: "string zero", input: "0", want: Inactive},
		{name: "string one", input: "1", want: Active},
		{name: "number two", input: float64(2), wantErr: true},
		{name: "negative number", input: float64(-1), wantErr: true},
		{name: "textual yes", input: "yes", wantErr: true},
		{name: "boolean", input: true, wantErr: true},
		{name: "nil", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceActive(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestActiveFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    ActiveFlag
		wantErr bool
	}{
		{name: "number one", raw: `{"activo": 1}`, want: Active},
		{name: "string zero", raw: `{"activo": "0"}`, want: Inactive},
		{name: "number two", raw: `{"activo": 2}`, wantErr: true},
		{name: "textual", raw: `{"activo": "si"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst struct {
				Active ActiveFlag `json:"activo"`
			}
			err := json.Unmarshal([]byte(tt.raw), &dst)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, dst.Active)
			}
		})
	}
}

func TestUserJSONNeverExposesPassword(t *testing.T) {
	user := User{
		ID:           1,
		Name:         "Ana",
		Email:        "ana@x.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         RoleCliente,
		Active:       Active,
	}

	payload, err := json.Marshal(user)
	assert.NoError(t, err)
	assert.NotContains(t, string(payload), "password")
	assert.NotContains(t, string(payload), user.PasswordHash)
	assert.Contains(t, string(payload), `"nombre":"Ana"`)
	assert.Contains(t, string(payload), `"activo":1`)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleCliente))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("root"))
	assert.False(t, ValidRole(""))
}
