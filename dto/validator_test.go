package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{
			name:    "valid",
			req:     RegisterRequest{Email: "ada@example.com", NickName: "ada_l", Password: "Secret123"},
			wantErr: false,
		},
		{
			name:    "bad email",
			req:     RegisterRequest{Email: "not-an-email", NickName: "ada_l", Password: "Secret123"},
			wantErr: true,
		},
		{
			name:    "password too short",
			req:     RegisterRequest{Email: "ada@example.com", NickName: "ada_l", Password: "Ab1"},
			wantErr: true,
		},
		{
			name:    "password missing uppercase",
			req:     RegisterRequest{Email: "ada@example.com", NickName: "ada_l", Password: "secret123"},
			wantErr: true,
		},
		{
			name:    "password missing number",
			req:     RegisterRequest{Email: "ada@example.com", NickName: "ada_l", Password: "SecretWord"},
			wantErr: true,
		},
		{
			name:    "nickname with spaces",
			req:     RegisterRequest{Email: "ada@example.com", NickName: "ada lovelace", Password: "Secret123"},
			wantErr: true,
		},
		{
			name:    "nickname with symbols",
			req:     RegisterRequest{Email: "ada@example.com", NickName: "ada!", Password: "Secret123"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecuteRequestModeValidation(t *testing.T) {
	valid := ExecuteRequest{Mode: ExecuteModeRunCode, Code: "print(1)"}
	assert.NoError(t, valid.Validate())

	invalid := ExecuteRequest{Mode: "compile", Code: "print(1)"}
	assert.Error(t, invalid.Validate())
}

func TestCreateValidationErrorResponse(t *testing.T) {
	req := RegisterRequest{Email: "nope", NickName: "ok_name", Password: "Secret123"}
	err := req.Validate()
	require.Error(t, err)

	resp := CreateValidationErrorResponse(err)

	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, "Validation failed", resp.Message)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "Email", resp.Errors[0].Field)
}
