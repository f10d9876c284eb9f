package core

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "valid uuid",
			input: "b9c7f3a2-4f2e-4d6a-9a8b-1c2d3e4f5a6b",
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "not a uuid",
			input:   "user_12345",
			wantErr: true,
		},
		{
			name:    "truncated uuid",
			input:   "b9c7f3a2-4f2e-4d6a-9a8b",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, uuid.Nil, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
		})
	}
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, uuid.Nil, a)
}

func TestNewMessageID(t *testing.T) {
	id := NewMessageID()
	require.True(t, strings.HasPrefix(id, "generated-"))

	ulidPart := strings.TrimPrefix(id, "generated-")
	assert.Len(t, ulidPart, 26)
	assert.NotEqual(t, id, NewMessageID())
}
