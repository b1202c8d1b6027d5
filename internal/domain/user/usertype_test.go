package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserType(t *testing.T) {
	tests := []struct {
		input   string
		want    UserType
		wantErr bool
	}{
		{"ADMIN", TypeAdmin, false},
		{"EDITOR", TypeEditor, false},
		{"VIEWER", TypeViewer, false},
		{"admin", "", true},
		{"Admin", "", true},
		{"SUPERUSER", "", true},
		{"", "", true},
		{" ADMIN", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseUserType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserType_Valid(t *testing.T) {
	assert.True(t, TypeAdmin.Valid())
	assert.True(t, TypeEditor.Valid())
	assert.True(t, TypeViewer.Valid())
	assert.False(t, UserType("GUEST").Valid())
	assert.False(t, UserType("").Valid())
}
