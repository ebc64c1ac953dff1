package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/runvoy/cfnopts/internal/errors"
)

func TestSigningProfilesDecoder_Decode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected map[string]SigningProfile
	}{
		{
			name:     "empty",
			args:     []string{""},
			expected: map[string]SigningProfile{},
		},
		{
			name:     "profile and owner",
			args:     []string{"MyFn=MyProfile:MyOwner"},
			expected: map[string]SigningProfile{"MyFn": {ProfileName: "MyProfile", ProfileOwner: "MyOwner"}},
		},
		{
			name:     "profile only",
			args:     []string{SigningProfilesExample},
			expected: map[string]SigningProfile{"MyFunction": {ProfileName: "SigningProfile"}},
		},
		{
			name: "several pairs",
			args: []string{"Fn1=P1 Fn2=P2:O2"},
			expected: map[string]SigningProfile{
				"Fn1": {ProfileName: "P1"},
				"Fn2": {ProfileName: "P2", ProfileOwner: "O2"},
			},
		},
		{
			name:     "quoted value",
			args:     []string{`MyFn="My Profile:Owner"`},
			expected: map[string]SigningProfile{"MyFn": {ProfileName: "My Profile", ProfileOwner: "Owner"}},
		},
		{
			name:     "several arguments",
			args:     []string{"A=P1", "B=P2"},
			expected: map[string]SigningProfile{"A": {ProfileName: "P1"}, "B": {ProfileName: "P2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSigningProfilesDecoder().Decode(tt.args...)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSigningProfilesDecoder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  string
	}{
		{"too many colons", "MyFn=MyProfile:Owner:Extra", apperrors.ErrCodeInvalidProfileColonCount},
		{"missing profile name", "MyFn=:Owner", apperrors.ErrCodeMissingProfileName},
		{"no pairs", "garbage", apperrors.ErrCodeMalformedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSigningProfilesDecoder().Decode(tt.input)

			require.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, tt.code, apperrors.GetErrorCode(err))
		})
	}
}

func TestParseSigningProfile(t *testing.T) {
	tests := []struct {
		input    string
		expected SigningProfile
		code     string
	}{
		{input: "P", expected: SigningProfile{ProfileName: "P"}},
		{input: "P:O", expected: SigningProfile{ProfileName: "P", ProfileOwner: "O"}},
		{input: "P:", expected: SigningProfile{ProfileName: "P"}},
		{input: "", code: apperrors.ErrCodeMissingProfileName},
		{input: ":O", code: apperrors.ErrCodeMissingProfileName},
		{input: "a:b:c", code: apperrors.ErrCodeInvalidProfileColonCount},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSigningProfile(tt.input)
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, apperrors.GetErrorCode(err))
				assert.Equal(t, tt.input, apperrors.GetErrorValue(err))
				assert.Contains(t, err.Error(), SigningProfileExample)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
