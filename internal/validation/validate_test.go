package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/collector/errors"
)

func TestValidateBucketName(t *testing.T) {
	require.NoError(t, ValidateBucketName("op", "logs-2023"))
	require.NoError(t, ValidateBucketName("op", "Not_DNS compliant"))

	err := ValidateBucketName("checkContents", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	assert.Equal(t, errors.CodeInvalidInput, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "collector.checkContents")
}

func TestValidateObjectKey(t *testing.T) {
	require.NoError(t, ValidateObjectKey("op", "b", "../escapes/are/kept"))

	err := ValidateObjectKey("download", "b", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "bucket b")
}

func TestValidatePageSize(t *testing.T) {
	tests := []struct {
		size    int32
		wantErr bool
	}{
		{0, true},
		{-5, true},
		{1, false},
		{1000, false},
		{1001, true},
	}

	for _, tt := range tests {
		err := ValidatePageSize("op", tt.size)
		if tt.wantErr {
			assert.Error(t, err, "size %d", tt.size)
		} else {
			assert.NoError(t, err, "size %d", tt.size)
		}
	}
}
