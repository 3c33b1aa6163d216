package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SHEET_ID", "sheet-1")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/key.json")
	t.Setenv("DRIVE_FOLDER_ID", "folder-1")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CDN_PROVIDER", "cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")
}

func TestFromEnv_Defaults(t *testing.T) {
	validEnv(t)

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "Sheet1!A1:Z", c.Sheet.Range)
	assert.Equal(t, "FORMATTED_VALUE", c.Sheet.Render)
	assert.True(t, c.Drive.Recursive)
	assert.Equal(t, int64(1000), c.Drive.PageSize)
	assert.Equal(t, "SMBullyCamp", c.CDN.Folder)
	assert.Equal(t, 4, c.ImageConcurrency)
	assert.Equal(t, 60*time.Second, c.HTTPTimeout)
	assert.NoError(t, c.Validate())
}

func TestFromEnv_BadNumbers(t *testing.T) {
	validEnv(t)
	t.Setenv("DRIVE_RECURSIVE", "maybe")
	t.Setenv("TG_CHAT_ID", "abc")

	_, err := FromEnv()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
	assert.Contains(t, err.Error(), "DRIVE_RECURSIVE")
	assert.Contains(t, err.Error(), "TG_CHAT_ID")
}

func TestValidate_MissingRequired(t *testing.T) {
	validEnv(t)
	t.Setenv("DRIVE_FOLDER_ID", "")
	t.Setenv("SHEET_ID", "")

	c, err := FromEnv()
	require.NoError(t, err)

	err = c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "SHEET_ID")
	assert.Contains(t, err.Error(), "DRIVE_FOLDER_ID")
}

func TestValidate_StoreAndCDN(t *testing.T) {
	validEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("CDN_PROVIDER", "s3")

	c, err := FromEnv()
	require.NoError(t, err)
	err = c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
	assert.Contains(t, err.Error(), "S3_ENDPOINT")

	c.Store.Driver = "oracle"
	assert.ErrorIs(t, c.Validate(), ErrConfig)
}
