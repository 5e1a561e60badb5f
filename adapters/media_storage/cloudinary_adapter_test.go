package media_storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/personal-card/internal/config"
	"github.com/khoahotran/personal-card/pkg/logger"
)

func TestParseObject(t *testing.T) {
	cases := []struct {
		object string
		want   objectRef
	}{
		{"profile-pictures/abc.png", objectRef{folder: "profile-pictures", publicID: "abc", resourceType: resourceImage}},
		{"profile-pictures/abc.JPEG", objectRef{folder: "profile-pictures", publicID: "abc", resourceType: resourceImage}},
		{"backups/db_2025.sql", objectRef{folder: "backups", publicID: "db_2025.sql", resourceType: resourceRaw}},
		{"loose.webp", objectRef{publicID: "loose", resourceType: resourceImage}},
	}
	for _, tc := range cases {
		got, err := parseObject(tc.object)
		require.NoError(t, err, tc.object)
		assert.Equal(t, tc.want, got, tc.object)
	}

	_, err := parseObject("/")
	assert.Error(t, err)
}

func TestPublicURL_AppliesTransformation(t *testing.T) {
	var cfg config.Config
	cfg.Cloudinary.CloudName = "demo"
	cfg.Cloudinary.ApiKey = "key"
	cfg.Cloudinary.ApiSecret = "secret"

	store, err := NewCloudinaryAdapter(cfg, logger.NewNopLogger())
	require.NoError(t, err)

	url, err := store.PublicURL("profile-pictures/abc.png", "c_fill,g_face,w_400,h_400")
	require.NoError(t, err)
	assert.Contains(t, url, "res.cloudinary.com/demo/image/upload/c_fill,g_face,w_400,h_400/")
	assert.Contains(t, url, "profile-pictures/abc")

	_, err = store.PublicURL("backups/db.sql", "")
	assert.Error(t, err)
}

func TestNewCloudinaryAdapter_RequiresCloudName(t *testing.T) {
	_, err := NewCloudinaryAdapter(config.Config{}, logger.NewNopLogger())
	assert.Error(t, err)
}
