package media_storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/internal/application/service"
	"github.com/khoahotran/personal-card/internal/config"
	"github.com/khoahotran/personal-card/pkg/logger"
)

const (
	resourceImage = "image"
	resourceRaw   = "raw"
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".avif": true, ".bmp": true, ".svg": true,
}

type cloudinaryAdapter struct {
	cld    *cloudinary.Cloudinary
	logger logger.Logger
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.ObjectStore, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name is not configured")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	log.Info("Connect Cloudinary successfully.", zap.String("cloud_name", cfg.Cloudinary.CloudName))
	return &cloudinaryAdapter{cld: cld, logger: log}, nil
}

// objectRef maps a "folder/name.ext" key onto Cloudinary's addressing. Images drop the
// extension from the public id and let the format be inferred; anything else is a raw asset
// that keeps its full name.
type objectRef struct {
	folder       string
	publicID     string
	resourceType string
}

func parseObject(object string) (objectRef, error) {
	object = strings.Trim(object, "/")
	if object == "" {
		return objectRef{}, fmt.Errorf("empty object key")
	}
	dir, name := path.Split(object)
	ext := strings.ToLower(path.Ext(name))

	ref := objectRef{folder: strings.TrimSuffix(dir, "/"), publicID: name, resourceType: resourceRaw}
	if imageExts[ext] {
		ref.publicID = strings.TrimSuffix(name, path.Ext(name))
		ref.resourceType = resourceImage
	}
	return ref, nil
}

func (r objectRef) fullID() string {
	if r.folder == "" {
		return r.publicID
	}
	return r.folder + "/" + r.publicID
}

func (a *cloudinaryAdapter) Upload(ctx context.Context, file io.Reader, object string) (string, error) {
	ref, err := parseObject(object)
	if err != nil {
		return "", err
	}

	result, err := a.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     ref.publicID,
		Folder:       ref.folder,
		ResourceType: ref.resourceType,
		Overwrite:    api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload cloudinary: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

func (a *cloudinaryAdapter) PublicURL(object string, transformation string) (string, error) {
	ref, err := parseObject(object)
	if err != nil {
		return "", err
	}
	if ref.resourceType != resourceImage {
		return "", fmt.Errorf("transformations need an image object, got %q", object)
	}

	img, err := a.cld.Image(ref.fullID())
	if err != nil {
		return "", fmt.Errorf("failed to create cloudinary asset: %w", err)
	}
	img.Transformation = transformation

	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("failed to build image URL: %w", err)
	}
	return url, nil
}

func (a *cloudinaryAdapter) Delete(ctx context.Context, object string) error {
	ref, err := parseObject(object)
	if err != nil {
		return err
	}

	result, err := a.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     ref.fullID(),
		ResourceType: ref.resourceType,
	})
	if err != nil {
		return fmt.Errorf("failed to delete cloudinary: %w", err)
	}
	if result.Result != "ok" {
		a.logger.Warn("Cloudinary destroy did not remove object", zap.String("object", object), zap.String("result", result.Result))
	}
	return nil
}
