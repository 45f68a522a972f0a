package registration

import (
	"context"
	"time"

	"github.com/Romain-GUILLEMOT/TubeBack/metrics"
	"github.com/Romain-GUILLEMOT/TubeBack/utils"
)

const (
	FieldAvatar     = "avatar"
	FieldCoverImage = "coverImage"
)

// assetPolicy says what happens when an image field is missing or its upload
// fails: a required asset aborts the registration, an optional one is stored
// as "".
type assetPolicy struct {
	Field    string
	Preset   utils.ImagePreset
	Required bool
	Code     string
	Message  string
}

// Order matters: required assets are uploaded first so an optional upload is
// never wasted on a registration that is going to fail.
var assetPolicies = []assetPolicy{
	{Field: FieldAvatar, Preset: utils.PresetAvatar, Required: true, Code: "REG-004", Message: MsgAvatarRequired},
	{Field: FieldCoverImage, Preset: utils.PresetCover, Required: false},
}

// Fields lists the multipart file fields the upload stager has to keep.
func Fields() []string {
	fields := make([]string, 0, len(assetPolicies))
	for _, p := range assetPolicies {
		fields = append(fields, p.Field)
	}
	return fields
}

func resolveAssets(files map[string]string) (map[string]string, error) {
	paths := make(map[string]string, len(assetPolicies))
	for _, p := range assetPolicies {
		path := files[p.Field]
		if path == "" && p.Required {
			return nil, utils.NewValidationError(p.Code, p.Message)
		}
		paths[p.Field] = path
	}
	return paths, nil
}

func (s *Service) uploadAssets(ctx context.Context, paths map[string]string) (map[string]string, error) {
	urls := make(map[string]string, len(assetPolicies))
	for _, p := range assetPolicies {
		path := paths[p.Field]
		if path == "" {
			urls[p.Field] = ""
			continue
		}

		start := time.Now()
		url, err := s.media.Upload(ctx, path, p.Preset)
		metrics.UploadDuration.WithLabelValues(p.Field).Observe(time.Since(start).Seconds())

		if err != nil || url == "" {
			metrics.Uploads.WithLabelValues(p.Field, "failed").Inc()
			if p.Required {
				utils.Warn("Required upload failed", "field", p.Field, "err", err)
				s.rollback(ctx, urls)
				return nil, utils.NewAPIError(utils.ValidationError, "REG-005", p.Message, err)
			}
			utils.Warn("Optional upload failed, continuing without it", "field", p.Field, "err", err)
			urls[p.Field] = ""
			continue
		}

		metrics.Uploads.WithLabelValues(p.Field, "ok").Inc()
		urls[p.Field] = url
	}
	return urls, nil
}
