package middlewares

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Romain-GUILLEMOT/TubeBack/utils"
	"github.com/gofiber/fiber/v2"
)

const stagedKey = "staged_uploads"

// StageUploads saves the first file of each named multipart field under dir
// and hands the local paths to the next handler (see StagedFile). The files
// are deleted once the rest of the chain has returned.
func StageUploads(dir string, fields ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		staged := make(map[string]string, len(fields))
		defer func() {
			for field, path := range staged {
				if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
					utils.Warn("Staged upload not removed", "field", field, "path", path, "err", err)
				}
			}
		}()

		form, err := c.MultipartForm()
		if err == nil {
			for _, field := range fields {
				files := form.File[field]
				if len(files) == 0 {
					continue
				}
				fh := files[0]

				randStr, err := utils.RandomString64()
				if err != nil {
					return utils.NewInternalError("UPL-001", "could not store upload", err)
				}
				path := filepath.Join(dir, randStr+strings.ToLower(filepath.Ext(fh.Filename)))
				if err := c.SaveFile(fh, path); err != nil {
					return utils.NewInternalError("UPL-002", "could not store upload", err)
				}
				staged[field] = path
			}
		}

		c.Locals(stagedKey, staged)
		return c.Next()
	}
}

// StagedFile returns the local path staged for field, or "".
func StagedFile(c *fiber.Ctx, field string) string {
	return StagedFiles(c)[field]
}

func StagedFiles(c *fiber.Ctx) map[string]string {
	staged, _ := c.Locals(stagedKey).(map[string]string)
	if staged == nil {
		return map[string]string{}
	}
	return staged
}
