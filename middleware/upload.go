package middleware

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const filesKey = "files"

// UploadConfig configuración de la recepción de archivos
type UploadConfig struct {
	TempDir     string // directorio donde se guardan los archivos recibidos
	MaxFileSize int64  // tamaño máximo por archivo en bytes
	MaxFiles    int    // archivos por petición; 0 sin límite
}

// StagedFile archivo recibido en un formulario multipart y guardado en disco
type StagedFile struct {
	Field    string
	Name     string
	MimeType string
	Size     int64
	TempPath string
}

// FileUpload guarda en TempDir cada archivo de un formulario multipart antes
// de que la petición llegue a las rutas. Si algún archivo supera el máximo
// no se guarda ninguno y se devuelve 413. El directorio no se limpia aquí.
func FileUpload(cfg UploadConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !strings.HasPrefix(mediaType(c), fiber.MIMEMultipartForm) {
			return c.Next()
		}

		form, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid multipart form")
		}

		count := 0
		for _, headers := range form.File {
			count += len(headers)
		}
		if cfg.MaxFiles > 0 && count > cfg.MaxFiles {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge,
				fmt.Sprintf("At most %d files can be uploaded per request", cfg.MaxFiles))
		}

		for _, headers := range form.File {
			for _, fh := range headers {
				if fh.Size > cfg.MaxFileSize {
					return fiber.NewError(fiber.StatusRequestEntityTooLarge,
						fmt.Sprintf("File %s exceeds the %d byte upload limit", fh.Filename, cfg.MaxFileSize))
				}
			}
		}

		if len(form.File) > 0 {
			if err := os.MkdirAll(cfg.TempDir, 0o700); err != nil {
				return fmt.Errorf("create upload dir: %w", err)
			}
		}

		staged := make(map[string][]StagedFile, len(form.File))
		for field, headers := range form.File {
			for _, fh := range headers {
				path := filepath.Join(cfg.TempDir, "tmp-"+uuid.NewString())
				if err := c.SaveFile(fh, path); err != nil {
					return fmt.Errorf("stage upload %s: %w", fh.Filename, err)
				}
				staged[field] = append(staged[field], StagedFile{
					Field:    field,
					Name:     fh.Filename,
					MimeType: fh.Header.Get(fiber.HeaderContentType),
					Size:     fh.Size,
					TempPath: path,
				})
			}
		}

		c.Locals(filesKey, staged)
		return c.Next()
	}
}

// Files devuelve todos los archivos guardados por FileUpload
func Files(c *fiber.Ctx) map[string][]StagedFile {
	if files, ok := c.Locals(filesKey).(map[string][]StagedFile); ok {
		return files
	}
	return nil
}

// File devuelve el primer archivo recibido en el campo indicado
func File(c *fiber.Ctx, field string) (*StagedFile, bool) {
	files := Files(c)[field]
	if len(files) == 0 {
		return nil, false
	}
	return &files[0], true
}
