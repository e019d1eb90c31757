package server

import (
	"io"

	"inkwell/internal/middleware"
	"inkwell/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/images. The response shape follows the rich
// text editor's upload contract: {"uploaded": 1, "fileName": ..., "url": ...}
// on success, {"uploaded": 0, "error": {"message": ...}} on failure.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("upload")
	if err != nil {
		return uploadError(c, fiber.StatusBadRequest, "Invalid request")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return uploadError(c, fiber.StatusBadRequest, "Invalid request")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return uploadError(c, fiber.StatusBadRequest, "Invalid request")
	}

	stored, err := s.media.Save(storage.UploadInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "image upload failed", "error", err)
		return uploadError(c, statusForError(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"uploaded": 1,
		"fileName": stored.FileName,
		"url":      stored.URL,
	})
}

func uploadError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"uploaded": 0,
		"error":    fiber.Map{"message": message},
	})
}
