package httpapi

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file uploaded"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return s.fail(c, err, "Upload failed")
	}
	defer f.Close()

	upload, err := s.uploads.Submit(c.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get(fiber.HeaderContentType),
		fileHeader.Size,
		c.FormValue("description"),
		c.FormValue("uploaderEmail"),
		f)
	if err != nil {
		return s.fail(c, err, "Upload failed")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"uploadId": upload.ID,
		"filename": upload.Filename,
		"message":  "File uploaded successfully and pending approval",
	})
}

func (s *Server) handleDownload(c *fiber.Ctx) error {
	upload, content, err := s.uploads.Download(c.Context(), c.Params("filename"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found or not approved"})
	}

	c.Set(fiber.HeaderContentType, upload.Mimetype)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, upload.OriginalName))

	return c.SendStream(content)
}
