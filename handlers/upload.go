package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/yachtclub/models"
)

const (
	maxUploadSize  = 10 << 20
	maxUploadFiles = 5
	uploadField    = "files"
)

// allowedTypes maps accepted MIME types to the extension used when the
// original name has none.
var allowedTypes = map[string]string{
	"image/jpeg":         ".jpg",
	"image/png":          ".png",
	"image/gif":          ".gif",
	"image/webp":         ".webp",
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/vnd.ms-excel": ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
}

type uploadedFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

// uploadHeaders returns the files of the request after checking count, size
// and type. Nothing is written until every file passes.
func uploadHeaders(c echo.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Expected a multipart form upload")
	}
	files := form.File[uploadField]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "No files uploaded")
	}
	if len(files) > maxUploadFiles {
		return nil, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Too many files. Maximum is %d per request", maxUploadFiles))
	}

	for _, fh := range files {
		if fh.Size > maxUploadSize {
			return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File %s is too large. Maximum size is 10MB", fh.Filename))
		}
		if _, ok := allowedTypes[mimeType(fh)]; !ok {
			return nil, echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("File type not allowed for %s. Allowed: images (JPEG, PNG, GIF, WEBP), PDF, Word and Excel documents", fh.Filename))
		}
	}
	return files, nil
}

func mimeType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// saveUploads writes files under uploadDir with random names. On failure the
// files already written are removed.
func (h *Handler) saveUploads(files []*multipart.FileHeader) ([]uploadedFile, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	saved := make([]uploadedFile, 0, len(files))
	for _, fh := range files {
		f, err := h.saveUpload(fh)
		if err != nil {
			h.removeUploads(saved)
			return nil, err
		}
		saved = append(saved, f)
	}
	return saved, nil
}

func (h *Handler) saveUpload(fh *multipart.FileHeader) (uploadedFile, error) {
	mt := mimeType(fh)
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = allowedTypes[mt]
	}
	name := uuid.NewString() + ext

	src, err := fh.Open()
	if err != nil {
		return uploadedFile{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(filepath.Join(h.uploadDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return uploadedFile{}, fmt.Errorf("create %s: %w", name, err)
	}
	n, err := io.Copy(dst, io.LimitReader(src, maxUploadSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > maxUploadSize {
		err = echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File %s is too large. Maximum size is 10MB", fh.Filename))
	}
	if err != nil {
		_ = os.Remove(filepath.Join(h.uploadDir, name))
		return uploadedFile{}, err
	}

	return uploadedFile{
		Filename:     name,
		OriginalName: filepath.Base(fh.Filename),
		MimeType:     mt,
		Size:         n,
		URL:          "/api/upload/files/" + name,
	}, nil
}

func (h *Handler) removeUploads(files []uploadedFile) {
	for _, f := range files {
		if err := os.Remove(filepath.Join(h.uploadDir, f.Filename)); err != nil && !os.IsNotExist(err) {
			h.log.Warn("remove upload", zap.String("file", f.Filename), zap.Error(err))
		}
	}
}

// Upload stores up to five files and returns their public names.
func (h *Handler) Upload(c echo.Context) error {
	files, err := uploadHeaders(c)
	if err != nil {
		return err
	}
	saved, err := h.saveUploads(files)
	if err != nil {
		return err
	}
	return sendCreated(c, saved, fmt.Sprintf("%d file(s) uploaded successfully", len(saved)))
}

// UploadEventDocuments stores files and records them as documents of an event.
func (h *Handler) UploadEventDocuments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	exists, err := h.store.EventExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}

	files, err := uploadHeaders(c)
	if err != nil {
		return err
	}
	saved, err := h.saveUploads(files)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(c.FormValue("title"))
	docType := strings.TrimSpace(c.FormValue("documentType"))
	docs := make([]*models.EventDocument, len(saved))
	for i, f := range saved {
		docTitle := title
		if docTitle == "" || len(saved) > 1 {
			docTitle = f.OriginalName
		}
		docs[i] = &models.EventDocument{
			Title:        docTitle,
			Filename:     f.Filename,
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			Size:         f.Size,
			DocumentType: docType,
		}
	}

	if err := h.store.CreateDocuments(ctx, id, docs); err != nil {
		h.removeUploads(saved)
		return notFoundOr(err, "Event not found")
	}
	return sendCreated(c, docs, fmt.Sprintf("%d document(s) uploaded successfully", len(docs)))
}

// ServeFile streams an uploaded file. Names resolving outside the upload
// directory are refused.
func (h *Handler) ServeFile(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("filename"))
	if err != nil || name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid filename")
	}

	base, err := filepath.Abs(h.uploadDir)
	if err != nil {
		return err
	}
	target, err := filepath.Abs(filepath.Join(base, name))
	if err != nil {
		return err
	}
	if !strings.HasPrefix(target, base+string(os.PathSeparator)) {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	return c.File(target)
}
