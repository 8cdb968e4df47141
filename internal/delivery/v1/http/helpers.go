package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/recipe-cart/internal/infrastructure"
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// DataResponse — общий конверт успешного ответа.
type DataResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

var errorCategories = []struct {
	err  error
	code int
}{
	{e.ErrValidation, http.StatusBadRequest},
	{e.ErrUnauthenticated, http.StatusUnauthorized},
	{e.ErrForbidden, http.StatusForbidden},
	{e.ErrNotFound, http.StatusNotFound},
	{e.ErrConflict, http.StatusConflict},
	{e.ErrUnprocessable, http.StatusUnprocessableEntity},
}

// ToHTTPResponse выбирает код ответа по категории ошибки.
// Текст берётся начиная с сообщения категории, префиксы мест вызова отбрасываются.
func ToHTTPResponse(err error) (int, string) {
	for _, c := range errorCategories {
		if errors.Is(err, c.err) {
			return c.code, publicMessage(err, c.err)
		}
	}

	return http.StatusInternalServerError, e.ErrInternalServerError.Error()
}

func publicMessage(err, category error) string {
	msg := err.Error()
	if idx := strings.Index(msg, category.Error()); idx >= 0 {
		return msg[idx:]
	}
	return category.Error()
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	resp := NewErrorResponse(code, msg)

	var verr *e.ValidationError
	if errors.As(err, &verr) {
		resp.Message = e.ErrValidation.Error()
		resp.Errors = verr.Fields
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst и проверяет его валидатором.
func decodeJSON(r *http.Request, dst any) error {
	const maxBodySize = 1 << 20

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrInvalidJSON, err))
	}

	return validateStruct(dst)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(name, e.ErrInvalidID)
	}
	return id, nil
}

// parseIDList разбирает CSV-список идентификаторов из query-параметра.
func parseIDList(r *http.Request, name string) ([]int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			verr := e.NewValidationError()
			verr.Add(name, "must be a comma-separated list of positive integers")
			return nil, verr
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func parseIntQuery(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		verr := e.NewValidationError()
		verr.Add(name, "must be an integer")
		return 0, verr
	}

	return v, nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrStatusBadRequest, err))
	}

	return nil
}

// parseImage читает единственный файл обложки. MIME-тип определяется по содержимому, а не по заголовку.
func parseImage(files []*multipart.FileHeader, maxSize int64) (*usecase.RecipeImage, error) {
	if len(files) == 0 {
		return nil, e.ErrNoImages
	}

	fh := files[0]
	data, mimeType, err := readFile(fh, maxSize)
	if err != nil {
		return nil, err
	}

	if !infrastructure.AllowedImageMIME(mimeType) {
		return nil, e.Wrap(mimeType, e.ErrUnsupportedMediaType)
	}

	return usecase.NewRecipeImage(data, mimeType, int64(len(data)), fh.Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if fh.Size > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
