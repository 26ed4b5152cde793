package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/pkg/logger"
	"github.com/go-chi/chi"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

type successEnvelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

type failEnvelope struct {
	Status string    `json:"status"`
	Error  ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
	// ExposeErrors adds the underlying cause of 5xx errors to responses.
	ExposeErrors bool
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger, exposeErrors bool) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg, ExposeErrors: exposeErrors}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess wraps data in the success envelope.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	h.WriteJSON(w, status, successEnvelope{Status: StatusSuccess, Data: data})
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.writeFail(w, status, ErrorBody{Message: message})
}

func (h *BaseHandler) writeFail(w http.ResponseWriter, status int, body ErrorBody) {
	if status >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", status, "message", body.Message)
	} else {
		h.Logger.Debug("http error", "status", status, "message", body.Message)
	}
	h.WriteJSON(w, status, failEnvelope{Status: StatusFail, Error: body})
}

// HandleServiceError maps service errors to the failure envelope.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		h.Logger.Error("unhandled service error", "error", err)
		body := ErrorBody{Message: "Internal server error"}
		if h.ExposeErrors && err != nil {
			body.Detail = err.Error()
		}
		h.writeFail(w, http.StatusInternalServerError, body)
		return
	}

	status := appErr.StatusCode
	if status == 0 {
		status = statusForType(appErr.Type)
	}

	body := ErrorBody{Message: appErr.PublicMessage()}
	if field := appErr.FirstField(); field != nil {
		body.Field = field.Field
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error("service error", "code", appErr.Code, "error", appErr.Error())
		if h.ExposeErrors && appErr.Cause != nil {
			body.Detail = appErr.Cause.Error()
		}
	}

	h.writeFail(w, status, body)
}

func statusForType(t internal.ErrorType) int {
	switch t {
	case internal.ErrorTypeValidation:
		return http.StatusBadRequest
	case internal.ErrorTypeNotFound:
		return http.StatusNotFound
	case internal.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case internal.ErrorTypeForbidden:
		return internal.ForbiddenStatus
	case internal.ErrorTypeConflict:
		return http.StatusConflict
	case internal.ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var errInvalidBody = internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed)

// DecodeJSON decodes the request body into dst. An empty body leaves dst
// untouched so field validation can report what is missing.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errInvalidBody.WithCause(err)
	}
	return nil
}

// ParamInt64 parses a positive integer route parameter.
func (h *BaseHandler) ParamInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError(name, name+" must be a positive integer", internal.ErrCodeInvalidValue)
	}
	return id, nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
