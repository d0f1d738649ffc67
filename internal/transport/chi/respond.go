package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"go.uber.org/zap"

	"github.com/zeit-online/contentapi/internal/domain"
)

const (
	descBadRequest       = "The request cannot be fulfilled due to bad syntax."
	descUnauthorized     = "The provided api key seems to be invalid."
	descEndpointNotFound = "The requested endpoint is not defined."
	descResourceNotFound = "The requested resource can not be found."
	descMethodNotAllowed = "The method %s is not allowed for the requested URL."
	descTooManyRequests  = "You have reached your request quota."
	descInternal         = "Due to an internal error the request could not be fulfilled."
	descUnavailable      = "The service is currently unavailable."
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Description string `json:"description"`
}

// errorHandler maps a domain error to a status and description. ok is false
// when the error is not its kind.
type errorHandler func(err error) (status int, description string, ok bool)

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		methodNotAllowedHandler,
		sentinelHandler(domain.ErrBadRequest, http.StatusBadRequest, descBadRequest),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, descUnauthorized),
		sentinelHandler(domain.ErrEndpointNotFound, http.StatusNotFound, descEndpointNotFound),
		sentinelHandler(domain.ErrResourceNotFound, http.StatusNotFound, descResourceNotFound),
		sentinelHandler(domain.ErrTooManyRequests, http.StatusTooManyRequests, descTooManyRequests),
		sentinelHandler(domain.ErrServiceUnavailable, http.StatusServiceUnavailable, descUnavailable),
		sentinelHandler(domain.ErrInternalServerError, http.StatusInternalServerError, descInternal),
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, description string) errorHandler {
	return func(err error) (int, string, bool) {
		if !errors.Is(err, sentinel) {
			return 0, "", false
		}
		return status, description, true
	}
}

// methodNotAllowedHandler names the rejected method in the description.
func methodNotAllowedHandler(err error) (int, string, bool) {
	if !errors.Is(err, domain.ErrMethodNotAllowed) {
		return 0, "", false
	}
	method := "requested"
	var mna *domain.MethodNotAllowedError
	if errors.As(err, &mna) {
		method = mna.Method
	}
	return http.StatusMethodNotAllowed, fmt.Sprintf(descMethodNotAllowed, method), true
}

// callbackName restricts JSONP callbacks to dotted JavaScript identifiers.
var callbackName = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$.]*$`)

// validCallback reports whether the request names no callback or a usable one.
func validCallback(r *http.Request) bool {
	cb := r.URL.Query().Get("callback")
	return cb == "" || callbackName.MatchString(cb)
}

// write encodes v as JSON, or as JSONP when the request names a callback.
func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode response", zap.Error(err))
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorBody{Description: descInternal})
	}

	callback := r.URL.Query().Get("callback")
	if callback != "" && callbackName.MatchString(callback) {
		w.Header().Set("Content-Type", "application/javascript; charset=UTF-8")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, "%s(%s);", callback, data)
		return
	}
	if callback != "" {
		status = http.StatusBadRequest
		data, _ = json.Marshal(errorBody{Description: descBadRequest})
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
