package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rhuss/litedemo/pkg/api"
)

// MapError converts an error returned by a go-openai call into an APIError.
//
//   - *openai.APIError and *openai.RequestError are classified by HTTP status
//   - transport failures (connection refused, DNS, timeouts, cancellation)
//     become connection errors
//   - undecodable response bodies become server errors
func MapError(err error) *api.APIError {
	if apiErr, ok := api.AsAPIError(err); ok {
		return apiErr
	}

	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) {
		return MapHTTPStatus(oaiErr.HTTPStatusCode, oaiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return MapHTTPStatus(reqErr.HTTPStatusCode, "", err)
	}

	if errors.Is(err, openai.ErrChatCompletionInvalidModel) ||
		errors.Is(err, openai.ErrChatCompletionStreamNotSupported) {
		e := api.NewInvalidRequestError("", err.Error())
		e.Err = err
		return e
	}

	if isTransportError(err) {
		return api.NewConnectionError(err)
	}

	if isDecodeError(err) {
		e := api.NewServerError(fmt.Sprintf("failed to parse backend response: %s", err.Error()))
		e.Err = err
		return e
	}

	e := api.NewServerError(err.Error())
	e.Err = err
	return e
}

// MapStreamError converts an error returned while reading a stream.
// Errors reported by the backend inside the stream and undecodable chunks
// become stream errors; everything else is treated as a transport failure.
func MapStreamError(ctx context.Context, err error) *api.APIError {
	if ctx.Err() != nil {
		return api.NewConnectionError(fmt.Errorf("%w: %w", ctx.Err(), err))
	}

	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) {
		return api.NewStreamError(fmt.Sprintf("backend reported error: %s", oaiErr.Message), err)
	}

	if isDecodeError(err) {
		return api.NewStreamError(fmt.Sprintf("malformed stream chunk: %s", err.Error()), err)
	}

	if errors.Is(err, openai.ErrTooManyEmptyStreamMessages) {
		return api.NewStreamError("stream sent too many empty messages", err)
	}

	return api.NewConnectionError(err)
}

// MapHTTPStatus builds an APIError for a non-2xx backend response. message
// is the backend's own description, if it sent one.
func MapHTTPStatus(status int, message string, cause error) *api.APIError {
	var e *api.APIError

	switch {
	case status == http.StatusBadRequest:
		if message == "" {
			message = "invalid request to backend"
		}
		e = api.NewInvalidRequestError("", message)

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if message == "" {
			message = "backend authentication failed"
		}
		e = api.NewAuthenticationError(message)

	case status == http.StatusNotFound:
		if message == "" {
			message = "backend resource not found"
		}
		e = api.NewNotFoundError(message)

	case status == http.StatusTooManyRequests:
		if message == "" {
			message = "backend rate limit exceeded"
		}
		e = api.NewTooManyRequestsError(message)

	case status >= http.StatusInternalServerError:
		if message == "" {
			message = fmt.Sprintf("backend server error (HTTP %d)", status)
		}
		e = api.NewServerError(message)

	default:
		if message == "" {
			message = fmt.Sprintf("unexpected backend error (HTTP %d)", status)
		}
		e = api.NewServerError(message)
	}

	e.StatusCode = status
	e.Err = cause
	return e
}

func isTransportError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
