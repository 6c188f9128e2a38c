package kratos

import (
	"encoding/json"
	"net/http"
	"strings"

	kratosclient "github.com/ory/kratos-client-go"

	"postboard/app/domain"
	apperrors "postboard/app/utils/errors"
)

// normalizeError converts a Kratos API error into one AppError. Kratos
// failure payloads are unstructured (sometimes a bare string, sometimes
// an object with nested message/reason fields, sometimes UI node
// messages), so the shape is flattened here, at the boundary where the
// payload is received, and call sites only ever see the normalized form.
func normalizeError(err error, httpResp *http.Response) error {
	description := extractDescription(err)

	if httpResp != nil {
		switch httpResp.StatusCode {
		case http.StatusUnauthorized:
			return apperrors.New(apperrors.ErrCodeSessionNotFound, description, http.StatusUnauthorized, domain.ErrInvalidSession)
		case http.StatusForbidden:
			return apperrors.NewForbidden(description, domain.ErrForbidden)
		case http.StatusBadRequest:
			if looksLikeCredentialFailure(description) {
				return apperrors.New(apperrors.ErrCodeInvalidCredentials, description, http.StatusUnauthorized, domain.ErrInvalidCredentials)
			}
			if looksLikeDuplicateAccount(description) {
				return apperrors.New(apperrors.ErrCodeConflict, description, http.StatusConflict, domain.ErrUserAlreadyExists)
			}
			return apperrors.NewValidationFailed(description, domain.ErrInvalidInput)
		case http.StatusNotFound, http.StatusGone:
			return apperrors.NewNotFound(description, domain.ErrSessionNotFound)
		}
	}

	return apperrors.NewBackendError(description, domain.ErrBackendUnavailable)
}

// extractDescription pulls a human-readable description out of whatever
// payload shape the backend produced
func extractDescription(err error) string {
	if err == nil {
		return "unknown error"
	}

	kratosErr, ok := err.(*kratosclient.GenericOpenAPIError)
	if !ok {
		return err.Error()
	}

	body := kratosErr.Body()
	if len(body) == 0 {
		return kratosErr.Error()
	}

	var payload map[string]interface{}
	if jsonErr := json.Unmarshal(body, &payload); jsonErr != nil {
		// Not JSON at all; the payload itself is the description
		return strings.TrimSpace(string(body))
	}

	if desc := descriptionFromPayload(payload); desc != "" {
		return desc
	}

	return kratosErr.Error()
}

// descriptionFromPayload checks the known payload shapes in order of
// specificity: UI node messages, then the error object, then flat fields
func descriptionFromPayload(payload map[string]interface{}) string {
	if ui, ok := payload["ui"].(map[string]interface{}); ok {
		if desc := descriptionFromUI(ui); desc != "" {
			return desc
		}
	}

	if errorObj, ok := payload["error"].(map[string]interface{}); ok {
		if reason, ok := errorObj["reason"].(string); ok && reason != "" {
			return reason
		}
		if message, ok := errorObj["message"].(string); ok && message != "" {
			return message
		}
	}

	if reason, ok := payload["reason"].(string); ok && reason != "" {
		return reason
	}
	if message, ok := payload["message"].(string); ok && message != "" {
		return message
	}

	return ""
}

// descriptionFromUI extracts the first error-level message from a flow
// UI payload
func descriptionFromUI(ui map[string]interface{}) string {
	messages, ok := ui["messages"].([]interface{})
	if !ok {
		return ""
	}

	for _, raw := range messages {
		message, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if text, ok := message["text"].(string); ok && text != "" {
			return text
		}
	}

	return ""
}

func looksLikeCredentialFailure(description string) bool {
	lowered := strings.ToLower(description)
	return strings.Contains(lowered, "credentials are invalid") ||
		strings.Contains(lowered, "invalid credentials") ||
		strings.Contains(lowered, "check for spelling mistakes")
}

func looksLikeDuplicateAccount(description string) bool {
	lowered := strings.ToLower(description)
	return strings.Contains(lowered, "already in use") ||
		strings.Contains(lowered, "exists already")
}
