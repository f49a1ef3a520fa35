package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"sentinel/internal/api/dto"
	"sentinel/internal/blacklist"
)

const maxBodyBytes = 1 << 20

const msgNoJSON = "No JSON data provided"

func (s *Server) addBlacklistEntry(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBlacklistRequest(w, r)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if err := blacklist.ValidateStruct(req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	result, err := s.blacklist.AddEntry(r.Context(), req.Input())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewBlacklistResponse(result))
}

func (s *Server) checkBlacklistEntry(w http.ResponseWriter, r *http.Request) {
	result, err := s.blacklist.CheckEntry(r.Context(), r.PathValue("email"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewBlacklistCheckResponse(result))
}

// decodeBlacklistRequest rejects empty, non-object and malformed bodies with
// "No JSON data provided" and reports field-level type problems as
// validation errors.
func decodeBlacklistRequest(w http.ResponseWriter, r *http.Request) (dto.BlacklistRequest, error) {
	var req dto.BlacklistRequest

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, &blacklist.ValidationError{Message: "Request body too large"}
		}
		return req, &blacklist.ValidationError{Message: msgNoJSON}
	}

	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil || isEmptyJSON(probe) {
		return req, &blacklist.ValidationError{Message: msgNoJSON}
	}
	if _, ok := probe.(map[string]any); !ok {
		return req, &blacklist.ValidationError{
			Message: "Validation error",
			Details: map[string][]string{"_schema": {"Invalid input type."}},
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, decodeError(err)
	}
	return req, nil
}

func isEmptyJSON(v any) bool {
	switch typed := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	case string:
		return typed == ""
	case bool:
		return !typed
	case float64:
		return typed == 0
	}
	return false
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &blacklist.ValidationError{
			Message: "Validation error",
			Details: map[string][]string{typeErr.Field: {"Not a valid string."}},
		}
	}

	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return &blacklist.ValidationError{
			Message: "Validation error",
			Details: map[string][]string{strings.Trim(field, `"`): {"Unknown field."}},
		}
	}

	return &blacklist.ValidationError{Message: msgNoJSON}
}
