package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/charforge/pkg/domain/model"
	"github.com/secmon-lab/charforge/pkg/domain/types"
	"github.com/secmon-lab/charforge/pkg/utils/errutil"
	"github.com/secmon-lab/charforge/pkg/utils/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

type fieldResponse struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Values       []string `json:"values"`
	IsDefault    bool     `json:"isDefault"`
	CustomValues []string `json:"customValues"`
}

type fieldsResponse struct {
	Fields []fieldResponse `json:"fields"`
}

type addFieldRequest struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type valueRequest struct {
	Value string `json:"value"`
}

type selectionResponse struct {
	Selection *model.Selection `json:"selection"`
	Prompt    string           `json:"prompt"`
}

type promptResponse struct {
	Prompt string `json:"prompt"`
}

type generateRequest struct {
	Speak bool `json:"speak"`
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrFieldNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAlreadyExists), errors.Is(err, model.ErrNotDeletable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		errutil.HandleHTTP(ctx, w, err, status)
		return
	}
	logging.From(ctx).Info("request rejected", "status", status, "error", err.Error())
	writeJSON(ctx, w, status, errorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(model.ErrValidation, "invalid request body", goerr.V("cause", err.Error()))
	}
	return nil
}

// urlParam returns a decoded path parameter. chi routes on RawPath when the
// request path carries escaped separators, and only then is the parameter
// still encoded.
func urlParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func toFieldResponse(f *model.FieldDefinition, custom []string) fieldResponse {
	if custom == nil {
		custom = []string{}
	}
	return fieldResponse{
		Key:          f.Key.String(),
		Name:         f.Name,
		Values:       f.Values,
		IsDefault:    f.IsDefault,
		CustomValues: custom,
	}
}

func listFieldsHandler(uc CharacterUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields := uc.Fields()
		resp := fieldsResponse{Fields: make([]fieldResponse, 0, len(fields))}
		for _, f := range fields {
			custom, _ := uc.CustomValues(f.Key)
			resp.Fields = append(resp.Fields, toFieldResponse(f, custom))
		}
		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

func getFieldHandler(uc CharacterUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := types.FieldKey(urlParam(r, "key"))
		f, err := uc.Field(key)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		custom, _ := uc.CustomValues(key)
		writeJSON(r.Context(), w, http.StatusOK, toFieldResponse(f, custom))
	}
}

func addFieldHandler(uc CharacterUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addFieldRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		f, err := uc.AddField(r.Context(), types.FieldKey(req.Key), req.Name)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, toFieldResponse(f, nil))
	}
}

func deleteFieldHandler(uc CharacterUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.DeleteField(r.Context(), types.FieldKey(urlParam(r, "key"))); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addValueHandler(uc CharacterUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := types.FieldKey(urlParam(r, "key"))

		var req valueRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		if err := uc.AddValue(r.Context(), key, req.Value); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		f, err := uc.Field(key)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		custom, _ := uc.CustomValues(key)
		writeJSON(r.Context(), w, http.StatusCreated, toFieldResponse(f, custom))
	}
}

func deleteValueHandler(uc CharacterUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := types.FieldKey(urlParam(r, "key"))
		if err := uc.DeleteValue(r.Context(), key, urlParam(r, "value")); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getSelectionHandler(uc CharacterUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sel, prompt := uc.SelectionPrompt()
		writeJSON(r.Context(), w, http.StatusOK, selectionResponse{
			Selection: sel,
			Prompt:    prompt,
		})
	}
}

func selectHandler(uc CharacterUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req valueRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		if err := uc.Select(r.Context(), types.FieldKey(urlParam(r, "key")), req.Value); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		sel, prompt := uc.SelectionPrompt()
		writeJSON(r.Context(), w, http.StatusOK, selectionResponse{
			Selection: sel,
			Prompt:    prompt,
		})
	}
}

func clearSelectionHandler(uc CharacterUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.Select(r.Context(), types.FieldKey(urlParam(r, "key")), ""); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		sel, prompt := uc.SelectionPrompt()
		writeJSON(r.Context(), w, http.StatusOK, selectionResponse{
			Selection: sel,
			Prompt:    prompt,
		})
	}
}

func promptHandler(uc CharacterUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, promptResponse{Prompt: uc.Prompt()})
	}
}

func generateHandler(uc CharacterUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		// body is optional
		if r.ContentLength != 0 {
			if err := decodeBody(r, &req); err != nil {
				writeError(r.Context(), w, err)
				return
			}
		}

		gen, err := uc.Generate(r.Context(), req.Speak)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, gen)
	}
}
