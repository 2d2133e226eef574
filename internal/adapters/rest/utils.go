package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Omkar-XD/Realty-Match-System/internal/contracts"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"
)

const maxBodyBytes = 1 << 20

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// decodeValidated читает тело, проверяет его по схеме и раскладывает в dst
func decodeValidated(w http.ResponseWriter, r *http.Request, schemaKey string, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if err := contracts.Validate(schemaKey, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

// parseOptionalInt возвращает nil для отсутствующего параметра
func parseOptionalInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("query parameter %q must be an integer", name)
	}
	return &v, nil
}

// writeUseCaseError переводит ошибку use case в HTTP-статус
func writeUseCaseError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	switch {
	case errors.Is(err, domain.ErrRequirementNotFound):
		logger.Warn("Requirement not found", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusNotFound, "Requirement not found")
	case errors.Is(err, domain.ErrPropertyNotFound):
		logger.Warn("Property not found", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusNotFound, "Property not found")
	case errors.Is(err, domain.ErrInvalidRequirement):
		logger.Warn("Stored requirement is invalid", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusUnprocessableEntity, "Requirement is invalid and cannot be matched")
	default:
		logger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to compute matches")
	}
}
