package rest

import (
	"net/http"

	"github.com/Omkar-XD/Realty-Match-System/internal/contextkeys"
	"github.com/Omkar-XD/Realty-Match-System/internal/contracts"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type MatchHandler struct {
	findMatchesUC  usecases_port.FindMatchesForRequirementUseCase
	bestMatchesUC  usecases_port.FindBestMatchesUseCase
	propertyUC     usecases_port.FindMatchesForPropertyUseCase
	countMatchesUC usecases_port.CountMatchesBatchUseCase
	metrics        *Metrics
}

func NewMatchHandler(findMatchesUC usecases_port.FindMatchesForRequirementUseCase,
	bestMatchesUC usecases_port.FindBestMatchesUseCase,
	propertyUC usecases_port.FindMatchesForPropertyUseCase,
	countMatchesUC usecases_port.CountMatchesBatchUseCase,
	metrics *Metrics) *MatchHandler {
	return &MatchHandler{
		findMatchesUC:  findMatchesUC,
		bestMatchesUC:  bestMatchesUC,
		propertyUC:     propertyUC,
		countMatchesUC: countMatchesUC,
		metrics:        metrics,
	}
}

// FindMatches обрабатывает POST /api/v1/properties/match
func (h *MatchHandler) FindMatches(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var req FindMatchesRequest
	if err := decodeValidated(w, r, contracts.FindMatchesRequestV1, &req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":        "FindMatches",
		"requirement_id": req.RequirementID.String(),
	})

	result, err := h.findMatchesUC.Execute(r.Context(), req.RequirementID)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}
	h.metrics.ObserveMatches("all", len(result.Matches))

	RespondWithJSON(w, http.StatusOK, RequirementMatchesResponse{
		Requirement: result.Requirement,
		Matches:     toPropertyMatchResponses(result.Matches),
		Total:       result.TotalCount,
	})
}

// FindBestMatches обрабатывает POST /api/v1/properties/match/best
func (h *MatchHandler) FindBestMatches(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var req BestMatchesRequest
	if err := decodeValidated(w, r, contracts.BestMatchesRequestV1, &req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":        "FindBestMatches",
		"requirement_id": req.RequirementID.String(),
	})

	result, err := h.bestMatchesUC.Execute(r.Context(), req.RequirementID, domain.MatchOptions{
		MinScore: req.MinScore,
		Limit:    req.Limit,
	})
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}
	h.metrics.ObserveMatches("best", len(result.Matches))

	RespondWithJSON(w, http.StatusOK, BestMatchesResponse{
		Matches:        toPropertyMatchResponses(result.Matches),
		Total:          len(result.Matches),
		TotalQualified: result.TotalCount,
	})
}

// FindMatchesForProperty обрабатывает GET /api/v1/properties/{propertyID}/matches
func (h *MatchHandler) FindMatchesForProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		logger.Warn("Invalid property ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID format")
		return
	}

	minScore, err := parseOptionalInt(r, "min_score")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseOptionalInt(r, "limit")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":     "FindMatchesForProperty",
		"property_id": propertyID.String(),
	})

	result, err := h.propertyUC.Execute(r.Context(), propertyID, domain.MatchOptions{MinScore: minScore, Limit: limit})
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}
	h.metrics.ObserveMatches("property", len(result.Matches))

	RespondWithJSON(w, http.StatusOK, PropertyMatchesResponse{
		Property:       toPropertyResponse(result.Property),
		Matches:        toRequirementMatchResponses(result.Matches),
		Total:          len(result.Matches),
		TotalQualified: result.TotalCount,
	})
}

// CountMatches обрабатывает POST /api/v1/requirements/match-counts
func (h *MatchHandler) CountMatches(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var req MatchCountsRequest
	if err := decodeValidated(w, r, contracts.MatchCountsRequestV1, &req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":      "CountMatches",
		"requirements": len(req.RequirementIDs),
	})

	counts, err := h.countMatchesUC.Execute(r.Context(), req.RequirementIDs, domain.MatchOptions{MinScore: req.MinScore})
	if err != nil {
		writeUseCaseError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, MatchCountsResponse{Counts: counts})
}

// Health - проверка живости для оркестратора
func Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
