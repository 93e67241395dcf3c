package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
	"github.com/heartmarshall/masquerade-backend/internal/service/recognition"
	"github.com/heartmarshall/masquerade-backend/pkg/ctxutil"
)

// recognitionService defines the minimal interface needed by RecognitionHandler.
type recognitionService interface {
	Recognize(ctx context.Context, input recognition.RecognizeInput) (*recognition.RecognizeResult, error)
	Revoke(ctx context.Context, input recognition.RevokeInput) (*recognition.EdgeResult, error)
	Challenge(ctx context.Context, input recognition.ChallengeInput) (*recognition.EdgeResult, error)
	Compliment(ctx context.Context, input recognition.ComplimentInput) error
	GetEdge(ctx context.Context, recognizerID, targetID uuid.UUID) (*recognition.EdgeView, error)
	GetStats(ctx context.Context, participantID uuid.UUID) (*recognition.Stats, error)
}

// RecognitionHandler serves the recognition REST endpoints. Every route
// acts on behalf of the authenticated participant.
type RecognitionHandler struct {
	svc recognitionService
	log *slog.Logger
}

// NewRecognitionHandler creates a RecognitionHandler.
func NewRecognitionHandler(svc recognitionService, logger *slog.Logger) *RecognitionHandler {
	return &RecognitionHandler{svc: svc, log: logger.With("handler", "recognition")}
}

type recognizeRequest struct {
	TargetID string          `json:"targetId"`
	Evidence evidenceRequest `json:"evidence"`
}

type evidenceRequest struct {
	Kind      string `json:"kind"`
	Guess     string `json:"guess,omitempty"`
	ContentID string `json:"contentId,omitempty"`
}

type complimentRequest struct {
	Text string `json:"text"`
}

type recognizeResponse struct {
	EdgeState       string                  `json:"edgeState"`
	Reputation      *reputationResponse     `json:"reputation,omitempty"`
	UnlockedBadges  []string                `json:"unlockedBadges"`
	RecognizerStats recognitionStatsPayload `json:"recognizerStats"`
}

type mismatchResponse struct {
	errorResponse
	RecognizerStats recognitionStatsPayload `json:"recognizerStats"`
}

type reputationResponse struct {
	Score           int             `json:"score"`
	PeakRecognizers int             `json:"peakRecognizers"`
	Badges          []badgeResponse `json:"badges"`
}

type badgeResponse struct {
	Badge           string    `json:"badge"`
	FirstUnlockedAt time.Time `json:"firstUnlockedAt"`
}

type recognitionStatsPayload struct {
	TotalAttempts   int        `json:"totalAttempts"`
	CorrectAttempts int        `json:"correctAttempts"`
	SuccessRate     float64    `json:"successRate"`
	LastChallengeAt *time.Time `json:"lastChallengeAt,omitempty"`
}

type edgeResultResponse struct {
	EdgeState           string     `json:"edgeState"`
	CanRecognizeAgainAt *time.Time `json:"canRecognizeAgainAt,omitempty"`
}

type edgeResponse struct {
	RecognizerID             string               `json:"recognizerId"`
	TargetID                 string               `json:"targetId"`
	State                    string               `json:"state"`
	EstablishedAt            *time.Time           `json:"establishedAt,omitempty"`
	IsChallengeable          bool                 `json:"isChallengeable"`
	LastRevokedAt            *time.Time           `json:"lastRevokedAt,omitempty"`
	CanRecognizeAgainAt      *time.Time           `json:"canRecognizeAgainAt,omitempty"`
	RecognizeCooldownSeconds int64                `json:"recognizeCooldownSeconds"`
	RevokeCooldownSeconds    int64                `json:"revokeCooldownSeconds"`
	Compliments              []complimentResponse `json:"compliments"`
}

type complimentResponse struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type statsResponse struct {
	ParticipantID       string               `json:"participantId"`
	RecognizedCount     int                  `json:"recognizedCount"`
	RecognizedByCount   int                  `json:"recognizedByCount"`
	MutualCount         int                  `json:"mutualCount"`
	Reputation          reputationResponse   `json:"reputation"`
	RecognitionRate     float64              `json:"recognitionRate"`
	ComplimentsGiven    int                  `json:"complimentsGiven"`
	ComplimentsReceived int                  `json:"complimentsReceived"`
	RecentCompliments   []complimentResponse `json:"recentCompliments"`
}

// Recognize handles POST /recognitions.
func (h *RecognitionHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	self, ok := h.participant(w, r)
	if !ok {
		return
	}

	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := recognition.RecognizeInput{
		RecognizerID: self,
		TargetID:     parseOptionalUUID(req.TargetID),
		Evidence: domain.Evidence{
			Kind:      domain.EvidenceKind(req.Evidence.Kind),
			Guess:     req.Evidence.Guess,
			ContentID: parseOptionalUUID(req.Evidence.ContentID),
		},
	}
	if req.TargetID != "" && input.TargetID == uuid.Nil {
		handleError(h.log, w, r, domain.NewValidationError("targetId", "must be a UUID"))
		return
	}
	if req.Evidence.ContentID != "" && input.Evidence.ContentID == uuid.Nil {
		handleError(h.log, w, r, domain.NewValidationError("evidence.contentId", "must be a UUID"))
		return
	}

	result, err := h.svc.Recognize(r.Context(), input)
	if errors.Is(err, domain.ErrEvidenceMismatch) && result != nil {
		writeJSON(w, http.StatusUnprocessableEntity, mismatchResponse{
			errorResponse:   errorResponse{Error: "evidence does not match", Kind: "EVIDENCE_MISMATCH"},
			RecognizerStats: toStatsPayload(result.RecognizerStats),
		})
		return
	}
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecognizeResponse(result))
}

// Revoke handles DELETE /recognitions/{targetId}.
func (h *RecognitionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	self, ok := h.participant(w, r)
	if !ok {
		return
	}
	targetID, ok := pathUUID(h.log, w, r, "targetId")
	if !ok {
		return
	}

	result, err := h.svc.Revoke(r.Context(), recognition.RevokeInput{RecognizerID: self, TargetID: targetID})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEdgeResultResponse(result))
}

// GetEdge handles GET /recognitions/{targetId}.
func (h *RecognitionHandler) GetEdge(w http.ResponseWriter, r *http.Request) {
	self, ok := h.participant(w, r)
	if !ok {
		return
	}
	targetID, ok := pathUUID(h.log, w, r, "targetId")
	if !ok {
		return
	}

	view, err := h.svc.GetEdge(r.Context(), self, targetID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEdgeResponse(view))
}

// Compliment handles POST /recognitions/{targetId}/compliments.
func (h *RecognitionHandler) Compliment(w http.ResponseWriter, r *http.Request) {
	self, ok := h.participant(w, r)
	if !ok {
		return
	}
	targetID, ok := pathUUID(h.log, w, r, "targetId")
	if !ok {
		return
	}

	var req complimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.svc.Compliment(r.Context(), recognition.ComplimentInput{
		RecognizerID: self,
		TargetID:     targetID,
		Text:         req.Text,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Challenge handles POST /challenges/{recognizerId}. The authenticated
// participant is the target challenging one of its recognizers.
func (h *RecognitionHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	self, ok := h.participant(w, r)
	if !ok {
		return
	}
	recognizerID, ok := pathUUID(h.log, w, r, "recognizerId")
	if !ok {
		return
	}

	result, err := h.svc.Challenge(r.Context(), recognition.ChallengeInput{TargetID: self, RecognizerID: recognizerID})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEdgeResultResponse(result))
}

// Stats handles GET /participants/{id}/stats.
func (h *RecognitionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(h.log, w, r, "id")
	if !ok {
		return
	}

	stats, err := h.svc.GetStats(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatsResponse(stats))
}

func (h *RecognitionHandler) participant(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := ctxutil.ParticipantIDFromCtx(r.Context())
	if !ok {
		handleError(h.log, w, r, domain.ErrUnauthorized)
		return uuid.Nil, false
	}
	return id, true
}

func pathUUID(log *slog.Logger, w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil || id == uuid.Nil {
		handleError(log, w, r, domain.NewValidationError(name, "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUID returns uuid.Nil for empty or malformed input; callers
// distinguish the two by checking the raw string.
func parseOptionalUUID(s string) uuid.UUID {
	if s == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func toRecognizeResponse(res *recognition.RecognizeResult) recognizeResponse {
	out := recognizeResponse{
		EdgeState:       res.EdgeState.String(),
		UnlockedBadges:  make([]string, 0, len(res.UnlockedBadges)),
		RecognizerStats: toStatsPayload(res.RecognizerStats),
	}
	if res.Reputation != nil {
		rep := toReputationResponse(*res.Reputation)
		out.Reputation = &rep
	}
	for _, b := range res.UnlockedBadges {
		out.UnlockedBadges = append(out.UnlockedBadges, b.String())
	}
	return out
}

func toReputationResponse(rep domain.Reputation) reputationResponse {
	out := reputationResponse{
		Score:           rep.Score,
		PeakRecognizers: rep.PeakRecognizers,
		Badges:          make([]badgeResponse, 0, len(rep.Badges)),
	}
	for _, b := range rep.Badges {
		out.Badges = append(out.Badges, badgeResponse{Badge: b.Badge.String(), FirstUnlockedAt: b.FirstUnlockedAt})
	}
	return out
}

func toStatsPayload(s domain.RecognitionStats) recognitionStatsPayload {
	return recognitionStatsPayload{
		TotalAttempts:   s.TotalAttempts,
		CorrectAttempts: s.CorrectAttempts,
		SuccessRate:     s.SuccessRate,
		LastChallengeAt: s.LastChallengeAt,
	}
}

func toEdgeResultResponse(res *recognition.EdgeResult) edgeResultResponse {
	return edgeResultResponse{
		EdgeState:           res.EdgeState.String(),
		CanRecognizeAgainAt: res.CanRecognizeAgainAt,
	}
}

func toEdgeResponse(v *recognition.EdgeView) edgeResponse {
	return edgeResponse{
		RecognizerID:             v.RecognizerID.String(),
		TargetID:                 v.TargetID.String(),
		State:                    v.State.String(),
		EstablishedAt:            v.EstablishedAt,
		IsChallengeable:          v.IsChallengeable,
		LastRevokedAt:            v.LastRevokedAt,
		CanRecognizeAgainAt:      v.CanRecognizeAgainAt,
		RecognizeCooldownSeconds: int64(v.RecognizeCooldown / time.Second),
		RevokeCooldownSeconds:    int64(v.RevokeCooldown / time.Second),
		Compliments:              toComplimentResponses(v.Compliments),
	}
}

func toStatsResponse(s *recognition.Stats) statsResponse {
	return statsResponse{
		ParticipantID:       s.ParticipantID.String(),
		RecognizedCount:     s.RecognizedCount,
		RecognizedByCount:   s.RecognizedByCount,
		MutualCount:         s.MutualCount,
		Reputation:          toReputationResponse(s.Reputation),
		RecognitionRate:     s.RecognitionRate,
		ComplimentsGiven:    s.ComplimentsGiven,
		ComplimentsReceived: s.ComplimentsReceived,
		RecentCompliments:   toComplimentResponses(s.RecentCompliments),
	}
}

func toComplimentResponses(cs []domain.Compliment) []complimentResponse {
	out := make([]complimentResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, complimentResponse{Text: c.Text, CreatedAt: c.CreatedAt})
	}
	return out
}
