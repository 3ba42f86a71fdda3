package service

import (
	"bytes"
	"context"
	"encoding/json"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Volker37318/pronounce-backend/internal/audio"
	"github.com/Volker37318/pronounce-backend/internal/client"
	"github.com/Volker37318/pronounce-backend/internal/config"
	"github.com/Volker37318/pronounce-backend/internal/errors"
)

// Grade tiers for the overall score.
const (
	GradeExcellent = "excellent" // >= 90
	GradeGood      = "good"      // >= 80
	GradeFair      = "fair"      // >= 70
	GradePoor      = "poor"
)

// AssessmentRequest is the inbound pronounce request body.
type AssessmentRequest struct {
	TargetText  string `json:"targetText"`
	Language    string `json:"language"`
	AudioBase64 string `json:"audioBase64"`
	// EnableMiscue defaults to true when omitted.
	EnableMiscue *bool  `json:"enableMiscue,omitempty"`
	AudioMime    string `json:"audioMime,omitempty"`
}

// AssessmentDetails carries the echoed input and the upstream breakdown.
type AssessmentDetails struct {
	AssessmentID      string          `json:"assessmentId"`
	TargetText        string          `json:"targetText"`
	Language          string          `json:"language"`
	RecognizedText    string          `json:"recognizedText"`
	AccuracyScore     *float64        `json:"accuracyScore"`
	FluencyScore      *float64        `json:"fluencyScore"`
	CompletenessScore *float64        `json:"completenessScore"`
	PronScore         *float64        `json:"pronScore"`
	Words             json.RawMessage `json:"words"`
	RecognitionStatus string          `json:"recognitionStatus"`
}

// AssessmentResult is the outbound pronounce response body.
type AssessmentResult struct {
	OverallScore int               `json:"overallScore"`
	Grade        string            `json:"grade"`
	Details      AssessmentDetails `json:"details"`
}

// PronounceService relays audio to the Azure pronunciation-assessment API and
// reshapes the detailed result.
type PronounceService struct {
	log         zerolog.Logger
	cfg         *config.Config
	azureClient *client.AzureSpeechClient
}

// NewPronounceService creates a new pronounce service.
func NewPronounceService(log zerolog.Logger, cfg *config.Config, azureClient *client.AzureSpeechClient) *PronounceService {
	return &PronounceService{
		log:         log,
		cfg:         cfg,
		azureClient: azureClient,
	}
}

// Assess validates the request, forwards the audio upstream and shapes the
// score/grade result. Validation is fail-fast: the upstream call is never
// attempted once a check fails.
func (s *PronounceService) Assess(ctx context.Context, req *AssessmentRequest) (*AssessmentResult, error) {
	if req.TargetText == "" || req.Language == "" || req.AudioBase64 == "" {
		return nil, errors.Validation("targetText, language and audioBase64 are required")
	}

	if !s.cfg.AzureConfigured() {
		return nil, errors.Config("speech service is not configured")
	}

	data, hintMIME, err := audio.DecodeBase64MaybeDataURL(req.AudioBase64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrValidation, "audioBase64 is not valid base64", err)
	}

	mime := audio.ResolveMIME(req.AudioMime, hintMIME, data)
	if audio.IsWebM(mime) {
		// The short-audio REST API has no WebM decoder; browsers should
		// record Opus-in-Ogg or PCM WAV instead.
		return nil, errors.Validation("webm audio is not supported; use audio/ogg (opus) or audio/wav (pcm)")
	}

	if len(data) < audio.MinBytes {
		return nil, errors.Validation("audio is too short or empty")
	}

	enableMiscue := true
	if req.EnableMiscue != nil {
		enableMiscue = *req.EnableMiscue
	}

	assessmentID := uuid.NewString()
	s.log.Info().
		Str("assessment_id", assessmentID).
		Str("language", req.Language).
		Str("container", mime).
		Int("audio_bytes", len(data)).
		Msg("Forwarding pronunciation assessment")

	resp, err := s.azureClient.AssessPronunciation(ctx, data, client.ContentTypeFor(mime), client.AssessmentOptions{
		ReferenceText: req.TargetText,
		Language:      req.Language,
		EnableMiscue:  enableMiscue,
	})
	if err != nil {
		return nil, err
	}

	result := s.shapeResult(assessmentID, req, resp)
	s.log.Info().
		Str("assessment_id", assessmentID).
		Int("overall_score", result.OverallScore).
		Str("grade", result.Grade).
		Msg("Pronunciation assessment completed")
	return result, nil
}

func (s *PronounceService) shapeResult(assessmentID string, req *AssessmentRequest, resp *client.AssessmentResponse) *AssessmentResult {
	details := AssessmentDetails{
		AssessmentID:      assessmentID,
		TargetText:        req.TargetText,
		Language:          req.Language,
		Words:             json.RawMessage("[]"),
		RecognitionStatus: resp.RecognitionStatus,
	}

	var best *client.Candidate
	if len(resp.NBest) > 0 {
		best = &resp.NBest[0]
	}

	if best != nil {
		if scores := best.PronunciationAssessment; scores != nil {
			details.AccuracyScore = scores.AccuracyScore
			details.FluencyScore = scores.FluencyScore
			details.CompletenessScore = scores.CompletenessScore
			details.PronScore = scores.PronScore
		}
		if words := bytes.TrimSpace(best.Words); len(words) > 0 && words[0] == '[' {
			details.Words = best.Words
		}
	}

	details.RecognizedText = recognizedText(best, resp.DisplayText)

	overall := 0
	if details.PronScore != nil {
		overall = int(math.Round(*details.PronScore))
	} else if details.AccuracyScore != nil {
		overall = int(math.Round(*details.AccuracyScore))
	}

	return &AssessmentResult{
		OverallScore: overall,
		Grade:        GradeFor(overall),
		Details:      details,
	}
}

func recognizedText(best *client.Candidate, displayText string) string {
	if best != nil {
		if best.Lexical != "" {
			return best.Lexical
		}
		if best.Display != "" {
			return best.Display
		}
	}
	return displayText
}

// GradeFor maps an overall score to its grade tier.
func GradeFor(score int) string {
	switch {
	case score >= 90:
		return GradeExcellent
	case score >= 80:
		return GradeGood
	case score >= 70:
		return GradeFair
	default:
		return GradePoor
	}
}
