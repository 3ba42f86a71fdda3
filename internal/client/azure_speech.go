package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Volker37318/pronounce-backend/internal/audio"
	"github.com/Volker37318/pronounce-backend/internal/errors"
)

// Content types accepted by the short-audio REST endpoint.
const (
	ContentTypeWAV  = "audio/wav; codecs=audio/pcm; samplerate=16000"
	ContentTypeOpus = "audio/ogg; codecs=opus"
)

// ContentTypeFor maps a detected audio container to the upstream body
// content type. Anything that is not Ogg/Opus is sent as 16kHz PCM WAV.
func ContentTypeFor(mime string) string {
	if audio.IsOgg(mime) {
		return ContentTypeOpus
	}
	return ContentTypeWAV
}

// PronunciationScores is the nested assessment-scores object of an NBest
// candidate. All fields are optional in the upstream response.
type PronunciationScores struct {
	AccuracyScore     *float64 `json:"AccuracyScore,omitempty"`
	FluencyScore      *float64 `json:"FluencyScore,omitempty"`
	CompletenessScore *float64 `json:"CompletenessScore,omitempty"`
	PronScore         *float64 `json:"PronScore,omitempty"`
}

// Candidate is a single NBest recognition candidate.
type Candidate struct {
	Lexical                 string               `json:"Lexical,omitempty"`
	Display                 string               `json:"Display,omitempty"`
	PronunciationAssessment *PronunciationScores `json:"PronunciationAssessment,omitempty"`
	// Words is kept raw so per-word records pass through to the caller
	// untouched.
	Words json.RawMessage `json:"Words,omitempty"`
}

// AssessmentResponse is the detailed-format response of the short-audio API.
type AssessmentResponse struct {
	RecognitionStatus string      `json:"RecognitionStatus,omitempty"`
	DisplayText       string      `json:"DisplayText,omitempty"`
	NBest             []Candidate `json:"NBest,omitempty"`
}

// AssessmentOptions configures a pronunciation-assessment call.
type AssessmentOptions struct {
	ReferenceText string
	Language      string
	EnableMiscue  bool
}

// AzureSpeechClient wraps the Azure AI Speech REST API.
type AzureSpeechClient struct {
	apiKey   string
	region   string
	endpoint string
	client   *http.Client
}

// NewAzureSpeechClient creates a new Azure Speech client. endpoint, when
// non-empty, overrides the region-derived URL.
func NewAzureSpeechClient(apiKey, region, endpoint string) *AzureSpeechClient {
	return &AzureSpeechClient{
		apiKey:   apiKey,
		region:   region,
		endpoint: strings.TrimRight(endpoint, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AssessPronunciation sends audio to the short-audio recognition API with a
// pronunciation-assessment configuration header and returns the parsed
// detailed result.
// Docs: https://learn.microsoft.com/en-us/azure/ai-services/speech-service/rest-speech-to-text-short
func (c *AzureSpeechClient) AssessPronunciation(ctx context.Context, audioData []byte, contentType string, opts AssessmentOptions) (*AssessmentResponse, error) {
	if c.apiKey == "" || (c.region == "" && c.endpoint == "") {
		return nil, errors.Config("Azure Speech credentials not configured")
	}

	target, err := c.recognitionURL(opts.Language)
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(audioData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// The assessment config rides in a header as base64-encoded JSON. The
	// API wants EnableMiscue as the literal strings "True"/"False".
	miscue := "False"
	if opts.EnableMiscue {
		miscue = "True"
	}
	pronAssessmentParams := map[string]interface{}{
		"ReferenceText": opts.ReferenceText,
		"GradingSystem": "HundredMark",
		"Granularity":   "Phoneme",
		"Dimension":     "Comprehensive",
		"EnableMiscue":  miscue,
	}
	jsonBytes, err := json.Marshal(pronAssessmentParams)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}
	req.Header.Set("Pronunciation-Assessment", base64.StdEncoding.EncodeToString(jsonBytes))

	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json;text/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUpstream, "azure speech call failed", err)
	}
	defer resp.Body.Close()

	// Read the whole body as text first; the API is not guaranteed to
	// return JSON on errors.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUpstream, "failed to read azure response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Upstream(fmt.Sprintf("azure speech api returned %d", resp.StatusCode)).
			WithDetails(map[string]interface{}{
				"azureStatus": resp.StatusCode,
				"azureBody":   parseOrWrap(body),
			})
	}

	var result AssessmentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		// A success status with an unparseable body yields an empty
		// result; all dependent fields fall back downstream.
		return &AssessmentResponse{}, nil
	}
	return &result, nil
}

func (c *AzureSpeechClient) recognitionURL(language string) (string, error) {
	q := url.Values{}
	q.Set("language", language)
	q.Set("format", "detailed")

	if c.endpoint != "" {
		u, err := url.Parse(c.endpoint)
		if err != nil {
			return "", err
		}
		if u.Path == "" || u.Path == "/" {
			u.Path = "/speech/recognition/conversation/cognitiveservices/v1"
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	}

	u := url.URL{
		Scheme:   "https",
		Host:     fmt.Sprintf("%s.stt.speech.microsoft.com", c.region),
		Path:     "/speech/recognition/conversation/cognitiveservices/v1",
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

// parseOrWrap decodes a body as JSON, wrapping non-JSON text in a raw object
// so the caller always gets something JSON-shaped back.
func parseOrWrap(body []byte) interface{} {
	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return map[string]interface{}{"raw": string(body)}
	}
	return parsed
}
