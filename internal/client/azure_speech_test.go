package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Volker37318/pronounce-backend/internal/errors"
)

func TestContentTypeFor(t *testing.T) {
	if got := ContentTypeFor("audio/ogg;codecs=opus"); got != ContentTypeOpus {
		t.Errorf("ogg content type = %q", got)
	}
	if got := ContentTypeFor("audio/wav"); got != ContentTypeWAV {
		t.Errorf("wav content type = %q", got)
	}
	if got := ContentTypeFor(""); got != ContentTypeWAV {
		t.Errorf("unknown container should default to wav, got %q", got)
	}
}

func TestAssessPronunciationRequestShape(t *testing.T) {
	var gotReq *http.Request
	var gotParams map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())

		decoded, err := base64.StdEncoding.DecodeString(r.Header.Get("Pronunciation-Assessment"))
		if err != nil {
			t.Errorf("assessment header is not base64: %v", err)
		}
		if err := json.Unmarshal(decoded, &gotParams); err != nil {
			t.Errorf("assessment header is not base64 JSON: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"RecognitionStatus": "Success"})
	}))
	defer srv.Close()

	c := NewAzureSpeechClient("test-key", "", srv.URL)
	resp, err := c.AssessPronunciation(context.Background(), []byte("audio-bytes"), ContentTypeWAV, AssessmentOptions{
		ReferenceText: "hello",
		Language:      "en-US",
		EnableMiscue:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RecognitionStatus != "Success" {
		t.Errorf("RecognitionStatus = %q", resp.RecognitionStatus)
	}

	if gotReq.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
		t.Error("subscription key header not set")
	}
	if ct := gotReq.Header.Get("Content-Type"); ct != ContentTypeWAV {
		t.Errorf("Content-Type = %q", ct)
	}
	q := gotReq.URL.Query()
	if q.Get("language") != "en-US" || q.Get("format") != "detailed" {
		t.Errorf("query = %q", gotReq.URL.RawQuery)
	}
	if gotReq.URL.Path != "/speech/recognition/conversation/cognitiveservices/v1" {
		t.Errorf("path = %q", gotReq.URL.Path)
	}

	want := map[string]string{
		"ReferenceText": "hello",
		"GradingSystem": "HundredMark",
		"Granularity":   "Phoneme",
		"Dimension":     "Comprehensive",
		"EnableMiscue":  "True",
	}
	for k, v := range want {
		if gotParams[k] != v {
			t.Errorf("assessment param %s = %q, want %q", k, gotParams[k], v)
		}
	}
}

func TestAssessPronunciationMiscueDisabled(t *testing.T) {
	var gotParams map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decoded, _ := base64.StdEncoding.DecodeString(r.Header.Get("Pronunciation-Assessment"))
		json.Unmarshal(decoded, &gotParams)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewAzureSpeechClient("test-key", "", srv.URL)
	if _, err := c.AssessPronunciation(context.Background(), []byte("x"), ContentTypeWAV, AssessmentOptions{
		ReferenceText: "hi",
		Language:      "en-US",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotParams["EnableMiscue"] != "False" {
		t.Errorf("EnableMiscue = %q, want False", gotParams["EnableMiscue"])
	}
}

func TestAssessPronunciationUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad audio"}`))
	}))
	defer srv.Close()

	c := NewAzureSpeechClient("test-key", "", srv.URL)
	_, err := c.AssessPronunciation(context.Background(), []byte("x"), ContentTypeWAV, AssessmentOptions{
		ReferenceText: "hi",
		Language:      "en-US",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if appErr.Code != errors.ErrUpstream {
		t.Errorf("code = %s", appErr.Code)
	}
	if appErr.Details["azureStatus"] != http.StatusBadRequest {
		t.Errorf("azureStatus = %v", appErr.Details["azureStatus"])
	}
	body, ok := appErr.Details["azureBody"].(map[string]interface{})
	if !ok || body["error"] != "bad audio" {
		t.Errorf("azureBody = %v", appErr.Details["azureBody"])
	}
}

func TestAssessPronunciationNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream melted"))
	}))
	defer srv.Close()

	c := NewAzureSpeechClient("test-key", "", srv.URL)
	_, err := c.AssessPronunciation(context.Background(), []byte("x"), ContentTypeWAV, AssessmentOptions{
		ReferenceText: "hi",
		Language:      "en-US",
	})
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	body, ok := appErr.Details["azureBody"].(map[string]interface{})
	if !ok || body["raw"] != "upstream melted" {
		t.Errorf("azureBody = %v", appErr.Details["azureBody"])
	}
}

func TestAssessPronunciationUnparseableSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<xml>not json</xml>"))
	}))
	defer srv.Close()

	c := NewAzureSpeechClient("test-key", "", srv.URL)
	resp, err := c.AssessPronunciation(context.Background(), []byte("x"), ContentTypeWAV, AssessmentOptions{
		ReferenceText: "hi",
		Language:      "en-US",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.NBest) != 0 || resp.RecognitionStatus != "" {
		t.Errorf("expected empty result, got %+v", resp)
	}
}

func TestAssessPronunciationMissingCredentials(t *testing.T) {
	c := NewAzureSpeechClient("", "", "")
	_, err := c.AssessPronunciation(context.Background(), []byte("x"), ContentTypeWAV, AssessmentOptions{})
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrConfig {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}
