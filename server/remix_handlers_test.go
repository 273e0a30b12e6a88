package server

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"retunefm/config"
	"retunefm/core/plan"
)

// fakeRenderer records invocations so tests can assert the rendering engine
// is never reached when planning fails.
type fakeRenderer struct {
	renderCalls   int
	durationCalls int
}

func (f *fakeRenderer) Render(inputFile, outputFile string, p *plan.TransformPlan) error {
	f.renderCalls++
	return nil
}

func (f *fakeRenderer) Duration(inputFile string) (float32, error) {
	f.durationCalls++
	return 0, nil
}

func newTestHandler() *APIHandler {
	// PlanHandler is pure planning; repo and renderer are never reached.
	return NewAPIHandler(nil, nil, &config.Config{MaxUploadMB: 100, OutputFormat: "mp3"})
}

func postPlan(t *testing.T, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/plan", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newTestHandler().PlanHandler(rr, req)
	return rr
}

func TestPlanHandler(t *testing.T) {
	rr := postPlan(t, map[string]interface{}{
		"filename":  "Song_Cmajor_128.mp3",
		"targetKey": "a minor",
		"targetBpm": 96,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d (body: %s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		Metadata struct {
			Key   *string `json:"key"`
			Tempo *int    `json:"tempo"`
		} `json:"metadata"`
		Plan struct {
			SemitoneShift int       `json:"semitoneShift"`
			PitchFactor   float64   `json:"pitchFactor"`
			TempoStages   []float64 `json:"tempoStages"`
		} `json:"plan"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if resp.Metadata.Key == nil || *resp.Metadata.Key != "c major" {
		t.Fatalf("metadata key = %v; want \"c major\"", resp.Metadata.Key)
	}
	if resp.Metadata.Tempo == nil || *resp.Metadata.Tempo != 128 {
		t.Fatalf("metadata tempo = %v; want 128", resp.Metadata.Tempo)
	}
	if resp.Plan.SemitoneShift != 0 || resp.Plan.PitchFactor != 1.0 {
		t.Fatalf("shift/factor = %d/%v; want 0/1.0", resp.Plan.SemitoneShift, resp.Plan.PitchFactor)
	}
	product := 1.0
	for _, stage := range resp.Plan.TempoStages {
		product *= stage
	}
	if math.Abs(product-0.75) > 1e-6 {
		t.Fatalf("stage product = %v; want 0.75", product)
	}
}

func TestPlanHandlerRejectsMissingMetadata(t *testing.T) {
	rr := postPlan(t, map[string]interface{}{
		"filename":  "track_without_metadata.wav",
		"targetKey": "a minor",
		"targetBpm": 90,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestPlanHandlerRejectsUnknownKey(t *testing.T) {
	rr := postPlan(t, map[string]interface{}{
		"filename":  "Song_Cmajor_128.mp3",
		"targetKey": "z sharp",
		"targetBpm": 90,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestPlanHandlerRejectsBadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/plan", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	newTestHandler().PlanHandler(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want %d", rr.Code, http.StatusBadRequest)
	}

	rr = postPlan(t, map[string]interface{}{"targetKey": "a minor", "targetBpm": 90})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing filename status = %d; want %d", rr.Code, http.StatusBadRequest)
	}
}

func postRemix(t *testing.T, renderer *fakeRenderer, filename, targetKey, targetBpm string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("trackFile", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("not real audio")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.WriteField("targetKey", targetKey); err != nil {
		t.Fatalf("write targetKey: %v", err)
	}
	if err := mw.WriteField("targetBpm", targetBpm); err != nil {
		t.Fatalf("write targetBpm: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/remix", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	h := NewAPIHandler(nil, renderer, &config.Config{
		MaxUploadMB:  100,
		OutputFormat: "mp3",
		UploadDir:    t.TempDir(),
		RenderDir:    t.TempDir(),
	})
	h.RemixHandler(rr, req)
	return rr
}

func TestRemixHandlerShortCircuitsOnMissingMetadata(t *testing.T) {
	renderer := &fakeRenderer{}
	rr := postRemix(t, renderer, "track_without_metadata.wav", "a minor", "90")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want %d (body: %s)", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
	if renderer.renderCalls != 0 || renderer.durationCalls != 0 {
		t.Fatalf("renderer invoked %d/%d times; want 0/0 when planning fails",
			renderer.renderCalls, renderer.durationCalls)
	}
}

func TestRemixHandlerShortCircuitsOnUnknownTargetKey(t *testing.T) {
	renderer := &fakeRenderer{}
	rr := postRemix(t, renderer, "Song_Cmajor_128.mp3", "z major", "90")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want %d (body: %s)", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
	if renderer.renderCalls != 0 || renderer.durationCalls != 0 {
		t.Fatalf("renderer invoked %d/%d times; want 0/0 when planning fails",
			renderer.renderCalls, renderer.durationCalls)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Song Cmajor 128.mp3", "Song_Cmajor_128.mp3"},
		{"../../etc/passwd", "....etcpasswd"},
		{"", "upload"},
		{"normal_file-1.wav", "normal_file-1.wav"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Fatalf("sanitizeFilename(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
