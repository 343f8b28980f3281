//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/jsphweid/mmlcodec/cmd"
	"github.com/jsphweid/mmlcodec/midi"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/stretchr/testify/assert"
)

var scale = []uint8{60, 62, 64, 65, 67, 69, 71, 72}

func TestMain(m *testing.M) {
	os.Unsetenv("DYNAMO_ENDPOINT")
	if err := cmd.LoadServeStore(); err != nil {
		panic(err.Error())
	}

	exitVal := m.Run()

	os.Exit(exitVal)
}

func scaleMidi() []byte {
	var notes []model.NoteEvent
	for i, p := range scale {
		notes = append(notes, model.NoteEvent{Pitch: p, Start: i * 480, Duration: 480, Velocity: 0.8})
	}
	var buf bytes.Buffer
	tracks := []model.Track{{Name: "scale", Notes: notes}}
	if err := midi.Write(&buf, tracks, []model.TempoEvent{{Tick: 0, BPM: 120}}, 480); err != nil {
		panic(err.Error())
	}
	return buf.Bytes()
}

func postConvert(t *testing.T, query string, body []byte) (int, model.ConvertResponse) {
	req := httptest.NewRequest(http.MethodPost, "/convert"+query, bytes.NewReader(body))
	w := httptest.NewRecorder()
	cmd.HandleConvert(w, req)

	resp := w.Result()
	var res model.ConvertResponse
	if resp.StatusCode == http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		assert.NoError(t, json.Unmarshal(respBody, &res))
	}
	return resp.StatusCode, res
}

func TestConvertScaleE2E(t *testing.T) {
	status, res := postConvert(t, "?players=1&compress=false", scaleMidi())

	assert := assert.New(t)
	assert.Equal(http.StatusOK, status)
	assert.NotEmpty(res.Key)
	assert.Contains(res.Score, "MML@")
	assert.Len(res.Parts, 3)
	assert.False(res.Cached)
	for _, p := range res.Parts {
		assert.LessOrEqual(p.Length, p.Budget)
	}

	status, again := postConvert(t, "?players=1&compress=false", scaleMidi())
	assert.Equal(http.StatusOK, status)
	assert.True(again.Cached)
	assert.Equal(res.Key, again.Key)
	assert.Equal(res.Score, again.Score)
}

func TestGetScoreE2E(t *testing.T) {
	_, res := postConvert(t, "?players=2&split=sequential", scaleMidi())
	router := cmd.NewRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scores/"+res.Key, nil))
	body, _ := io.ReadAll(w.Result().Body)
	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.Equal(t, res.Score, string(body))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scores/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestDecodeE2E(t *testing.T) {
	_, converted := postConvert(t, "?players=1&compress=false", scaleMidi())
	data, _ := json.Marshal(model.DecodeRequestBody{Score: converted.Score, PPQ: 480})

	req := httptest.NewRequest(http.MethodPost, "/decode", bytes.NewReader(data))
	w := httptest.NewRecorder()
	cmd.HandleDecode(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)
	var res model.DecodeResponse
	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.NoError(json.Unmarshal(respBody, &res))
	assert.Equal(480, res.PPQ)
	assert.Len(res.Tracks, 3)

	melody := res.Tracks[0]
	assert.True(strings.HasSuffix(melody.Name, "melody"))
	assert.Len(melody.Notes, len(scale))
	for i, n := range melody.Notes {
		assert.Equal(scale[i], n.Pitch)
		assert.Equal(i*480, n.Start)
	}
	assert.Empty(res.Tracks[1].Notes)
}

func TestBadRequestsE2E(t *testing.T) {
	status, _ := postConvert(t, "?players=0", scaleMidi())
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = postConvert(t, "?split=diagonal", scaleMidi())
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = postConvert(t, "", []byte("not a midi file"))
	assert.Equal(t, http.StatusBadRequest, status)

	req := httptest.NewRequest(http.MethodPost, "/decode", strings.NewReader(`{"score": "no block here"}`))
	w := httptest.NewRecorder()
	cmd.HandleDecode(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestLookupScoresE2E(t *testing.T) {
	_, one := postConvert(t, "?players=1", scaleMidi())
	_, two := postConvert(t, "?players=3", scaleMidi())
	data, _ := json.Marshal(model.LookupRequestBody{Keys: []string{one.Key, two.Key, "missing"}})

	w := httptest.NewRecorder()
	cmd.NewRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scores/lookup", bytes.NewReader(data)))

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)
	var res model.LookupResponse
	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.NoError(json.Unmarshal(respBody, &res))
	assert.Equal(map[string]string{one.Key: one.Score, two.Key: two.Score}, res.Scores)
}
