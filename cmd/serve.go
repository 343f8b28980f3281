package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/mmlcodec/constants"
	"github.com/jsphweid/mmlcodec/convert"
	"github.com/jsphweid/mmlcodec/db"
	"github.com/jsphweid/mmlcodec/logger"
	"github.com/jsphweid/mmlcodec/midi"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/score"
	"github.com/jsphweid/mmlcodec/voice"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// maxUploadBytes caps MIDI uploads and score bodies.
const maxUploadBytes = 8 << 20

var store db.Cache

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves conversion over HTTP",
	Long:  `Serves POST /convert, POST /decode, GET /scores/{key} and POST /scores/lookup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadServeStore(); err != nil {
			return err
		}
		logger.Infof("listening on %s", constants.ServerAddr)
		return http.ListenAndServe(constants.ServerAddr, NewRouter())
	},
}

// LoadServeStore picks DynamoDB when DYNAMO_ENDPOINT is set and an in-memory
// cache otherwise.
func LoadServeStore() error {
	endpoint := constants.GetDynamoEndpoint()
	if endpoint == "" {
		store = db.NewMemoryStore()
		return nil
	}
	s, err := db.NewScoreStore(endpoint, constants.GetDynamoTable())
	if err != nil {
		return err
	}
	store = s
	return nil
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(requestID)
	router.HandleFunc("/convert", HandleConvert).Methods("POST")
	router.HandleFunc("/decode", HandleDecode).Methods("POST")
	router.HandleFunc("/scores/lookup", HandleLookupScores).Methods("POST")
	router.HandleFunc("/scores/{key}", HandleGetScore).Methods("GET")
	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(router)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		logger.Debugf("%s %s %s", id, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func queryOptions(r *http.Request) ([]convert.Option, string, error) {
	q := r.URL.Query()
	n := 1
	if v := q.Get("players"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > constants.MaxPlayers {
			return nil, "", errors.Errorf("players must be between 1 and %d", constants.MaxPlayers)
		}
		n = parsed
	}
	s, err := model.ParseSplit(q.Get("split"))
	if err != nil {
		return nil, "", err
	}
	c := q.Get("compress") != "false"
	opts := []convert.Option{
		convert.WithPlayers(n),
		convert.WithSplit(s),
		convert.WithCompress(c),
		convert.WithLogger(logger.GetLogger()),
	}
	return opts, fmt.Sprintf("players=%d split=%s compress=%v", n, s, c), nil
}

// HandleConvert takes a raw MIDI body and returns its score.
func HandleConvert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts, desc, err := queryOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	key := db.Key(body, desc)
	if cached, ok, err := store.Get(key); err != nil {
		logger.Warnf("score cache: %v", err)
	} else if ok {
		writeJSON(w, http.StatusOK, model.ConvertResponse{Key: key, Score: cached, Parts: []model.PartReport{}, Cached: true})
		return
	}

	s, err := midi.ParseMidi(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	src, err := midi.ExtractSource(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sc, report, err := convert.Convert(src, opts...)
	if errors.Is(err, voice.ErrNoPlayableContent) {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	text := sc.Format()
	if err := store.Put(key, text); err != nil {
		logger.Warnf("score cache: %v", err)
	}
	writeJSON(w, http.StatusOK, model.ConvertResponse{Key: key, Score: text, Parts: report.Parts})
}

// HandleDecode turns a score back into timed notes, one track per part.
func HandleDecode(w http.ResponseWriter, r *http.Request) {
	var input model.DecodeRequestBody
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not unmarshal request body"))
		return
	}
	s, err := score.Parse(input.Score)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, err := convert.Reconstruct(s, input.PPQ)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res := model.DecodeResponse{PPQ: rec.PPQ, TotalTicks: rec.TotalTicks, Tempos: rec.Tempos}
	for _, t := range rec.Tracks {
		notes := t.Notes
		if notes == nil {
			notes = []model.NoteEvent{}
		}
		res.Tracks = append(res.Tracks, model.DecodedTrack{Name: t.Name, Notes: notes})
	}
	writeJSON(w, http.StatusOK, res)
}

func HandleGetScore(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	text, ok, err := store.Get(key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errors.Errorf("no score %s", key))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, text)
}

// HandleLookupScores returns every cached score among the requested keys.
func HandleLookupScores(w http.ResponseWriter, r *http.Request) {
	var input model.LookupRequestBody
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not unmarshal request body"))
		return
	}
	scores, err := store.GetMany(input.Keys)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, model.LookupResponse{Scores: scores})
}
