package model

type PartReport struct {
	Player          int     `json:"player"`
	Part            string  `json:"part"`
	Length          int     `json:"length"`
	Budget          int     `json:"budget"`
	StepsPerQuarter int     `json:"steps_per_quarter"`
	Level           int     `json:"level"`
	Fidelity        float64 `json:"fidelity"`
	Notes           int     `json:"notes"`
	RetainedTicks   int     `json:"retained_ticks"`
	SourceTicks     int     `json:"source_ticks"`
	Truncated       bool    `json:"truncated"`
}

type ConvertResponse struct {
	Key    string       `json:"key"`
	Score  string       `json:"score"`
	Parts  []PartReport `json:"parts"`
	Cached bool         `json:"cached"`
}

type DecodeRequestBody struct {
	Score string `json:"score"`
	PPQ   int    `json:"ppq"`
}

type DecodedTrack struct {
	Name  string      `json:"name"`
	Notes []NoteEvent `json:"notes"`
}

type DecodeResponse struct {
	PPQ        int            `json:"ppq"`
	TotalTicks int            `json:"total_ticks"`
	Tracks     []DecodedTrack `json:"tracks"`
	Tempos     []TempoEvent   `json:"tempos"`
}

type LookupRequestBody struct {
	Keys []string `json:"keys"`
}

type LookupResponse struct {
	Scores map[string]string `json:"scores"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
