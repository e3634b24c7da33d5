package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/store"
)

type handler struct {
	observer store.Observer
	log      *slog.Logger
}

// statusResponse mirrors GET /api/status's documented shape.
type statusResponse struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	counts, err := h.observer.CountsByState(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	resp := statusResponse{
		Pending:    counts[job.Pending],
		Processing: counts[job.Processing],
		Completed:  counts[job.Completed],
		Failed:     counts[job.Failed],
		Dead:       counts[job.Dead],
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// jobSummary is the trimmed view of a job.Job exposed over the API; it
// omits stdout/stderr to keep list responses small.
type jobSummary struct {
	Id         string  `json:"id"`
	Command    string  `json:"command"`
	State      string  `json:"state"`
	Attempts   uint32  `json:"attempts"`
	MaxRetries uint32  `json:"max_retries"`
	Priority   int64   `json:"priority"`
	ExitCode   *int    `json:"exit_code,omitempty"`
	Error      *string `json:"error,omitempty"`
}

func toSummary(j *job.Job) jobSummary {
	return jobSummary{
		Id:         j.Id,
		Command:    j.Command,
		State:      j.State.String(),
		Attempts:   j.Attempts,
		MaxRetries: j.MaxRetries,
		Priority:   j.Priority,
		ExitCode:   j.ExitCode,
		Error:      j.Error,
	}
}

func (h *handler) jobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	state, err := job.ParseState(q.Get("state"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	limit, err := intParam(q, "limit", 50)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	offset, err := intParam(q, "offset", 0)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	jobs, err := h.observer.List(r.Context(), state, limit, offset)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	summaries := make([]jobSummary, 0, len(jobs))
	for _, j := range jobs {
		summaries = append(summaries, toSummary(j))
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

func intParam(q map[string][]string, key string, def int) (int, error) {
	values, ok := q[key]
	if !ok || len(values) == 0 || values[0] == "" {
		return def, nil
	}
	return strconv.Atoi(values[0])
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	counts, err := h.observer.CountsByState(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	jobs, err := h.observer.List(r.Context(), job.Unknown, 50, 0)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	data := indexData{
		Status: []statusRow{
			{Label: "pending", Count: counts[job.Pending]},
			{Label: "processing", Count: counts[job.Processing]},
			{Label: "completed", Count: counts[job.Completed]},
			{Label: "failed", Count: counts[job.Failed]},
			{Label: "dead", Count: counts[job.Dead]},
		},
		Jobs: make([]jobRow, 0, len(jobs)),
	}
	for _, j := range jobs {
		exitCode := ""
		if j.ExitCode != nil {
			exitCode = strconv.Itoa(*j.ExitCode)
		}
		data.Jobs = append(data.Jobs, jobRow{
			Id:         j.Id,
			Command:    j.Command,
			State:      j.State.String(),
			Attempts:   j.Attempts,
			MaxRetries: j.MaxRetries,
			Priority:   j.Priority,
			ExitCode:   exitCode,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		h.log.Error("cannot render dashboard page", "err", err)
	}
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("cannot encode response", "err", err)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
