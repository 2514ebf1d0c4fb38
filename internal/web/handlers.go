package web

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/blo/internal/core"
	"github.com/JonMunkholm/blo/internal/logging"
	"github.com/JonMunkholm/blo/internal/translit"
	"github.com/JonMunkholm/blo/internal/web/templates"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

var errNoFile = errors.New("no file provided")

// mergeResponse is returned by POST /api/merge.
type mergeResponse struct {
	DatasetID string        `json:"dataset_id"`
	Rows      int           `json:"rows"`
	Columns   int           `json:"columns"`
	Message   string        `json:"message"`
	Names     []string      `json:"column_names"`
	Defaults  core.Criteria `json:"default_criteria"`
}

// searchResponse is returned by the search endpoints.
type searchResponse struct {
	DatasetID string              `json:"dataset_id"`
	Matched   int                 `json:"matched"`
	Total     int                 `json:"total"`
	Returned  int                 `json:"returned"`
	Columns   []string            `json:"columns"`
	Rows      []map[string]string `json:"rows"`
	Criteria  core.Criteria       `json:"criteria"`
	Notice    string              `json:"notice,omitempty"`
}

// datasetResponse is returned by GET /api/dataset.
type datasetResponse struct {
	DatasetID string            `json:"dataset_id"`
	Rows      int               `json:"rows"`
	Columns   []string          `json:"columns"`
	Roles     map[string]string `json:"roles"`
}

// translateResponse is returned by GET /api/translate.
type translateResponse struct {
	Input  string `json:"input"`
	Text   string `json:"text"`
	Source string `json:"source"`
	Notice string `json:"notice,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, err := s.service.Dataset()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"dataset_loaded": err == nil,
		"uploads":        s.service.UploadLimiterStatus(),
	})
}

// handleMerge merges the multipart files "file1" and "file2".
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	ds, err := s.mergeUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mergeResponse{
		DatasetID: ds.ID.String(),
		Rows:      ds.Summary.Rows,
		Columns:   ds.Summary.Columns,
		Message:   ds.Summary.String(),
		Names:     ds.Table.Columns,
		Defaults:  s.service.DefaultCriteria(),
	})
}

// handleMergeForm is the HTML form variant of handleMerge.
func (s *Server) handleMergeForm(w http.ResponseWriter, r *http.Request) {
	if _, err := s.mergeUpload(w, r); err != nil {
		if isHTMX(r) {
			s.respondError(w, r, err)
			return
		}
		logging.FromContext(r.Context()).Warn("merge failed", "error", err)
		msg := core.MapError(err)
		data := s.pageData(r, core.Criteria{}, false)
		data.Error = &msg
		s.renderPage(w, r, data, statusFor(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) mergeUpload(w http.ResponseWriter, r *http.Request) (*core.MergedDataset, error) {
	limit := s.cfg.Upload.MaxFileSize
	if limit <= 0 {
		limit = core.DefaultMaxFileSize
	}
	r.Body = http.MaxBytesReader(w, r.Body, 2*limit+1<<20)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, core.ErrFileTooLarge
		}
		return nil, errNoFile
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	a, err := formFile(r, "file1")
	if err != nil {
		return nil, err
	}
	defer a.Close()
	b, err := formFile(r, "file2")
	if err != nil {
		return nil, err
	}
	defer b.Close()

	return s.service.MergeUploads(r.Context(), a, b)
}

func formFile(r *http.Request, field string) (multipart.File, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, errNoFile)
	}
	return f, nil
}

// handleSearchQuery searches with criteria from URL parameters.
func (s *Server) handleSearchQuery(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.search(w, r, c)
}

// handleSearchJSON searches with criteria from a JSON body.
func (s *Server) handleSearchJSON(w http.ResponseWriter, r *http.Request) {
	var c core.Criteria
	if err := decodeJSON(r, &c); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.search(w, r, c)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, c core.Criteria) {
	res, err := s.service.Search(r.Context(), c)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	ds, _ := s.service.Dataset()

	limit := parseLimit(r, res.Matched)
	records := res.Table.Records()
	if limit < len(records) {
		records = records[:limit]
	}

	writeJSON(w, http.StatusOK, searchResponse{
		DatasetID: ds.ID.String(),
		Matched:   res.Matched,
		Total:     res.Total,
		Returned:  len(records),
		Columns:   res.Table.Columns,
		Rows:      records,
		Criteria:  res.Criteria,
		Notice:    res.Notice,
	})
}

// parseLimit reads the optional "limit" parameter; absent or invalid
// values return every row.
func parseLimit(r *http.Request, all int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return all
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return all
	}
	return n
}

func (s *Server) handleDefaultCriteria(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.DefaultCriteria())
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.service.Dataset()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	roles := make(map[string]string)
	for role, col := range core.ResolveRoles(ds.Table, s.service.Engine().Specs()) {
		roles[role.String()] = col
	}

	writeJSON(w, http.StatusOK, datasetResponse{
		DatasetID: ds.ID.String(),
		Rows:      ds.Table.Len(),
		Columns:   ds.Table.Columns,
		Roles:     roles,
	})
}

// handleExport downloads the rows matching the URL criteria as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.service.Search(r.Context(), c)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("blo_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := core.WriteCSV(w, res.Table); err != nil {
		logging.FromContext(r.Context()).Error("export failed", "error", err)
	}
}

// handleTranslate previews the search text for a name query.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("text")

	res := translit.Result{Text: strings.TrimSpace(input), Source: translit.SourceLiteral}
	if s.translator != nil {
		res = s.translator.NormalizeResult(r.Context(), input)
	}

	writeJSON(w, http.StatusOK, translateResponse{
		Input:  input,
		Text:   res.Text,
		Source: res.Source.String(),
		Notice: s.service.TranslationNotice(),
	})
}

// handleIndex renders the lookup page. With a dataset loaded it always shows
// results: for the URL criteria when given, otherwise every record with the
// form pre-filled for the reset state.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		c   core.Criteria
		err error
	)
	useDefaults := q.Get("reset") != "" || !hasCriteria(q)
	if !useDefaults {
		c, err = criteriaFromQuery(q)
	}

	data := s.pageData(r, c, useDefaults)
	if err != nil {
		msg := core.MapError(err)
		data.Error = &msg
		data.Result = nil
		s.renderPage(w, r, data, http.StatusBadRequest)
		return
	}
	s.renderPage(w, r, data, http.StatusOK)
}

// handleResults renders only the results fragment.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.service.Search(r.Context(), c)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = templates.Results(c, res).Render(w)
}

// pageData assembles the page for typed criteria, searching when a dataset
// is loaded. With useDefaults the whole dataset is shown unfiltered and the
// form carries the reset criteria instead of typed.
func (s *Server) pageData(r *http.Request, typed core.Criteria, useDefaults bool) templates.PageData {
	data := templates.PageData{Notice: s.service.TranslationNotice()}

	ds, err := s.service.Dataset()
	if err != nil {
		return data
	}
	data.Dataset = &templates.DatasetInfo{
		ID:      ds.ID.String(),
		Summary: ds.Summary,
		Columns: ds.Table.Columns,
	}

	search := typed
	if useDefaults {
		typed = s.service.DefaultCriteria()
		search = core.Criteria{}
	}
	data.Typed = core.ClampRange(typed)
	if res, err := s.service.Search(r.Context(), search); err == nil {
		data.Result = res
	}
	return data
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, data templates.PageData, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Page(data).Render(w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "error", err)
	}
}
