// Package web is the interactive presentation shell: upload a file, browse
// the analysis tabs, download the PDF report. One session is active at a
// time; a new upload replaces it.
package web

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/datateller/datateller/internal/config"
	"github.com/datateller/datateller/internal/dataset"
	"github.com/datateller/datateller/internal/profile"
	"github.com/datateller/datateller/internal/report"
	"github.com/datateller/datateller/internal/session"
)

const maxUploadBytes = 10 << 20 // 10MB

// Server wires HTTP handlers to the analysis pipeline.
type Server struct {
	cfg *config.Global

	mu   sync.Mutex
	sess *session.Session
}

// New creates a server with no active session.
func New(cfg *config.Global) *Server {
	return &Server{cfg: cfg}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/upload", s.handleUpload)
	r.Post("/sample", s.handleSample)
	r.Get("/insights", s.handleInsights)
	r.Get("/charts", s.handleCharts)
	r.Get("/report", s.handleReportPage)
	r.Get("/report.pdf", s.handleReportDownload)
	return r
}

func (s *Server) current() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

func (s *Server) replace(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.current()
	if sess == nil {
		renderUpload(w, "")
		return
	}
	renderOverview(w, sess)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		renderUpload(w, "Could not read the uploaded file. Please try again.")
		return
	}
	defer file.Close()

	ds, err := dataset.LoadNamed(file, header.Filename)
	if err != nil {
		// Format errors abort the upload with a retry prompt; no partial
		// state is kept.
		w.WriteHeader(http.StatusBadRequest)
		if errors.Is(err, dataset.ErrUnsupportedFormat) {
			renderUpload(w, fmt.Sprintf("%q is not a supported format. Upload a .csv, .tsv or .xlsx file.", header.Filename))
		} else {
			renderUpload(w, fmt.Sprintf("Failed to parse %q: %v", header.Filename, err))
		}
		return
	}
	s.startSession(w, r, header.Filename, ds)
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	s.startSession(w, r, "sample.csv", dataset.Sample())
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, name string, ds *dataset.Dataset) {
	sess, err := session.New(name, ds, s.cfg)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		if errors.Is(err, profile.ErrInsufficientData) {
			renderUpload(w, fmt.Sprintf("%q contains no analyzable rows or columns.", name))
		} else {
			renderUpload(w, fmt.Sprintf("Analysis failed: %v", err))
		}
		return
	}
	s.replace(sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	sess := s.current()
	if sess == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderInsights(w, sess)
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	sess := s.current()
	if sess == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderCharts(w, sess)
}

func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	sess := s.current()
	if sess == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderReportPage(w, sess)
}

func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.current()
	if sess == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	rep := sess.BuildReport(s.cfg)
	var buf bytes.Buffer
	if err := report.WritePDF(rep, &buf); err != nil {
		// No partial file is exposed for download.
		log.Printf("report generation failed: %v", err)
		http.Error(w, "Report generation failed. Check the server logs.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="data_analysis_report.pdf"`)
	_, _ = w.Write(buf.Bytes())
}
