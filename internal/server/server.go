package server

import (
	"net/http"

	"github.com/sw33tLie/scoutqr/internal/utils"
	"github.com/sw33tLie/scoutqr/pkg/collect"
	"github.com/sw33tLie/scoutqr/pkg/record"
	"github.com/sw33tLie/scoutqr/pkg/schedule"
	"github.com/sw33tLie/scoutqr/pkg/storage"
)

const defaultQRSize = 512

type Server struct {
	Encoder *record.Encoder
	Decoder *record.Decoder

	// Optional. Without a session /api/team answers 503, without a DB the
	// record endpoints do.
	Session *schedule.Session
	DB      *storage.DB
	Event   string

	QRSize   int
	Username string
	Password string
}

func New(enc *record.Encoder, dec *record.Decoder, user, pass string) *Server {
	return &Server{
		Encoder:  enc,
		Decoder:  dec,
		QRSize:   defaultQRSize,
		Username: user,
		Password: pass,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/encode", s.basicAuth(s.handleEncode))
	mux.HandleFunc("POST /api/decode", s.basicAuth(s.handleDecode))
	mux.HandleFunc("GET /api/qr", s.basicAuth(s.handleQR))
	mux.HandleFunc("GET /api/columns", s.basicAuth(s.handleColumns))
	mux.HandleFunc("GET /api/team", s.basicAuth(s.handleTeam))
	mux.HandleFunc("GET /api/records", s.basicAuth(s.handleListRecords))
	mux.HandleFunc("POST /api/records", s.basicAuth(s.handleAddRecord))
	mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))

	return mux
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) collector() *collect.Collector {
	return collect.New(s.DB, s.Decoder, s.Event)
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
