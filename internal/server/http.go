package server

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/gorilla/mux"

	"github.com/iWorld-y/usecase_radar/internal/service"
	"github.com/iWorld-y/usecase_radar/pkg/config"
)

// NewHTTPServer 创建展示服务的 HTTP Server，接口全部为 JSON
func NewHTTPServer(c config.ServerConfig, s *service.DisplayService, logger log.Logger) *http.Server {
	helper := log.NewHelper(logger)

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	// GET /api/reports 报告列表
	srv.HandleFunc("/api/reports", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			writeError(w, nethttp.StatusMethodNotAllowed, "method not allowed")
			return
		}
		summaries, err := s.ListReports(r.Context())
		if err != nil {
			helper.Errorf("list reports: %v", err)
			writeError(w, nethttp.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, nethttp.StatusOK, summaries)
	})

	// GET /api/reports/{name} 单份报告
	srv.HandleFunc("/api/reports/{name}", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			writeError(w, nethttp.StatusMethodNotAllowed, "method not allowed")
			return
		}
		name := mux.Vars(r)["name"]
		if name == "" {
			writeError(w, nethttp.StatusBadRequest, "name is required")
			return
		}
		rep, err := s.GetReport(r.Context(), name)
		if err != nil {
			writeError(w, nethttp.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, nethttp.StatusOK, rep)
	})

	// POST /api/generate 触发一次生成
	srv.HandleFunc("/api/generate", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			writeError(w, nethttp.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req struct {
			Company string `json:"company"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, nethttp.StatusBadRequest, "invalid request body")
			return
		}
		result, err := s.Generate(r.Context(), req.Company)
		if err != nil {
			helper.Errorf("generate for %q: %v", req.Company, err)
			writeError(w, nethttp.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, nethttp.StatusOK, result)
	})

	return srv
}

func writeJSON(w nethttp.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w nethttp.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
