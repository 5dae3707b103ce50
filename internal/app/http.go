package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const sessionCookieName = "sid"

type HTTPServer struct {
	service      *Service
	corsOrigin   string
	cookieSecure bool
	cookieMaxAge time.Duration
	maxUploadMB  int64
}

func NewHTTPServer(service *Service) *HTTPServer {
	return &HTTPServer{
		service:      service,
		corsOrigin:   service.cfg.CORSOrigin,
		cookieSecure: service.cfg.CookieSecure,
		cookieMaxAge: service.cfg.SessionTTL,
		maxUploadMB:  int64(service.cfg.MaxUploadMB),
	}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

// Session is the authenticated caller attached to every protected route.
type Session struct {
	UserID int64
	Nome   string
	Login  string
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := s.service.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	// Routes that work without a session
	if r.Method == http.MethodPost && r.URL.Path == "/api/users" {
		var body struct {
			Nome  string `json:"nome"`
			Login string `json:"login"`
			Senha string `json:"senha"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
			return
		}
		user, err := s.service.CreateUser(r.Context(), body.Nome, body.Login, body.Senha)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/login" {
		var body struct {
			Identifier string `json:"identifier"`
			Senha      string `json:"senha"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
			return
		}
		user, sid, err := s.service.Login(r.Context(), body.Identifier, body.Senha)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.setSessionCookie(w, sid)
		writeJSON(w, http.StatusOK, user)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/auth/me" {
		user, err := s.service.CurrentUser(r.Context(), sessionID(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/logout" {
		s.service.Logout(r.Context(), sessionID(r))
		s.clearSessionCookie(w)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	if r.URL.Path == "/api/gabinetes" {
		switch r.Method {
		case http.MethodGet:
			items, err := s.service.ListGabinetes(r.Context(), session.UserID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, items)
		case http.MethodPost:
			var body struct {
				Nome      string `json:"nome"`
				Descricao string `json:"descricao"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
				return
			}
			g, err := s.service.CreateGabinete(r.Context(), session.UserID, body.Nome, body.Descricao)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, g)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "")
		}
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/gabinetes/all" {
		items, err := s.service.ListAllGabinetes(r.Context(), session.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/gabinetes/accessible" {
		items, err := s.service.AccessibleGabinetes(r.Context(), session.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/solicitacoes" {
		items, err := s.service.ListSolicitacoes(r.Context(), session.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/solicitacoes/request" {
		var body struct {
			GabineteID json.Number `json:"gabinete_id"`
			AcessoNome string      `json:"acesso_nome"`
			MsgPedido  string      `json:"msg_pedido"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
			return
		}
		gabineteID, err := body.GabineteID.Int64()
		if err != nil || gabineteID <= 0 {
			writeError(w, http.StatusBadRequest, "VALIDATION", "gabinete_id inválido")
			return
		}
		sol, err := s.service.RequestAccess(r.Context(), session.UserID, gabineteID, body.AcessoNome, body.MsgPedido)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sol)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/meus-acessos" {
		items, err := s.service.ListMeusAcessos(r.Context(), session.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/arquivos" {
		s.handleListArquivos(w, r, session)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/arquivos" {
		s.handleUploadArquivo(w, r, session)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/status-arquivo" {
		items, err := s.service.ListStatusArquivo(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	parts := splitPath(r.URL.Path)

	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "gabinetes" {
		s.handleGabinete(w, r, session, parts)
		return
	}

	if len(parts) == 4 && parts[0] == "api" && parts[1] == "solicitacoes" {
		solicitacaoID, valid := parseID(parts[2])
		if !valid {
			writeError(w, http.StatusBadRequest, "INVALID_ID", "")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "")
			return
		}
		switch parts[3] {
		case "approve":
			sol, err := s.service.ApproveSolicitacao(r.Context(), session.UserID, solicitacaoID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, sol)
		case "reject":
			sol, err := s.service.RejectSolicitacao(r.Context(), session.UserID, solicitacaoID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, sol)
		default:
			writeError(w, http.StatusNotFound, "NOT_FOUND", "")
		}
		return
	}

	if len(parts) == 3 && parts[0] == "api" && parts[1] == "meus-acessos" {
		gabineteID, valid := parseID(parts[2])
		if !valid {
			writeError(w, http.StatusBadRequest, "INVALID_GABINETE", "gabineteId inválido.")
			return
		}
		switch r.Method {
		case http.MethodPut:
			var body struct {
				AcessoNome string `json:"acesso_nome"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "ACESSO_REQUIRED", "acesso_nome é obrigatório.")
				return
			}
			a, err := s.service.UpdateMeuAcesso(r.Context(), session.UserID, gabineteID, body.AcessoNome)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, a)
		case http.MethodDelete:
			if err := s.service.DeleteMeuAcesso(r.Context(), session.UserID, gabineteID); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "")
		}
		return
	}

	if len(parts) == 4 && parts[0] == "api" && parts[1] == "arquivos" {
		arquivoID, valid := parseID(parts[2])
		if !valid {
			writeError(w, http.StatusBadRequest, "INVALID_ID", "ID inválido.")
			return
		}
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "")
			return
		}
		switch parts[3] {
		case "pdf":
			nome, pdf, err := s.service.GetArquivoPDF(r.Context(), session.UserID, arquivoID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", nome+".pdf"))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(pdf)
		case "metadados":
			items, err := s.service.ListMetadados(r.Context(), session.UserID, arquivoID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, items)
		case "eventos":
			items, err := s.service.ListEventos(r.Context(), arquivoID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, items)
		default:
			writeError(w, http.StatusNotFound, "NOT_FOUND", "")
		}
		return
	}

	if len(parts) == 4 && parts[0] == "api" && parts[1] == "eventos" && parts[3] == "pages" {
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "")
			return
		}
		eventoID, valid := parseID(parts[2])
		if !valid {
			writeError(w, http.StatusBadRequest, "INVALID_ID", "ID do evento inválido.")
			return
		}
		var body struct {
			Pages json.RawMessage `json:"pages"`
		}
		if err := decodeBody(r, &body); err != nil || body.Pages == nil {
			writeError(w, http.StatusBadRequest, "PAGES_REQUIRED", "Envie { pages: number[] }.")
			return
		}
		var pages []float64
		if err := json.Unmarshal(body.Pages, &pages); err != nil {
			writeError(w, http.StatusBadRequest, "PAGES_REQUIRED", "Envie { pages: number[] }.")
			return
		}
		updated, err := s.service.UpdateEventoPages(r.Context(), session.UserID, eventoID, pages)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "")
}

func (s *HTTPServer) handleGabinete(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	gabineteID, valid := parseID(parts[2])
	if !valid {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "ID do gabinete inválido.")
		return
	}

	if len(parts) == 3 {
		switch r.Method {
		case http.MethodGet:
			g, err := s.service.GetGabinete(r.Context(), session.UserID, gabineteID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, g)
		case http.MethodPut:
			var body struct {
				Nome      string `json:"nome"`
				Descricao string `json:"descricao"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
				return
			}
			g, err := s.service.UpdateGabinete(r.Context(), session.UserID, gabineteID, body.Nome, body.Descricao)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, g)
		case http.MethodDelete:
			if err := s.service.DeleteGabinete(r.Context(), session.UserID, gabineteID); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "")
		}
		return
	}

	if len(parts) == 4 && parts[3] == "usuarios" && r.Method == http.MethodGet {
		items, err := s.service.ListGabineteUsers(r.Context(), session.UserID, gabineteID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	if len(parts) == 5 && parts[3] == "usuarios" && r.Method == http.MethodDelete {
		targetUserID, valid := parseID(parts[4])
		if !valid {
			writeError(w, http.StatusBadRequest, "INVALID_USER_ID", "ID do usuário inválido.")
			return
		}
		if err := s.service.RemoveGabineteUserAccess(r.Context(), session.UserID, gabineteID, targetUserID); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if len(parts) == 4 && parts[3] == "open" && r.Method == http.MethodGet {
		payload, err := s.service.OpenGabinete(r.Context(), session.UserID, gabineteID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if len(parts) == 5 && parts[3] == "permissoes" && r.Method == http.MethodDelete {
		targetUserID, valid := parseID(parts[4])
		if !valid {
			writeError(w, http.StatusBadRequest, "INVALID_TARGET", "ID do usuário inválido.")
			return
		}
		if err := s.service.RevokePermissao(r.Context(), session.UserID, gabineteID, targetUserID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "")
}

func (s *HTTPServer) handleListArquivos(w http.ResponseWriter, r *http.Request, session Session) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	var statusArquivoID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("status_arquivo_id")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			statusArquivoID = &id
		}
	}

	var gabineteID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("gabinete_id")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			gabineteID = &id
		}
	}

	items, err := s.service.ListArquivos(r.Context(), session.UserID, q, statusArquivoID, gabineteID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleUploadArquivo(w http.ResponseWriter, r *http.Request, session Session) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB<<20)
	if err := r.ParseMultipartForm(s.maxUploadMB << 20); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "multipart/form-data inválido")
		return
	}

	// The PDF filter runs before any field validation, matching the order a
	// rejected part would surface in.
	file, header, err := r.FormFile("pdf")
	if err == nil {
		defer file.Close()
		if header.Header.Get("Content-Type") != "application/pdf" {
			writeError(w, http.StatusBadRequest, "PDF_ONLY", "Apenas PDF é permitido.")
			return
		}
	}

	nomeProcesso := strings.TrimSpace(r.FormValue("nome_processo"))
	if nomeProcesso == "" {
		writeError(w, http.StatusBadRequest, "NOME_REQUIRED", "nome_processo é obrigatório.")
		return
	}

	gabineteID, valid := parseID(strings.TrimSpace(r.FormValue("gabinete_id")))
	if !valid {
		writeError(w, http.StatusBadRequest, "INVALID_GABINETE", "gabinete_id inválido.")
		return
	}

	if file == nil {
		writeError(w, http.StatusBadRequest, "PDF_REQUIRED", "Envie um PDF.")
		return
	}

	pdfBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "PDF_REQUIRED", "Envie um PDF.")
		return
	}

	arquivo, err := s.service.UploadArquivo(r.Context(), session.UserID, UploadInput{
		NomeProcesso:     nomeProcesso,
		Descricao:        r.FormValue("descricao"),
		GabineteID:       gabineteID,
		OriginalFilename: header.Filename,
		SizeBytes:        int64(len(pdfBytes)),
		PDF:              pdfBytes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, arquivo)
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	user, err := s.service.CurrentUser(r.Context(), sessionID(r))
	if err != nil {
		var domainErr *DomainError
		if errors.As(err, &domainErr) && domainErr.Status == http.StatusInternalServerError {
			writeError(w, http.StatusInternalServerError, "AUTH_MIDDLEWARE_ERROR", domainErr.Message)
			return Session{}, false
		}
		writeDomainError(w, err)
		return Session{}, false
	}
	return Session{UserID: user.ID, Nome: user.Nome, Login: user.Login}, true
}

func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *HTTPServer) setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(s.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *HTTPServer) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Credentials", "true")
	header.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError emits the {error, message} envelope; message is omitted when
// the tag carries the whole meaning.
func writeError(w http.ResponseWriter, status int, tag, message string) {
	response := map[string]any{"error": tag}
	if message != "" {
		response["message"] = message
	}
	writeJSON(w, status, response)
}

func writeDomainError(w http.ResponseWriter, err error) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		writeError(w, domainErr.Status, domainErr.Tag, domainErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
