package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gabinetes/api/internal/authz"
	"gabinetes/api/internal/config"
	"gabinetes/api/internal/pdfmeta"
	"gabinetes/api/internal/session"
	"gabinetes/api/internal/store"
)

type dataStore interface {
	Ping(context.Context) error

	CreateUser(ctx context.Context, nome, login, senhaHash string) (store.User, error)
	GetUserByID(ctx context.Context, id int64) (store.User, error)
	AuthLookup(ctx context.Context, identifier string) (store.Credential, error)

	ListGabinetesByUser(ctx context.Context, userID int64) ([]store.Gabinete, error)
	CreateGabinete(ctx context.Context, userID int64, nome string, descricao *string) (store.Gabinete, error)
	ListAllGabinetesForUser(ctx context.Context, userID int64) ([]store.GabineteOverview, error)
	ListAccessibleGabinetes(ctx context.Context, userID int64) ([]store.GabineteRef, error)
	GetGabineteByID(ctx context.Context, userID, gabineteID int64) (store.Gabinete, error)
	UpdateGabinete(ctx context.Context, userID, gabineteID int64, nome string, descricao *string) (store.Gabinete, error)
	DeleteGabinete(ctx context.Context, actorUserID, gabineteID int64) error
	ListGabineteUsers(ctx context.Context, userID, gabineteID int64) ([]store.GabineteUser, error)
	RemoveGabineteUserAccess(ctx context.Context, actorUserID, gabineteID, targetUserID int64) error
	GetGabineteRow(ctx context.Context, gabineteID int64) (store.Gabinete, error)
	ListActiveGrants(ctx context.Context, gabineteID int64) ([]store.GrantRow, error)
	ListUserActiveGrants(ctx context.Context, gabineteID, userID int64) ([]store.GrantRow, error)
	DeleteApprovedGrants(ctx context.Context, gabineteID, targetUserID int64) error

	ListSolicitacoesForAdmin(ctx context.Context, adminUserID int64) ([]store.Solicitacao, error)
	ApproveSolicitacao(ctx context.Context, adminUserID, solicitacaoID int64) (store.Solicitacao, error)
	RejectSolicitacao(ctx context.Context, adminUserID, solicitacaoID int64) (store.Solicitacao, error)
	RequestAccess(ctx context.Context, userID, gabineteID int64, acessoNome string, msgPedido *string) (store.Solicitacao, error)

	ListMeusAcessos(ctx context.Context, userID int64) ([]store.Acesso, error)
	UpdateMeuAcesso(ctx context.Context, userID, gabineteID int64, acessoNome string) (store.Acesso, error)
	DeleteMeuAcesso(ctx context.Context, userID, gabineteID int64) error

	ListArquivos(ctx context.Context, userID int64, q *string, statusArquivoID, gabineteID *int64) ([]store.Arquivo, error)
	GetStatusEntregueID(ctx context.Context) (int64, error)
	UploadNames(ctx context.Context, userID, gabineteID int64) (string, string, error)
	CreateArquivo(ctx context.Context, p store.CreateArquivoParams) (store.Arquivo, error)
	GetArquivoPDF(ctx context.Context, userID, arquivoID int64) (string, []byte, error)
	ListMetadados(ctx context.Context, userID, arquivoID int64) ([]store.Metadado, error)
	ListEventos(ctx context.Context, arquivoID int64) ([]store.Evento, error)
	UpdateEventoPages(ctx context.Context, userID, eventoID int64, pagesJSON string) (store.EventoPages, error)
	ListStatusArquivo(ctx context.Context) ([]store.StatusArquivo, error)
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions session.Store
}

func New(cfg config.Config, dataStore dataStore, sessions session.Store) *Service {
	return &Service{cfg: cfg, store: dataStore, sessions: sessions}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ── users / auth ──

func (s *Service) CreateUser(ctx context.Context, nome, login, senha string) (store.User, error) {
	nome = strings.TrimSpace(nome)
	login = strings.TrimSpace(login)
	senha = strings.TrimSpace(senha)
	if nome == "" || login == "" || senha == "" {
		return store.User{}, domainError(http.StatusBadRequest, "VALIDATION", "nome, login e senha são obrigatórios")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), 10)
	if err != nil {
		return store.User{}, domainError(http.StatusInternalServerError, "DB_ERROR", err.Error())
	}

	user, err := s.store.CreateUser(ctx, nome, login, string(hash))
	if err != nil {
		if isDuplicateLogin(err) {
			return store.User{}, domainError(http.StatusConflict, "LOGIN_EXISTS", "Login já existe")
		}
		return store.User{}, domainError(http.StatusInternalServerError, "DB_ERROR", err.Error())
	}
	return user, nil
}

// Login resolves the credentials and opens a session; the returned sid goes
// into the cookie by the HTTP layer.
func (s *Service) Login(ctx context.Context, identifier, senha string) (store.User, string, error) {
	identifier = strings.TrimSpace(identifier)
	senha = strings.TrimSpace(senha)
	if identifier == "" || senha == "" {
		return store.User{}, "", domainError(http.StatusBadRequest, "VALIDATION", "identifier e senha são obrigatórios")
	}

	cred, err := s.store.AuthLookup(ctx, identifier)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, "", domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Credenciais inválidas")
	}
	if err != nil {
		return store.User{}, "", domainError(http.StatusInternalServerError, "AUTH_ERROR", err.Error())
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.Senha), []byte(senha)) != nil {
		return store.User{}, "", domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Credenciais inválidas")
	}

	sid, err := s.sessions.Create(ctx, cred.ID, s.cfg.SessionTTL)
	if err != nil {
		return store.User{}, "", domainError(http.StatusInternalServerError, "AUTH_ERROR", err.Error())
	}
	return cred.User, sid, nil
}

// CurrentUser validates the sid cookie and loads the user it belongs to.
func (s *Service) CurrentUser(ctx context.Context, sid string) (store.User, error) {
	if sid == "" {
		return store.User{}, domainError(http.StatusUnauthorized, "NO_SESSION", "")
	}

	userID, err := s.sessions.Lookup(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		return store.User{}, domainError(http.StatusUnauthorized, "SESSION_INVALID", "")
	}
	if err != nil {
		return store.User{}, domainError(http.StatusInternalServerError, "AUTH_ERROR", err.Error())
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, domainError(http.StatusUnauthorized, "USER_NOT_FOUND", "")
	}
	if err != nil {
		return store.User{}, domainError(http.StatusInternalServerError, "AUTH_ERROR", err.Error())
	}
	return user, nil
}

// Logout revokes the session; failures are ignored, the cookie is cleared
// either way.
func (s *Service) Logout(ctx context.Context, sid string) {
	if sid != "" {
		_ = s.sessions.Revoke(ctx, sid)
	}
}

// ── gabinetes ──

func (s *Service) ListGabinetes(ctx context.Context, userID int64) ([]store.Gabinete, error) {
	items, err := s.store.ListGabinetesByUser(ctx, userID)
	if err != nil {
		return nil, classifyDB(err, nil)
	}
	return items, nil
}

func (s *Service) CreateGabinete(ctx context.Context, userID int64, nome, descricao string) (store.Gabinete, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return store.Gabinete{}, domainError(http.StatusBadRequest, "VALIDATION", "nome é obrigatório")
	}

	g, err := s.store.CreateGabinete(ctx, userID, nome, optionalText(descricao))
	if err != nil {
		return store.Gabinete{}, classifyDB(err, nil)
	}
	return g, nil
}

func (s *Service) ListAllGabinetes(ctx context.Context, userID int64) ([]store.GabineteOverview, error) {
	items, err := s.store.ListAllGabinetesForUser(ctx, userID)
	if err != nil {
		return nil, classifyDB(err, nil)
	}
	return items, nil
}

func (s *Service) AccessibleGabinetes(ctx context.Context, userID int64) ([]store.GabineteRef, error) {
	items, err := s.store.ListAccessibleGabinetes(ctx, userID)
	if err != nil {
		return nil, classifyDB(err, nil)
	}
	return items, nil
}

func (s *Service) GetGabinete(ctx context.Context, userID, gabineteID int64) (store.Gabinete, error) {
	g, err := s.store.GetGabineteByID(ctx, userID, gabineteID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Gabinete{}, domainError(http.StatusNotFound, "NOT_FOUND", "")
	}
	if err != nil {
		return store.Gabinete{}, classifyDB(err, nil)
	}
	return g, nil
}

func (s *Service) UpdateGabinete(ctx context.Context, userID, gabineteID int64, nome, descricao string) (store.Gabinete, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return store.Gabinete{}, domainError(http.StatusBadRequest, "VALIDATION", "nome é obrigatório")
	}

	g, err := s.store.UpdateGabinete(ctx, userID, gabineteID, nome, optionalText(descricao))
	if errors.Is(err, sql.ErrNoRows) {
		return store.Gabinete{}, domainError(http.StatusNotFound, "NOT_FOUND_OR_FORBIDDEN", "Gabinete não encontrado")
	}
	if err != nil {
		return store.Gabinete{}, classifyDB(err, gabineteUpdateRules)
	}
	return g, nil
}

func (s *Service) DeleteGabinete(ctx context.Context, actorUserID, gabineteID int64) error {
	if err := s.store.DeleteGabinete(ctx, actorUserID, gabineteID); err != nil {
		return classifyDB(err, gabineteDeleteRules)
	}
	return nil
}

func (s *Service) ListGabineteUsers(ctx context.Context, userID, gabineteID int64) ([]store.GabineteUser, error) {
	items, err := s.store.ListGabineteUsers(ctx, userID, gabineteID)
	if err != nil {
		return nil, classifyDB(err, gabineteUsersRules)
	}
	return items, nil
}

func (s *Service) RemoveGabineteUserAccess(ctx context.Context, actorUserID, gabineteID, targetUserID int64) error {
	if err := s.store.RemoveGabineteUserAccess(ctx, actorUserID, gabineteID, targetUserID); err != nil {
		return classifyDB(err, removeAccessRules)
	}
	return nil
}

// OpenPayload is the gabinete detail view: the row, the caller's own
// standing, and the ranked collaborator list.
type OpenPayload struct {
	Gabinete store.Gabinete       `json:"gabinete"`
	Me       MeInfo               `json:"me"`
	Usuarios []store.GabineteUser `json:"usuarios"`
}

type MeInfo struct {
	UserID     int64  `json:"user_id"`
	IsOwner    int    `json:"is_owner"`
	AcessoNome string `json:"acesso_nome"`
}

func (s *Service) OpenGabinete(ctx context.Context, userID, gabineteID int64) (OpenPayload, error) {
	gab, err := s.store.GetGabineteRow(ctx, gabineteID)
	if errors.Is(err, sql.ErrNoRows) {
		return OpenPayload{}, domainError(http.StatusNotFound, "NOT_FOUND", "Gabinete não encontrado.")
	}
	if err != nil {
		return OpenPayload{}, classifyDB(err, nil)
	}

	me, err := s.relationTo(ctx, gab, userID)
	if err != nil {
		return OpenPayload{}, err
	}
	if !me.IsOwner && me.Role == authz.RoleNone {
		return OpenPayload{}, domainError(http.StatusForbidden, "FORBIDDEN", "Sem permissão para acessar este gabinete.")
	}

	grants, err := s.store.ListActiveGrants(ctx, gabineteID)
	if err != nil {
		return OpenPayload{}, classifyDB(err, nil)
	}
	usuarios := rankGabineteUsers(grants, gab.UserID)

	myRole := me.Role
	if me.IsOwner {
		myRole = authz.RoleAdmin
	}
	return OpenPayload{
		Gabinete: gab,
		Me:       MeInfo{UserID: userID, IsOwner: boolToInt(me.IsOwner), AcessoNome: string(myRole)},
		Usuarios: usuarios,
	}, nil
}

// RevokePermissao applies the in-process revocation rule and deletes the
// target's approved grants.
func (s *Service) RevokePermissao(ctx context.Context, userID, gabineteID, targetUserID int64) error {
	gab, err := s.store.GetGabineteRow(ctx, gabineteID)
	if errors.Is(err, sql.ErrNoRows) {
		return domainError(http.StatusNotFound, "NOT_FOUND", "Gabinete não encontrado.")
	}
	if err != nil {
		return classifyDB(err, nil)
	}

	if targetUserID == gab.UserID {
		return domainError(http.StatusForbidden, "FORBIDDEN", "Não é permitido remover o dono do gabinete.")
	}

	acting, err := s.relationTo(ctx, gab, userID)
	if err != nil {
		return err
	}
	if !acting.IsOwner && acting.Role == authz.RoleNone {
		return domainError(http.StatusForbidden, "FORBIDDEN", "Sem permissão para gerenciar este gabinete.")
	}

	target, err := s.relationTo(ctx, gab, targetUserID)
	if err != nil {
		return err
	}
	if target.Role == authz.RoleNone {
		return domainError(http.StatusNotFound, "NOT_FOUND", "Usuário não possui permissão ativa neste gabinete.")
	}

	switch authz.DecideRevoke(acting, target) {
	case authz.Allowed:
	case authz.DenyTargetIsOwner:
		return domainError(http.StatusForbidden, "FORBIDDEN", "Não é permitido remover o dono do gabinete.")
	case authz.DenyAdminOnAdmin:
		return domainError(http.StatusForbidden, "FORBIDDEN", "Admin não pode remover permissão de outro admin.")
	default:
		return domainError(http.StatusForbidden, "FORBIDDEN", "Apenas admin/dono pode remover permissões.")
	}

	if err := s.store.DeleteApprovedGrants(ctx, gabineteID, targetUserID); err != nil {
		return classifyDB(err, nil)
	}
	return nil
}

// relationTo computes a user's standing toward a gabinete: the owner counts
// as admin, anyone else gets the effective role of their approved grants.
func (s *Service) relationTo(ctx context.Context, gab store.Gabinete, userID int64) (authz.Relation, error) {
	if gab.UserID == userID {
		return authz.Relation{IsOwner: true, Role: authz.RoleAdmin}, nil
	}

	rows, err := s.store.ListUserActiveGrants(ctx, gab.ID, userID)
	if err != nil {
		return authz.Relation{}, classifyDB(err, nil)
	}
	grants := make([]authz.Grant, 0, len(rows))
	for _, r := range rows {
		grants = append(grants, authz.Grant{
			SolicitacaoID: r.SolicitacaoID,
			Role:          authz.Normalize(strings.ToLower(r.AcessoNome)),
		})
	}
	return authz.Relation{Role: authz.EffectiveRole(grants)}, nil
}

// rankGabineteUsers reduces the raw grant rows to one entry per user via the
// effective-role rule, then orders: owner first, higher role first, name asc.
func rankGabineteUsers(rows []store.GrantRow, ownerID int64) []store.GabineteUser {
	byUser := map[int64][]store.GrantRow{}
	order := []int64{}
	names := map[int64]string{}
	for _, r := range rows {
		if _, seen := byUser[r.UserID]; !seen {
			order = append(order, r.UserID)
		}
		byUser[r.UserID] = append(byUser[r.UserID], r)
		names[r.UserID] = r.UserNome
	}

	users := make([]store.GabineteUser, 0, len(order))
	for _, id := range order {
		grants := make([]authz.Grant, 0, len(byUser[id]))
		for _, r := range byUser[id] {
			grants = append(grants, authz.Grant{
				SolicitacaoID: r.SolicitacaoID,
				Role:          authz.Normalize(strings.ToLower(r.AcessoNome)),
			})
		}
		role := authz.EffectiveRole(grants)
		users = append(users, store.GabineteUser{
			UserID:     id,
			UserNome:   names[id],
			AcessoNome: string(role),
			IsOwner:    boolToInt(id == ownerID),
		})
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].IsOwner != users[j].IsOwner {
			return users[i].IsOwner > users[j].IsOwner
		}
		ri := authz.Rank(authz.Role(users[i].AcessoNome))
		rj := authz.Rank(authz.Role(users[j].AcessoNome))
		if ri != rj {
			return ri > rj
		}
		return users[i].UserNome < users[j].UserNome
	})
	return users
}

// ── solicitações ──

func (s *Service) ListSolicitacoes(ctx context.Context, adminUserID int64) ([]store.Solicitacao, error) {
	items, err := s.store.ListSolicitacoesForAdmin(ctx, adminUserID)
	if err != nil {
		return nil, classifyDB(err, nil)
	}
	return items, nil
}

func (s *Service) ApproveSolicitacao(ctx context.Context, adminUserID, solicitacaoID int64) (*store.Solicitacao, error) {
	sol, err := s.store.ApproveSolicitacao(ctx, adminUserID, solicitacaoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classifyDB(err, nil)
	}
	return &sol, nil
}

func (s *Service) RejectSolicitacao(ctx context.Context, adminUserID, solicitacaoID int64) (*store.Solicitacao, error) {
	sol, err := s.store.RejectSolicitacao(ctx, adminUserID, solicitacaoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classifyDB(err, nil)
	}
	return &sol, nil
}

func (s *Service) RequestAccess(ctx context.Context, userID, gabineteID int64, acessoNome, msgPedido string) (*store.Solicitacao, error) {
	acessoNome = strings.TrimSpace(acessoNome)
	if acessoNome == "" {
		return nil, domainError(http.StatusBadRequest, "VALIDATION", "acesso_nome é obrigatório")
	}

	sol, err := s.store.RequestAccess(ctx, userID, gabineteID, acessoNome, optionalText(msgPedido))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classifyDB(err, nil)
	}
	return &sol, nil
}

// ── meus acessos ──

func (s *Service) ListMeusAcessos(ctx context.Context, userID int64) ([]store.Acesso, error) {
	items, err := s.store.ListMeusAcessos(ctx, userID)
	if err != nil {
		return nil, classifyDB(err, nil)
	}
	return items, nil
}

func (s *Service) UpdateMeuAcesso(ctx context.Context, userID, gabineteID int64, acessoNome string) (*store.Acesso, error) {
	acessoNome = strings.TrimSpace(acessoNome)
	if acessoNome == "" {
		return nil, domainError(http.StatusBadRequest, "ACESSO_REQUIRED", "acesso_nome é obrigatório.")
	}

	a, err := s.store.UpdateMeuAcesso(ctx, userID, gabineteID, acessoNome)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domainError(http.StatusBadRequest, "UPDATE_FAILED", err.Error())
	}
	return &a, nil
}

func (s *Service) DeleteMeuAcesso(ctx context.Context, userID, gabineteID int64) error {
	if err := s.store.DeleteMeuAcesso(ctx, userID, gabineteID); err != nil {
		return domainError(http.StatusBadRequest, "DELETE_FAILED", err.Error())
	}
	return nil
}

// ── arquivos / eventos ──

func (s *Service) ListArquivos(ctx context.Context, userID int64, q string, statusArquivoID, gabineteID *int64) ([]store.Arquivo, error) {
	items, err := s.store.ListArquivos(ctx, userID, optionalText(q), statusArquivoID, gabineteID)
	if err != nil {
		return nil, classifyDB(err, nil)
	}
	return items, nil
}

// UploadInput is the already-validated multipart payload: the HTTP layer
// enforces field presence, the size cap and the application/pdf MIME type
// before any database interaction happens.
type UploadInput struct {
	NomeProcesso     string
	Descricao        string
	GabineteID       int64
	OriginalFilename string
	SizeBytes        int64
	PDF              []byte
}

func (s *Service) UploadArquivo(ctx context.Context, userID int64, in UploadInput) (store.Arquivo, error) {
	statusID, err := s.store.GetStatusEntregueID(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Arquivo{}, domainError(http.StatusInternalServerError, "STATUS_ENTREGUE_NOT_FOUND",
			"Status 'entregue' não encontrado na tabela status_arquivo.")
	}
	if err != nil {
		return store.Arquivo{}, classifyDB(err, nil)
	}

	userNome, gabineteNome, err := s.store.UploadNames(ctx, userID, in.GabineteID)
	if err != nil {
		return store.Arquivo{}, classifyDB(err, nil)
	}

	metadados := []store.MetadadoEntry{
		{Nome: "upload.original_filename", Valor: in.OriginalFilename},
		{Nome: "upload.size_bytes", Valor: strconv.FormatInt(in.SizeBytes, 10)},
		{Nome: "upload.uploaded_by_user", Valor: userNome},
		{Nome: "upload.gabinete_nome", Valor: gabineteNome},
		{Nome: "upload.uploaded_at", Valor: time.Now().UTC().Format(time.RFC3339)},
	}
	metadados = append(metadados, pdfmeta.Extract(in.PDF)...)

	metadadosJSON, err := json.Marshal(metadados)
	if err != nil {
		return store.Arquivo{}, domainError(http.StatusInternalServerError, "DB_ERROR", err.Error())
	}

	arquivo, err := s.store.CreateArquivo(ctx, store.CreateArquivoParams{
		UserID:          userID,
		GabineteID:      in.GabineteID,
		StatusArquivoID: statusID,
		NomeProcesso:    in.NomeProcesso,
		Descricao:       optionalText(in.Descricao),
		PDF:             in.PDF,
		MetadadosJSON:   string(metadadosJSON),
	})
	if err != nil {
		return store.Arquivo{}, classifyDB(err, nil)
	}
	return arquivo, nil
}

func (s *Service) GetArquivoPDF(ctx context.Context, userID, arquivoID int64) (string, []byte, error) {
	nome, pdf, err := s.store.GetArquivoPDF(ctx, userID, arquivoID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, domainError(http.StatusNotFound, "NOT_FOUND", "")
	}
	if err != nil {
		return "", nil, classifyDB(err, nil)
	}
	if len(pdf) == 0 {
		return "", nil, domainError(http.StatusNotFound, "NO_PDF", "")
	}
	if nome == "" {
		nome = "arquivo"
	}
	return nome, pdf, nil
}

func (s *Service) ListMetadados(ctx context.Context, userID, arquivoID int64) ([]store.Metadado, error) {
	items, err := s.store.ListMetadados(ctx, userID, arquivoID)
	if err != nil {
		return nil, classifyDB(err, nil)
	}
	return items, nil
}

func (s *Service) ListEventos(ctx context.Context, arquivoID int64) ([]store.Evento, error) {
	items, err := s.store.ListEventos(ctx, arquivoID)
	if err != nil {
		return nil, classifyDB(err, nil)
	}
	return items, nil
}

// UpdateEventoPages normalizes the page set (positive, deduped, ascending)
// and forwards it as JSON.
func (s *Service) UpdateEventoPages(ctx context.Context, userID, eventoID int64, pages []float64) (store.EventoPages, error) {
	seen := map[float64]bool{}
	cleaned := []float64{}
	for _, p := range pages {
		if p > 0 && !seen[p] {
			seen[p] = true
			cleaned = append(cleaned, p)
		}
	}
	sort.Float64s(cleaned)

	pagesJSON, err := json.Marshal(cleaned)
	if err != nil {
		return store.EventoPages{}, domainError(http.StatusInternalServerError, "DB_ERROR", err.Error())
	}

	updated, err := s.store.UpdateEventoPages(ctx, userID, eventoID, string(pagesJSON))
	if errors.Is(err, sql.ErrNoRows) {
		return store.EventoPages{EventoID: eventoID, PagesJSON: string(pagesJSON)}, nil
	}
	if err != nil {
		return store.EventoPages{}, classifyDB(err, nil)
	}
	return updated, nil
}

func (s *Service) ListStatusArquivo(ctx context.Context) ([]store.StatusArquivo, error) {
	items, err := s.store.ListStatusArquivo(ctx)
	if err != nil {
		return nil, classifyDB(err, nil)
	}
	return items, nil
}

func optionalText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
