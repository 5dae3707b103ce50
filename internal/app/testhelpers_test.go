package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gabinetes/api/internal/config"
	"gabinetes/api/internal/session"
	"gabinetes/api/internal/store"
)

// fakeStore implements dataStore with per-method overrides; anything a test
// does not set behaves like an empty database.
type fakeStore struct {
	pingFn                   func(context.Context) error
	createUserFn             func(ctx context.Context, nome, login, senhaHash string) (store.User, error)
	getUserByIDFn            func(ctx context.Context, id int64) (store.User, error)
	authLookupFn             func(ctx context.Context, identifier string) (store.Credential, error)
	listGabinetesByUserFn    func(ctx context.Context, userID int64) ([]store.Gabinete, error)
	createGabineteFn         func(ctx context.Context, userID int64, nome string, descricao *string) (store.Gabinete, error)
	getGabineteByIDFn        func(ctx context.Context, userID, gabineteID int64) (store.Gabinete, error)
	updateGabineteFn         func(ctx context.Context, userID, gabineteID int64, nome string, descricao *string) (store.Gabinete, error)
	deleteGabineteFn         func(ctx context.Context, actorUserID, gabineteID int64) error
	listGabineteUsersFn      func(ctx context.Context, userID, gabineteID int64) ([]store.GabineteUser, error)
	removeAccessFn           func(ctx context.Context, actorUserID, gabineteID, targetUserID int64) error
	getGabineteRowFn         func(ctx context.Context, gabineteID int64) (store.Gabinete, error)
	listActiveGrantsFn       func(ctx context.Context, gabineteID int64) ([]store.GrantRow, error)
	listUserActiveGrantsFn   func(ctx context.Context, gabineteID, userID int64) ([]store.GrantRow, error)
	deleteApprovedGrantsFn   func(ctx context.Context, gabineteID, targetUserID int64) error
	updateMeuAcessoFn        func(ctx context.Context, userID, gabineteID int64, acessoNome string) (store.Acesso, error)
	deleteMeuAcessoFn        func(ctx context.Context, userID, gabineteID int64) error
	listArquivosFn           func(ctx context.Context, userID int64, q *string, statusArquivoID, gabineteID *int64) ([]store.Arquivo, error)
	getStatusEntregueIDFn    func(ctx context.Context) (int64, error)
	uploadNamesFn            func(ctx context.Context, userID, gabineteID int64) (string, string, error)
	createArquivoFn          func(ctx context.Context, p store.CreateArquivoParams) (store.Arquivo, error)
	getArquivoPDFFn          func(ctx context.Context, userID, arquivoID int64) (string, []byte, error)
	updateEventoPagesFn      func(ctx context.Context, userID, eventoID int64, pagesJSON string) (store.EventoPages, error)
	approveSolicitacaoFn     func(ctx context.Context, adminUserID, solicitacaoID int64) (store.Solicitacao, error)
	rejectSolicitacaoFn      func(ctx context.Context, adminUserID, solicitacaoID int64) (store.Solicitacao, error)
	requestAccessFn          func(ctx context.Context, userID, gabineteID int64, acessoNome string, msgPedido *string) (store.Solicitacao, error)
}

func (f *fakeStore) Ping(ctx context.Context) error {
	if f.pingFn != nil {
		return f.pingFn(ctx)
	}
	return nil
}

func (f *fakeStore) CreateUser(ctx context.Context, nome, login, senhaHash string) (store.User, error) {
	if f.createUserFn != nil {
		return f.createUserFn(ctx, nome, login, senhaHash)
	}
	return store.User{ID: 1, Nome: nome, Login: login}, nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id int64) (store.User, error) {
	if f.getUserByIDFn != nil {
		return f.getUserByIDFn(ctx, id)
	}
	return store.User{}, sql.ErrNoRows
}

func (f *fakeStore) AuthLookup(ctx context.Context, identifier string) (store.Credential, error) {
	if f.authLookupFn != nil {
		return f.authLookupFn(ctx, identifier)
	}
	return store.Credential{}, sql.ErrNoRows
}

func (f *fakeStore) ListGabinetesByUser(ctx context.Context, userID int64) ([]store.Gabinete, error) {
	if f.listGabinetesByUserFn != nil {
		return f.listGabinetesByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeStore) CreateGabinete(ctx context.Context, userID int64, nome string, descricao *string) (store.Gabinete, error) {
	if f.createGabineteFn != nil {
		return f.createGabineteFn(ctx, userID, nome, descricao)
	}
	return store.Gabinete{ID: 1, Nome: nome, Descricao: descricao, UserID: userID}, nil
}

func (f *fakeStore) ListAllGabinetesForUser(context.Context, int64) ([]store.GabineteOverview, error) {
	return nil, nil
}

func (f *fakeStore) ListAccessibleGabinetes(context.Context, int64) ([]store.GabineteRef, error) {
	return nil, nil
}

func (f *fakeStore) GetGabineteByID(ctx context.Context, userID, gabineteID int64) (store.Gabinete, error) {
	if f.getGabineteByIDFn != nil {
		return f.getGabineteByIDFn(ctx, userID, gabineteID)
	}
	return store.Gabinete{}, sql.ErrNoRows
}

func (f *fakeStore) UpdateGabinete(ctx context.Context, userID, gabineteID int64, nome string, descricao *string) (store.Gabinete, error) {
	if f.updateGabineteFn != nil {
		return f.updateGabineteFn(ctx, userID, gabineteID, nome, descricao)
	}
	return store.Gabinete{}, sql.ErrNoRows
}

func (f *fakeStore) DeleteGabinete(ctx context.Context, actorUserID, gabineteID int64) error {
	if f.deleteGabineteFn != nil {
		return f.deleteGabineteFn(ctx, actorUserID, gabineteID)
	}
	return nil
}

func (f *fakeStore) ListGabineteUsers(ctx context.Context, userID, gabineteID int64) ([]store.GabineteUser, error) {
	if f.listGabineteUsersFn != nil {
		return f.listGabineteUsersFn(ctx, userID, gabineteID)
	}
	return nil, nil
}

func (f *fakeStore) RemoveGabineteUserAccess(ctx context.Context, actorUserID, gabineteID, targetUserID int64) error {
	if f.removeAccessFn != nil {
		return f.removeAccessFn(ctx, actorUserID, gabineteID, targetUserID)
	}
	return nil
}

func (f *fakeStore) GetGabineteRow(ctx context.Context, gabineteID int64) (store.Gabinete, error) {
	if f.getGabineteRowFn != nil {
		return f.getGabineteRowFn(ctx, gabineteID)
	}
	return store.Gabinete{}, sql.ErrNoRows
}

func (f *fakeStore) ListActiveGrants(ctx context.Context, gabineteID int64) ([]store.GrantRow, error) {
	if f.listActiveGrantsFn != nil {
		return f.listActiveGrantsFn(ctx, gabineteID)
	}
	return nil, nil
}

func (f *fakeStore) ListUserActiveGrants(ctx context.Context, gabineteID, userID int64) ([]store.GrantRow, error) {
	if f.listUserActiveGrantsFn != nil {
		return f.listUserActiveGrantsFn(ctx, gabineteID, userID)
	}
	return nil, nil
}

func (f *fakeStore) DeleteApprovedGrants(ctx context.Context, gabineteID, targetUserID int64) error {
	if f.deleteApprovedGrantsFn != nil {
		return f.deleteApprovedGrantsFn(ctx, gabineteID, targetUserID)
	}
	return nil
}

func (f *fakeStore) ListSolicitacoesForAdmin(context.Context, int64) ([]store.Solicitacao, error) {
	return nil, nil
}

func (f *fakeStore) ApproveSolicitacao(ctx context.Context, adminUserID, solicitacaoID int64) (store.Solicitacao, error) {
	if f.approveSolicitacaoFn != nil {
		return f.approveSolicitacaoFn(ctx, adminUserID, solicitacaoID)
	}
	return store.Solicitacao{}, sql.ErrNoRows
}

func (f *fakeStore) RejectSolicitacao(ctx context.Context, adminUserID, solicitacaoID int64) (store.Solicitacao, error) {
	if f.rejectSolicitacaoFn != nil {
		return f.rejectSolicitacaoFn(ctx, adminUserID, solicitacaoID)
	}
	return store.Solicitacao{}, sql.ErrNoRows
}

func (f *fakeStore) RequestAccess(ctx context.Context, userID, gabineteID int64, acessoNome string, msgPedido *string) (store.Solicitacao, error) {
	if f.requestAccessFn != nil {
		return f.requestAccessFn(ctx, userID, gabineteID, acessoNome, msgPedido)
	}
	return store.Solicitacao{}, sql.ErrNoRows
}

func (f *fakeStore) ListMeusAcessos(context.Context, int64) ([]store.Acesso, error) { return nil, nil }

func (f *fakeStore) UpdateMeuAcesso(ctx context.Context, userID, gabineteID int64, acessoNome string) (store.Acesso, error) {
	if f.updateMeuAcessoFn != nil {
		return f.updateMeuAcessoFn(ctx, userID, gabineteID, acessoNome)
	}
	return store.Acesso{}, sql.ErrNoRows
}

func (f *fakeStore) DeleteMeuAcesso(ctx context.Context, userID, gabineteID int64) error {
	if f.deleteMeuAcessoFn != nil {
		return f.deleteMeuAcessoFn(ctx, userID, gabineteID)
	}
	return nil
}

func (f *fakeStore) ListArquivos(ctx context.Context, userID int64, q *string, statusArquivoID, gabineteID *int64) ([]store.Arquivo, error) {
	if f.listArquivosFn != nil {
		return f.listArquivosFn(ctx, userID, q, statusArquivoID, gabineteID)
	}
	return nil, nil
}

func (f *fakeStore) GetStatusEntregueID(ctx context.Context) (int64, error) {
	if f.getStatusEntregueIDFn != nil {
		return f.getStatusEntregueIDFn(ctx)
	}
	return 1, nil
}

func (f *fakeStore) UploadNames(ctx context.Context, userID, gabineteID int64) (string, string, error) {
	if f.uploadNamesFn != nil {
		return f.uploadNamesFn(ctx, userID, gabineteID)
	}
	return fmt.Sprintf("user#%d", userID), fmt.Sprintf("gabinete#%d", gabineteID), nil
}

func (f *fakeStore) CreateArquivo(ctx context.Context, p store.CreateArquivoParams) (store.Arquivo, error) {
	if f.createArquivoFn != nil {
		return f.createArquivoFn(ctx, p)
	}
	return store.Arquivo{ID: 1, NomeProcesso: p.NomeProcesso}, nil
}

func (f *fakeStore) GetArquivoPDF(ctx context.Context, userID, arquivoID int64) (string, []byte, error) {
	if f.getArquivoPDFFn != nil {
		return f.getArquivoPDFFn(ctx, userID, arquivoID)
	}
	return "", nil, sql.ErrNoRows
}

func (f *fakeStore) ListMetadados(context.Context, int64, int64) ([]store.Metadado, error) {
	return nil, nil
}

func (f *fakeStore) ListEventos(context.Context, int64) ([]store.Evento, error) { return nil, nil }

func (f *fakeStore) UpdateEventoPages(ctx context.Context, userID, eventoID int64, pagesJSON string) (store.EventoPages, error) {
	if f.updateEventoPagesFn != nil {
		return f.updateEventoPagesFn(ctx, userID, eventoID, pagesJSON)
	}
	return store.EventoPages{}, sql.ErrNoRows
}

func (f *fakeStore) ListStatusArquivo(context.Context) ([]store.StatusArquivo, error) {
	return nil, nil
}

// errDBMessage mimics a failure raised by a stored procedure.
func errDBMessage(msg string) error {
	return errors.New(msg)
}

// fakeSessions is an in-memory session.Store.
type fakeSessions struct {
	next   int
	tokens map[string]int64
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]int64{}}
}

func (f *fakeSessions) Create(_ context.Context, userID int64, _ time.Duration) (string, error) {
	f.next++
	sid := fmt.Sprintf("sid-%d", f.next)
	f.tokens[sid] = userID
	return sid, nil
}

func (f *fakeSessions) Lookup(_ context.Context, sid string) (int64, error) {
	userID, ok := f.tokens[sid]
	if !ok {
		return 0, session.ErrNotFound
	}
	return userID, nil
}

func (f *fakeSessions) Revoke(_ context.Context, sid string) error {
	delete(f.tokens, sid)
	return nil
}

func newTestService(fs *fakeStore) (*Service, *fakeSessions) {
	sessions := newFakeSessions()
	cfg := config.Config{
		Addr:        ":0",
		CORSOrigin:  "*",
		SessionTTL:  time.Hour,
		MaxUploadMB: 20,
	}
	return New(cfg, fs, sessions), sessions
}

// seedSession registers a live sid for the given user and makes the fake
// store resolve it, so protected routes can be exercised directly.
func seedSession(fs *fakeStore, sessions *fakeSessions, user store.User) string {
	sessions.next++
	sid := fmt.Sprintf("sid-%d", sessions.next)
	sessions.tokens[sid] = user.ID
	prev := fs.getUserByIDFn
	fs.getUserByIDFn = func(ctx context.Context, id int64) (store.User, error) {
		if id == user.ID {
			return user, nil
		}
		if prev != nil {
			return prev(ctx, id)
		}
		return store.User{}, sql.ErrNoRows
	}
	return sid
}
