package store

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// PostgresStore fronts the authoritative database layer. Business rules
// (permission checks, approval transitions, uniqueness) live in the usp_*
// procedures; the methods here marshal parameters in and rows out. A few
// routes use direct queries instead of a procedure, mirroring the surface
// they replace.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ── users / auth ──

func (s *PostgresStore) CreateUser(ctx context.Context, nome, login, senhaHash string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nome, login FROM usp_users_create($1, $2, $3)`,
		nome, login, senhaHash,
	).Scan(&user.ID, &user.Nome, &user.Login)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nome, login FROM usp_users_get_by_id($1)`,
		id,
	).Scan(&user.ID, &user.Nome, &user.Login)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// AuthLookup resolves a login or display name to the stored credential row.
// The bcrypt comparison happens in the service layer, never here.
func (s *PostgresStore) AuthLookup(ctx context.Context, identifier string) (Credential, error) {
	var cred Credential
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nome, login, senha FROM usp_auth_login($1)`,
		identifier,
	).Scan(&cred.ID, &cred.Nome, &cred.Login, &cred.Senha)
	if err != nil {
		return Credential{}, err
	}
	return cred, nil
}

// ── sessions (Postgres backend) ──

func (s *PostgresStore) CreateSession(ctx context.Context, userID int64, ttlMinutes int) (string, error) {
	var sid string
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id FROM usp_sessions_create($1, $2)`,
		userID, ttlMinutes,
	).Scan(&sid)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sid, nil
}

func (s *PostgresStore) GetValidSession(ctx context.Context, sid string) (int64, error) {
	var userID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM usp_sessions_get_valid($1)`,
		sid,
	).Scan(&userID)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (s *PostgresStore) RevokeSession(ctx context.Context, sid string) error {
	_, err := s.db.ExecContext(ctx, `SELECT usp_sessions_revoke($1)`, sid)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// ── gabinetes ──

func (s *PostgresStore) ListGabinetesByUser(ctx context.Context, userID int64) ([]Gabinete, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, nome, descricao, user_id, created_at FROM usp_gabinete_list_by_user($1)`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Gabinete{}
	for rows.Next() {
		var g Gabinete
		if err := rows.Scan(&g.ID, &g.Nome, &g.Descricao, &g.UserID, &g.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

func (s *PostgresStore) CreateGabinete(ctx context.Context, userID int64, nome string, descricao *string) (Gabinete, error) {
	var g Gabinete
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nome, descricao, user_id, created_at FROM usp_gabinete_create($1, $2, $3)`,
		userID, nome, descricao,
	).Scan(&g.ID, &g.Nome, &g.Descricao, &g.UserID, &g.CreatedAt)
	if err != nil {
		return Gabinete{}, err
	}
	return g, nil
}

func (s *PostgresStore) ListAllGabinetesForUser(ctx context.Context, userID int64) ([]GabineteOverview, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nome, descricao, owner_id, owner_nome,
		       minha_solicitacao_id, minha_atendido, meu_acesso_nome,
		       minha_msg_pedido, minha_created_at
		FROM usp_gabinetes_list_all_for_user($1)
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []GabineteOverview{}
	for rows.Next() {
		var g GabineteOverview
		if err := rows.Scan(
			&g.ID, &g.Nome, &g.Descricao, &g.OwnerID, &g.OwnerNome,
			&g.MinhaSolicitacaoID, &g.MinhaAtendido, &g.MeuAcessoNome,
			&g.MinhaMsgPedido, &g.MinhaCreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// ListAccessibleGabinetes is a direct query: the distinct gabinetes where
// the user holds an approved grant, by name.
func (s *PostgresStore) ListAccessibleGabinetes(ctx context.Context, userID int64) ([]GabineteRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT g.id, g.nome
		FROM solicitacao s
		INNER JOIN gabinete g ON g.id = s.gabinete_id
		WHERE s.user_id = $1
		  AND s.atendido = 1
		ORDER BY g.nome ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []GabineteRef{}
	for rows.Next() {
		var g GabineteRef
		if err := rows.Scan(&g.ID, &g.Nome); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

func (s *PostgresStore) GetGabineteByID(ctx context.Context, userID, gabineteID int64) (Gabinete, error) {
	var g Gabinete
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nome, descricao, user_id, created_at FROM usp_gabinete_get_by_id($1, $2)`,
		userID, gabineteID,
	).Scan(&g.ID, &g.Nome, &g.Descricao, &g.UserID, &g.CreatedAt)
	if err != nil {
		return Gabinete{}, err
	}
	return g, nil
}

func (s *PostgresStore) UpdateGabinete(ctx context.Context, userID, gabineteID int64, nome string, descricao *string) (Gabinete, error) {
	var g Gabinete
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nome, descricao, user_id, created_at FROM usp_gabinete_update($1, $2, $3, $4)`,
		userID, gabineteID, nome, descricao,
	).Scan(&g.ID, &g.Nome, &g.Descricao, &g.UserID, &g.CreatedAt)
	if err != nil {
		return Gabinete{}, err
	}
	return g, nil
}

func (s *PostgresStore) DeleteGabinete(ctx context.Context, actorUserID, gabineteID int64) error {
	_, err := s.db.ExecContext(ctx, `SELECT usp_gabinete_delete($1, $2)`, actorUserID, gabineteID)
	return err
}

func (s *PostgresStore) ListGabineteUsers(ctx context.Context, userID, gabineteID int64) ([]GabineteUser, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, user_nome, acesso_nome, is_owner FROM usp_gabinete_users_list($1, $2)`,
		userID, gabineteID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []GabineteUser{}
	for rows.Next() {
		var u GabineteUser
		if err := rows.Scan(&u.UserID, &u.UserNome, &u.AcessoNome, &u.IsOwner); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

func (s *PostgresStore) RemoveGabineteUserAccess(ctx context.Context, actorUserID, gabineteID, targetUserID int64) error {
	_, err := s.db.ExecContext(ctx,
		`SELECT usp_gabinete_user_remove_access($1, $2, $3)`,
		actorUserID, gabineteID, targetUserID,
	)
	return err
}

// GetGabineteRow fetches the bare gabinete row without a permission check;
// the caller applies the authz rules before acting on it.
func (s *PostgresStore) GetGabineteRow(ctx context.Context, gabineteID int64) (Gabinete, error) {
	var g Gabinete
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nome, descricao, user_id FROM gabinete WHERE id = $1`,
		gabineteID,
	).Scan(&g.ID, &g.Nome, &g.Descricao, &g.UserID)
	if err != nil {
		return Gabinete{}, err
	}
	return g, nil
}

// ListActiveGrants returns every approved solicitacao of a gabinete with the
// requesting user's display name. Ranking into one effective role per user
// is left to internal/authz.
func (s *PostgresStore) ListActiveGrants(ctx context.Context, gabineteID int64) ([]GrantRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.user_id, u.nome, a.nome
		FROM solicitacao s
		INNER JOIN users u ON u.id = s.user_id
		INNER JOIN acesso a ON a.id = s.acesso_id
		WHERE s.gabinete_id = $1
		  AND s.atendido = 1
	`, gabineteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []GrantRow{}
	for rows.Next() {
		var g GrantRow
		if err := rows.Scan(&g.SolicitacaoID, &g.UserID, &g.UserNome, &g.AcessoNome); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

func (s *PostgresStore) ListUserActiveGrants(ctx context.Context, gabineteID, userID int64) ([]GrantRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.user_id, u.nome, a.nome
		FROM solicitacao s
		INNER JOIN users u ON u.id = s.user_id
		INNER JOIN acesso a ON a.id = s.acesso_id
		WHERE s.gabinete_id = $1
		  AND s.user_id = $2
		  AND s.atendido = 1
	`, gabineteID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []GrantRow{}
	for rows.Next() {
		var g GrantRow
		if err := rows.Scan(&g.SolicitacaoID, &g.UserID, &g.UserNome, &g.AcessoNome); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

func (s *PostgresStore) DeleteApprovedGrants(ctx context.Context, gabineteID, targetUserID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM solicitacao
		WHERE gabinete_id = $1
		  AND user_id = $2
		  AND atendido = 1
	`, gabineteID, targetUserID)
	return err
}

// ── solicitações ──

func scanSolicitacoes(rows *sql.Rows) ([]Solicitacao, error) {
	defer rows.Close()
	items := []Solicitacao{}
	for rows.Next() {
		var sol Solicitacao
		if err := rows.Scan(
			&sol.ID, &sol.UserID, &sol.UserNome, &sol.GabineteID, &sol.GabineteNome,
			&sol.AcessoID, &sol.AcessoNome, &sol.Atendido, &sol.MsgPedido, &sol.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, sol)
	}
	return items, rows.Err()
}

const solicitacaoColumns = `id, user_id, user_nome, gabinete_id, gabinete_nome,
	acesso_id, acesso_nome, atendido, msg_pedido, created_at`

func (s *PostgresStore) ListSolicitacoesForAdmin(ctx context.Context, adminUserID int64) ([]Solicitacao, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+solicitacaoColumns+` FROM usp_solicitacoes_list_for_admin($1)`,
		adminUserID,
	)
	if err != nil {
		return nil, err
	}
	return scanSolicitacoes(rows)
}

func (s *PostgresStore) ApproveSolicitacao(ctx context.Context, adminUserID, solicitacaoID int64) (Solicitacao, error) {
	return s.scanOneSolicitacao(ctx,
		`SELECT `+solicitacaoColumns+` FROM usp_solicitacao_approve($1, $2)`,
		adminUserID, solicitacaoID,
	)
}

func (s *PostgresStore) RejectSolicitacao(ctx context.Context, adminUserID, solicitacaoID int64) (Solicitacao, error) {
	return s.scanOneSolicitacao(ctx,
		`SELECT `+solicitacaoColumns+` FROM usp_solicitacao_reject($1, $2)`,
		adminUserID, solicitacaoID,
	)
}

func (s *PostgresStore) RequestAccess(ctx context.Context, userID, gabineteID int64, acessoNome string, msgPedido *string) (Solicitacao, error) {
	return s.scanOneSolicitacao(ctx,
		`SELECT `+solicitacaoColumns+` FROM usp_solicitacao_request_access($1, $2, $3, $4)`,
		userID, gabineteID, acessoNome, msgPedido,
	)
}

func (s *PostgresStore) scanOneSolicitacao(ctx context.Context, query string, args ...any) (Solicitacao, error) {
	var sol Solicitacao
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&sol.ID, &sol.UserID, &sol.UserNome, &sol.GabineteID, &sol.GabineteNome,
		&sol.AcessoID, &sol.AcessoNome, &sol.Atendido, &sol.MsgPedido, &sol.CreatedAt,
	)
	if err != nil {
		return Solicitacao{}, err
	}
	return sol, nil
}

// ── meus acessos ──

func (s *PostgresStore) ListMeusAcessos(ctx context.Context, userID int64) ([]Acesso, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT solicitacao_id, gabinete_id, gabinete_nome, acesso_id, acesso_nome, created_at, is_owner
		FROM usp_meus_acessos_list($1)
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Acesso{}
	for rows.Next() {
		var a Acesso
		if err := rows.Scan(&a.SolicitacaoID, &a.GabineteID, &a.GabineteNome, &a.AcessoID, &a.AcessoNome, &a.CreatedAt, &a.IsOwner); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (s *PostgresStore) UpdateMeuAcesso(ctx context.Context, userID, gabineteID int64, acessoNome string) (Acesso, error) {
	var a Acesso
	err := s.db.QueryRowContext(ctx, `
		SELECT solicitacao_id, gabinete_id, gabinete_nome, acesso_id, acesso_nome, created_at, is_owner
		FROM usp_meus_acessos_update($1, $2, $3)
	`, userID, gabineteID, acessoNome).Scan(
		&a.SolicitacaoID, &a.GabineteID, &a.GabineteNome, &a.AcessoID, &a.AcessoNome, &a.CreatedAt, &a.IsOwner,
	)
	if err != nil {
		return Acesso{}, err
	}
	return a, nil
}

func (s *PostgresStore) DeleteMeuAcesso(ctx context.Context, userID, gabineteID int64) error {
	_, err := s.db.ExecContext(ctx, `SELECT usp_meus_acessos_delete($1, $2)`, userID, gabineteID)
	return err
}

// ── arquivos / eventos / lookups ──

func (s *PostgresStore) ListArquivos(ctx context.Context, userID int64, q *string, statusArquivoID, gabineteID *int64) ([]Arquivo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nome_processo, descricao, status_arquivo_id, status_nome,
		       gabinete_id, gabinete_nome, created_at
		FROM usp_arquivo_list_for_user($1, $2, $3, $4)
	`, userID, q, statusArquivoID, gabineteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Arquivo{}
	for rows.Next() {
		var a Arquivo
		if err := rows.Scan(
			&a.ID, &a.NomeProcesso, &a.Descricao, &a.StatusArquivoID, &a.StatusNome,
			&a.GabineteID, &a.GabineteNome, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (s *PostgresStore) GetStatusEntregueID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM status_arquivo WHERE nome = 'entregue' LIMIT 1`,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UploadNames fetches the uploader and gabinete display names concurrently;
// either lookup missing falls back to a synthetic label, as the metadata
// entries are descriptive only.
func (s *PostgresStore) UploadNames(ctx context.Context, userID, gabineteID int64) (userNome, gabineteNome string, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.db.QueryRowContext(ctx, `SELECT nome FROM users WHERE id = $1 LIMIT 1`, userID).Scan(&userNome)
		if err == sql.ErrNoRows {
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := s.db.QueryRowContext(ctx, `SELECT nome FROM gabinete WHERE id = $1 LIMIT 1`, gabineteID).Scan(&gabineteNome)
		if err == sql.ErrNoRows {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return "", "", err
	}
	if userNome == "" {
		userNome = fmt.Sprintf("user#%d", userID)
	}
	if gabineteNome == "" {
		gabineteNome = fmt.Sprintf("gabinete#%d", gabineteID)
	}
	return userNome, gabineteNome, nil
}

func (s *PostgresStore) CreateArquivo(ctx context.Context, p CreateArquivoParams) (Arquivo, error) {
	var a Arquivo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, nome_processo, descricao, status_arquivo_id, status_nome,
		       gabinete_id, gabinete_nome, created_at
		FROM usp_arquivo_create($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.UserID, p.GabineteID, p.StatusArquivoID, p.NomeProcesso, p.Descricao, p.PDF, p.Txt, p.MetadadosJSON).Scan(
		&a.ID, &a.NomeProcesso, &a.Descricao, &a.StatusArquivoID, &a.StatusNome,
		&a.GabineteID, &a.GabineteNome, &a.CreatedAt,
	)
	if err != nil {
		return Arquivo{}, err
	}
	return a, nil
}

func (s *PostgresStore) GetArquivoPDF(ctx context.Context, userID, arquivoID int64) (nomeProcesso string, pdf []byte, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT nome_processo, pdf FROM usp_arquivo_get_pdf_for_user($1, $2)`,
		userID, arquivoID,
	).Scan(&nomeProcesso, &pdf)
	if err != nil {
		return "", nil, err
	}
	return nomeProcesso, pdf, nil
}

func (s *PostgresStore) ListMetadados(ctx context.Context, userID, arquivoID int64) ([]Metadado, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, nome, valor FROM usp_metadado_list_for_user($1, $2)`,
		userID, arquivoID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Metadado{}
	for rows.Next() {
		var m Metadado
		if err := rows.Scan(&m.ID, &m.Nome, &m.Valor); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (s *PostgresStore) ListEventos(ctx context.Context, arquivoID int64) ([]Evento, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nome, created_at, status_nome, procurador_nome, evento_pages_json
		FROM usp_eventos_list_by_arquivo($1)
	`, arquivoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Evento{}
	for rows.Next() {
		var e Evento
		if err := rows.Scan(&e.ID, &e.Nome, &e.CreatedAt, &e.StatusNome, &e.ProcuradorNome, &e.PagesJSON); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (s *PostgresStore) UpdateEventoPages(ctx context.Context, userID, eventoID int64, pagesJSON string) (EventoPages, error) {
	var e EventoPages
	err := s.db.QueryRowContext(ctx,
		`SELECT evento_id, pages_json FROM usp_event_pages_update($1, $2, $3)`,
		userID, eventoID, pagesJSON,
	).Scan(&e.EventoID, &e.PagesJSON)
	if err != nil {
		return EventoPages{}, err
	}
	return e, nil
}

func (s *PostgresStore) ListStatusArquivo(ctx context.Context) ([]StatusArquivo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, nome FROM usp_status_arquivo_list()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []StatusArquivo{}
	for rows.Next() {
		var st StatusArquivo
		if err := rows.Scan(&st.ID, &st.Nome); err != nil {
			return nil, err
		}
		items = append(items, st)
	}
	return items, rows.Err()
}
