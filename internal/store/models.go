package store

import "time"

// Row shapes mirror the result sets of the usp_* procedures; the json tags
// are the wire contract the browser client consumes.

type User struct {
	ID    int64  `json:"id"`
	Nome  string `json:"nome"`
	Login string `json:"login"`
}

// Credential is the usp_auth_login row: the user plus the bcrypt hash the
// application compares against. The hash never leaves the service layer.
type Credential struct {
	User
	Senha string `json:"-"`
}

type Gabinete struct {
	ID        int64      `json:"id"`
	Nome      string     `json:"nome"`
	Descricao *string    `json:"descricao"`
	UserID    int64      `json:"user_id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// GabineteRef is the minimal id+nome pair used by pickers and lookups.
type GabineteRef struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// GabineteOverview is a usp_gabinetes_list_all_for_user row: every gabinete
// annotated with the caller's latest request toward it.
type GabineteOverview struct {
	ID        int64   `json:"id"`
	Nome      string  `json:"nome"`
	Descricao *string `json:"descricao"`
	OwnerID   int64   `json:"owner_id"`
	OwnerNome string  `json:"owner_nome"`

	MinhaSolicitacaoID *int64  `json:"minha_solicitacao_id"`
	MinhaAtendido      *int    `json:"minha_atendido"`
	MeuAcessoNome      *string `json:"meu_acesso_nome"`
	MinhaMsgPedido     *string `json:"minha_msg_pedido"`
	MinhaCreatedAt     *string `json:"minha_created_at"`
}

// GabineteUser is one collaborator row of a gabinete, already reduced to the
// user's effective role. IsOwner is 1/0 to match the original payload.
type GabineteUser struct {
	UserID     int64  `json:"user_id"`
	UserNome   string `json:"user_nome"`
	AcessoNome string `json:"acesso_nome"`
	IsOwner    int    `json:"is_owner"`
}

// GrantRow is one approved solicitacao row used by the direct-query routes;
// the ranking into an effective role happens in internal/authz.
type GrantRow struct {
	SolicitacaoID int64
	UserID        int64
	UserNome      string
	AcessoNome    string
}

type Solicitacao struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"user_id"`
	UserNome     string  `json:"user_nome"`
	GabineteID   int64   `json:"gabinete_id"`
	GabineteNome string  `json:"gabinete_nome"`
	AcessoID     int64   `json:"acesso_id"`
	AcessoNome   string  `json:"acesso_nome"`
	Atendido     *int    `json:"atendido"`
	MsgPedido    *string `json:"msg_pedido"`
	CreatedAt    string  `json:"created_at"`
}

// Acesso is a usp_meus_acessos_list row: the caller's standing per gabinete.
type Acesso struct {
	SolicitacaoID int64  `json:"solicitacao_id"`
	GabineteID    int64  `json:"gabinete_id"`
	GabineteNome  string `json:"gabinete_nome"`
	AcessoID      int64  `json:"acesso_id"`
	AcessoNome    string `json:"acesso_nome"`
	CreatedAt     string `json:"created_at"`
	IsOwner       int    `json:"is_owner"`
}

type Arquivo struct {
	ID              int64   `json:"id"`
	NomeProcesso    string  `json:"nome_processo"`
	Descricao       *string `json:"descricao"`
	StatusArquivoID int64   `json:"status_arquivo_id"`
	StatusNome      string  `json:"status_nome"`
	GabineteID      int64   `json:"gabinete_id"`
	GabineteNome    string  `json:"gabinete_nome"`
	CreatedAt       string  `json:"created_at"`
}

type Metadado struct {
	ID    int64   `json:"id"`
	Nome  string  `json:"nome"`
	Valor *string `json:"valor"`
}

// MetadadoEntry is an outgoing key/value pair forwarded to usp_arquivo_create.
type MetadadoEntry struct {
	Nome  string `json:"nome"`
	Valor string `json:"valor"`
}

type Evento struct {
	ID             int64   `json:"id"`
	Nome           string  `json:"nome"`
	CreatedAt      string  `json:"created_at"`
	StatusNome     *string `json:"status_nome"`
	ProcuradorNome *string `json:"procurador_nome"`
	PagesJSON      *string `json:"evento_pages_json"`
}

type EventoPages struct {
	EventoID  int64  `json:"evento_id"`
	PagesJSON string `json:"pages_json"`
}

type StatusArquivo struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

type CreateArquivoParams struct {
	UserID          int64
	GabineteID      int64
	StatusArquivoID int64
	NomeProcesso    string
	Descricao       *string
	PDF             []byte
	Txt             *string
	MetadadosJSON   string
}
