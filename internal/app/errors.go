package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type DomainError struct {
	Status  int
	Tag     string
	Message string
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Tag, e.Message)
}

func domainError(status int, tag, message string) *DomainError {
	return &DomainError{Status: status, Tag: tag, Message: message}
}

// dbRule maps a failure-message substring to a response. The procedures
// signal domain violations with RAISE messages; matching is case-insensitive
// substring search against a fixed per-operation table, preserved verbatim
// from the surface this replaces.
type dbRule struct {
	substr string
	status int
	tag    string
}

var removeAccessRules = []dbRule{
	{substr: "apenas admin", status: http.StatusForbidden, tag: "FORBIDDEN"},
	{substr: "não é permitido remover o dono", status: http.StatusBadRequest, tag: "CANNOT_REMOVE_OWNER"},
	{substr: "sem permissão", status: http.StatusForbidden, tag: "FORBIDDEN"},
}

var gabineteUsersRules = []dbRule{
	{substr: "sem permissão", status: http.StatusForbidden, tag: "FORBIDDEN"},
}

var gabineteUpdateRules = []dbRule{
	{substr: "não encontrado", status: http.StatusNotFound, tag: "NOT_FOUND_OR_FORBIDDEN"},
	{substr: "sem permissão", status: http.StatusNotFound, tag: "NOT_FOUND_OR_FORBIDDEN"},
}

var gabineteDeleteRules = []dbRule{
	{substr: "apenas admin", status: http.StatusForbidden, tag: "FORBIDDEN"},
	{substr: "não é possível deletar", status: http.StatusBadRequest, tag: "HAS_DEPENDENCIES"},
	{substr: "existem arquivos", status: http.StatusBadRequest, tag: "HAS_DEPENDENCIES"},
	{substr: "não encontrado", status: http.StatusNotFound, tag: "NOT_FOUND_OR_FORBIDDEN"},
	{substr: "sem permissão", status: http.StatusNotFound, tag: "NOT_FOUND_OR_FORBIDDEN"},
}

// classifyDB turns an external failure into the response the route contract
// demands; anything unmatched is a 500 DB_ERROR carrying the raw message.
func classifyDB(err error, rules []dbRule) *DomainError {
	msg := err.Error()
	lower := strings.ToLower(msg)
	for _, r := range rules {
		if strings.Contains(lower, r.substr) {
			return domainError(r.status, r.tag, msg)
		}
	}
	return domainError(http.StatusInternalServerError, "DB_ERROR", msg)
}

// isDuplicateLogin recognizes the one structured failure code: the unique
// violation raised by usp_users_create for an existing login.
func isDuplicateLogin(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "login já existe")
}
