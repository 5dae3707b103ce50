package app

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyDBRemoveAccessRules(t *testing.T) {
	cases := []struct {
		msg    string
		status int
		tag    string
	}{
		{"Apenas ADMIN pode remover permissões.", http.StatusForbidden, "FORBIDDEN"},
		{"Não é permitido remover o dono do gabinete.", http.StatusBadRequest, "CANNOT_REMOVE_OWNER"},
		{"Sem permissão para este gabinete.", http.StatusForbidden, "FORBIDDEN"},
		{"deadlock detected", http.StatusInternalServerError, "DB_ERROR"},
	}
	for _, tc := range cases {
		got := classifyDB(errors.New(tc.msg), removeAccessRules)
		if got.Status != tc.status || got.Tag != tc.tag {
			t.Fatalf("classifyDB(%q) = %d/%s, want %d/%s", tc.msg, got.Status, got.Tag, tc.status, tc.tag)
		}
		if got.Message != tc.msg {
			t.Fatalf("classifyDB(%q) must preserve the raw message, got %q", tc.msg, got.Message)
		}
	}
}

func TestClassifyDBDeleteRules(t *testing.T) {
	cases := []struct {
		msg    string
		status int
		tag    string
	}{
		{"Apenas admin pode deletar.", http.StatusForbidden, "FORBIDDEN"},
		{"Não é possível deletar: existem solicitações.", http.StatusBadRequest, "HAS_DEPENDENCIES"},
		{"Existem arquivos vinculados.", http.StatusBadRequest, "HAS_DEPENDENCIES"},
		{"Gabinete não encontrado.", http.StatusNotFound, "NOT_FOUND_OR_FORBIDDEN"},
		{"Sem permissão.", http.StatusNotFound, "NOT_FOUND_OR_FORBIDDEN"},
	}
	for _, tc := range cases {
		got := classifyDB(errors.New(tc.msg), gabineteDeleteRules)
		if got.Status != tc.status || got.Tag != tc.tag {
			t.Fatalf("classifyDB(%q) = %d/%s, want %d/%s", tc.msg, got.Status, got.Tag, tc.status, tc.tag)
		}
	}
}

func TestClassifyDBFirstMatchWins(t *testing.T) {
	// "apenas admin" outranks "sem permissão" when both appear.
	got := classifyDB(errors.New("Apenas admin; sem permissão."), removeAccessRules)
	if got.Tag != "FORBIDDEN" || got.Status != http.StatusForbidden {
		t.Fatalf("expected 403 FORBIDDEN, got %d %s", got.Status, got.Tag)
	}
}

func TestIsDuplicateLogin(t *testing.T) {
	if !isDuplicateLogin(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("unique violation code must be recognized")
	}
	if !isDuplicateLogin(errors.New("ERRO: Login já existe")) {
		t.Fatal("message match must be recognized")
	}
	if isDuplicateLogin(errors.New("connection refused")) {
		t.Fatal("unrelated errors must not be treated as duplicates")
	}
}

func TestDomainErrorString(t *testing.T) {
	err := domainError(http.StatusConflict, "LOGIN_EXISTS", "Login já existe")
	if err.Error() != "LOGIN_EXISTS: Login já existe" {
		t.Fatalf("unexpected Error() %q", err.Error())
	}
}
