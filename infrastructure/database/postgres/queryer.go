package postgres

import "database/sql"

// Queryer é a superfície de leitura e escrita simples do banco. Repositórios
// que não abrem transação dependem só dela.
type Queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}
