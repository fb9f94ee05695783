package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goquel/goquel/managers"
	"github.com/goquel/goquel/plugins/softdelete"
)

var dialects = map[string]managers.Dialect{
	"postgres": managers.Postgres,
	"mysql":    managers.MySQL,
	"sqlite":   managers.SQLite,
}

// Session holds the REPL state: the selected dialect, the query being
// built, the active plugin, and an optional database connection. The
// query itself is an immutable builder snapshot; each command replaces
// it with the next snapshot.
type Session struct {
	dialectName string
	dialect     managers.Dialect
	out         io.Writer
	conn        *dbConn
	query       *managers.SelectManager
	plugin      *softdelete.SoftDelete
}

// NewSession creates a session for the named dialect, writing command
// output to out.
func NewSession(dialectName string, out io.Writer) *Session {
	d, ok := dialects[dialectName]
	if !ok {
		dialectName = "postgres"
		d = managers.Postgres
	}
	return &Session{dialectName: dialectName, dialect: d, out: out}
}

// Close releases the database connection, if any.
func (s *Session) Close() {
	if s.conn != nil {
		_ = s.conn.close()
		s.conn = nil
	}
}

// Execute parses and runs one REPL command line.
func (s *Session) Execute(line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "help":
		s.printHelp()
		return nil
	case "dialect":
		return s.cmdDialect(rest)
	case "connect":
		return s.cmdConnect(rest)
	case "tables":
		return s.cmdTables()
	case "plugin":
		return s.cmdPlugin(rest)
	case "from":
		return s.cmdFrom(rest)
	case "reset":
		s.query = nil
		fmt.Fprintln(s.out, "  query reset")
		return nil
	case "sql":
		return s.cmdSQL()
	case "run":
		return s.cmdRun()
	}

	// Everything below operates on the current query.
	q, err := s.current()
	if err != nil {
		return err
	}
	switch strings.ToLower(cmd) {
	case "select":
		q = q.Select(splitList(rest)...)
	case "distinct":
		q = q.Distinct()
	case "join", "leftjoin":
		q, err = applyJoin(q, strings.ToLower(cmd), rest)
		if err != nil {
			return err
		}
	case "where":
		q, err = applyCondition(rest, q.Where)
		if err != nil {
			return err
		}
	case "group":
		q = q.GroupBy(splitList(rest)...)
	case "having":
		q, err = applyCondition(rest, q.Having)
		if err != nil {
			return err
		}
	case "order":
		col, dir, _ := strings.Cut(rest, " ")
		q = q.OrderBy(col, strings.TrimSpace(dir))
	case "limit":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("limit: %w", err)
		}
		q = q.Limit(n)
	case "offset":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("offset: %w", err)
		}
		q = q.Offset(n)
	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
	if err := q.Err(); err != nil {
		return err
	}
	s.query = q
	return s.cmdSQL()
}

func (s *Session) current() (*managers.SelectManager, error) {
	if s.query == nil {
		return nil, fmt.Errorf("no query in progress; start with 'from <table>'")
	}
	return s.query, nil
}

func (s *Session) cmdDialect(name string) error {
	name = strings.ToLower(name)
	d, ok := dialects[name]
	if !ok {
		return fmt.Errorf("unknown dialect %q (postgres, mysql, sqlite)", name)
	}
	if s.query != nil {
		return fmt.Errorf("cannot switch dialect mid-query; 'reset' first")
	}
	s.dialectName, s.dialect = name, d
	fmt.Fprintf(s.out, "  dialect: %s\n", name)
	return nil
}

func (s *Session) cmdConnect(dsn string) error {
	if dsn == "" {
		return fmt.Errorf("usage: connect <dsn>")
	}
	conn, err := connect(s.dialectName, dsn)
	if err != nil {
		return err
	}
	if s.conn != nil {
		_ = s.conn.close()
	}
	s.conn = conn
	fmt.Fprintf(s.out, "  connected: %s\n", sanitizeDSN(dsn))
	return nil
}

func (s *Session) cmdTables() error {
	if s.conn == nil {
		return fmt.Errorf("not connected; use 'connect <dsn>'")
	}
	names, err := s.conn.tables()
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintf(s.out, "  %s\n", n)
	}
	fmt.Fprintf(s.out, "  (%d tables)\n", len(names))
	return nil
}

func (s *Session) cmdPlugin(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return fmt.Errorf("usage: plugin softdelete [column] | plugin off")
	}
	switch fields[0] {
	case "off":
		s.plugin = nil
		fmt.Fprintln(s.out, "  plugins disabled")
		return nil
	case "softdelete":
		var opts []softdelete.Option
		if len(fields) > 1 {
			opts = append(opts, softdelete.WithColumn(fields[1]))
		}
		s.plugin = softdelete.New(opts...)
		fmt.Fprintln(s.out, "  softdelete plugin enabled")
		return nil
	}
	return fmt.Errorf("unknown plugin %q", fields[0])
}

func (s *Session) cmdFrom(table string) error {
	if table == "" {
		return fmt.Errorf("usage: from <table> [as <alias>]")
	}
	q := managers.NewSelectManager(table, s.dialect)
	if err := q.Err(); err != nil {
		return err
	}
	s.query = q
	return s.cmdSQL()
}

// compiled returns the query with the active plugin applied.
func (s *Session) compiled() (*managers.SelectManager, error) {
	q, err := s.current()
	if err != nil {
		return nil, err
	}
	if s.plugin != nil {
		q = q.Use(s.plugin)
	}
	return q, nil
}

func (s *Session) cmdSQL() error {
	q, err := s.compiled()
	if err != nil {
		return err
	}
	sqlText, params, err := q.ToSQL()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "  %s\n", sqlText)
	if len(params) > 0 {
		fmt.Fprintf(s.out, "  params: %v\n", params)
	}
	return nil
}

func (s *Session) cmdRun() error {
	if s.conn == nil {
		return fmt.Errorf("not connected; use 'connect <dsn>'")
	}
	q, err := s.compiled()
	if err != nil {
		return err
	}
	rows, err := q.Query(context.Background(), s.conn.db)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	out, err := formatRows(rows)
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, out)
	return nil
}

// applyJoin parses "table on left = right" and applies the join.
func applyJoin(q *managers.SelectManager, kind, rest string) (*managers.SelectManager, error) {
	table, on, found := cutFold(rest, " on ")
	if !found {
		return nil, fmt.Errorf("usage: %s <table> on <left> = <right>", kind)
	}
	left, right, found := strings.Cut(on, "=")
	if !found {
		return nil, fmt.Errorf("usage: %s <table> on <left> = <right>", kind)
	}
	table = strings.TrimSpace(table)
	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)
	if kind == "leftjoin" {
		return q.LeftJoin(table, left, right), nil
	}
	return q.InnerJoin(table, left, right), nil
}

// applyCondition parses "column op value" and applies it via cond
// (Where or Having). IN takes a comma-separated value list; IS and
// "is not" take no value and compare against NULL.
func applyCondition(rest string, cond func(string, string, any) *managers.SelectManager) (*managers.SelectManager, error) {
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return nil, fmt.Errorf("usage: where <column> <op> <value>")
	}
	column := fields[0]
	op := strings.ToLower(fields[1])
	valueFields := fields[2:]

	// Multi-word operators: "not in", "not like", "is not".
	if len(valueFields) > 0 {
		two := op + " " + strings.ToLower(valueFields[0])
		switch two {
		case "not in", "not like", "is not":
			op = two
			valueFields = valueFields[1:]
		}
	}

	switch op {
	case "is", "is not":
		if len(valueFields) == 1 && strings.EqualFold(valueFields[0], "null") {
			valueFields = nil
		}
		if len(valueFields) != 0 {
			return nil, fmt.Errorf("%s compares against NULL only", op)
		}
		return cond(column, op, nil), nil
	case "in", "not in":
		raw := splitList(strings.Join(valueFields, " "))
		vals := make([]any, len(raw))
		for i, r := range raw {
			vals[i] = parseValue(r)
		}
		return cond(column, op, vals), nil
	}
	if len(valueFields) == 0 {
		return nil, fmt.Errorf("usage: where <column> <op> <value>")
	}
	return cond(column, op, parseValue(strings.Join(valueFields, " "))), nil
}

// splitList splits a comma-separated list, trimming whitespace.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseValue interprets a literal token: quoted strings stay strings,
// numbers and booleans convert, everything else passes through as text.
func parseValue(s string) any {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// cutFold is strings.Cut with a case-insensitive separator.
func cutFold(s, sep string) (before, after string, found bool) {
	idx := strings.Index(strings.ToLower(s), strings.ToLower(sep))
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+len(sep):], true
}

func (s *Session) printHelp() {
	fmt.Fprint(s.out, `Commands:
  from <table> [as <alias>]        start a SELECT query
  select <col>[, <col>...]         set projections (supports "col as alias")
  distinct                         add DISTINCT
  join <table> on <l> = <r>        INNER JOIN
  leftjoin <table> on <l> = <r>    LEFT JOIN
  where <col> <op> <value>         add a WHERE condition (ANDed)
  group <col>[, <col>...]          GROUP BY
  having <col> <op> <value>        add a HAVING condition
  order <col> [asc|desc]           ORDER BY
  limit <n> / offset <n>           LIMIT / OFFSET
  sql                              show compiled SQL and parameters
  run                              execute against the connection
  reset                            discard the current query
  dialect <postgres|mysql|sqlite>  switch dialect
  connect <dsn>                    open a database connection
  tables                           list tables
  plugin softdelete [column]       enable soft-delete filtering
  plugin off                       disable plugins
  help / exit
`)
}
