// Package service coordinates the translator core: IR validation, SQL
// generation, SQL parsing, linting, and the saved-query history store.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"querycanvas/internal/domain"
	"querycanvas/internal/queryir"
	"querycanvas/internal/sqlgen"
	"querycanvas/internal/sqllint"
	"querycanvas/internal/sqlparse"
)

// GenerateResult holds the rendered SQL plus non-fatal validation findings.
// Issues mirror what the validator reports; the generator has already
// degraded past them.
type GenerateResult struct {
	SQL     string
	Dialect sqlgen.Dialect
	Issues  []string
	SavedID string
}

// ParseResult holds the reconstructed IR and, for SELECT statements, a
// regenerated preview of the round-tripped SQL.
type ParseResult struct {
	Query   *queryir.Query
	Preview string
	SavedID string
}

// TranslatorService translates between the builder IR and SQL text and
// records each translation in the saved-query store. A nil repo disables
// recording.
type TranslatorService struct {
	repo           domain.SavedQueryRepository
	parser         *sqlparse.Parser
	defaultDialect sqlgen.Dialect
	logger         *slog.Logger
}

// NewTranslatorService creates a new TranslatorService.
func NewTranslatorService(repo domain.SavedQueryRepository, defaultDialect sqlgen.Dialect, logger *slog.Logger) *TranslatorService {
	return &TranslatorService{
		repo:           repo,
		parser:         sqlparse.New(),
		defaultDialect: defaultDialect,
		logger:         logger,
	}
}

// Generate validates q, renders it to SQL, and records the translation.
// Validation findings come back as Issues rather than failing the call;
// the only hard failures are a missing query, an unknown dialect, and a
// query with no tables.
func (s *TranslatorService) Generate(ctx context.Context, q *queryir.Query, dialect, name string) (*GenerateResult, error) {
	if q == nil {
		return nil, domain.ErrValidation("query is required")
	}
	d, err := s.resolveDialect(dialect)
	if err != nil {
		return nil, err
	}

	vr := queryir.Validate(q)

	sqlText, err := sqlgen.Generate(q, d)
	if err != nil {
		return nil, err
	}

	res := &GenerateResult{SQL: sqlText, Dialect: d, Issues: vr.Errors}
	res.SavedID = s.record(ctx, q, name, d, sqlText)
	return res, nil
}

// Parse reconstructs builder IR from SQL text and records the translation.
// The parser is total, so the only failures are empty input and an unknown
// dialect. For SELECT statements the result carries a regenerated preview.
func (s *TranslatorService) Parse(ctx context.Context, sqlText, dialect, name string) (*ParseResult, error) {
	if strings.TrimSpace(sqlText) == "" {
		return nil, domain.ErrValidation("sql text is required")
	}
	d, err := s.resolveDialect(dialect)
	if err != nil {
		return nil, err
	}

	q := s.parser.Parse(sqlText)

	res := &ParseResult{Query: q}
	if q.Kind == queryir.KindSelect && len(q.Tables) > 0 {
		if preview, genErr := sqlgen.Generate(q, d); genErr == nil {
			res.Preview = preview
		}
	}
	res.SavedID = s.record(ctx, q, name, d, sqlText)
	return res, nil
}

// Validate reports the structural findings for q without generating SQL.
func (s *TranslatorService) Validate(ctx context.Context, q *queryir.Query) queryir.Result {
	return queryir.Validate(q)
}

// Lint checks raw SQL text against the editor lint rules.
func (s *TranslatorService) Lint(ctx context.Context, sqlText string) sqllint.Result {
	return sqllint.ValidateSQL(sqlText)
}

// Dialects lists the supported target dialects.
func (s *TranslatorService) Dialects() []sqlgen.Dialect {
	return sqlgen.Dialects()
}

// ListHistory returns recorded translations. Non-admin callers see only
// their own records.
func (s *TranslatorService) ListHistory(ctx context.Context, filter domain.SavedQueryFilter) ([]domain.SavedQuery, int64, error) {
	if p, ok := domain.PrincipalFromContext(ctx); ok && !p.IsAdmin {
		filter.CreatedBy = &p.Subject
	}
	return s.repo.List(ctx, filter)
}

// GetHistory returns one recorded translation by ID.
func (s *TranslatorService) GetHistory(ctx context.Context, id string) (*domain.SavedQuery, error) {
	sq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnership(ctx, sq); err != nil {
		return nil, err
	}
	return sq, nil
}

// DeleteHistory removes one recorded translation by ID.
func (s *TranslatorService) DeleteHistory(ctx context.Context, id string) error {
	sq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwnership(ctx, sq); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// resolveDialect maps a request dialect onto the generator's constants,
// falling back to the service default when empty.
func (s *TranslatorService) resolveDialect(name string) (sqlgen.Dialect, error) {
	if name == "" {
		return s.defaultDialect, nil
	}
	d, err := sqlgen.ParseDialect(name)
	if err != nil {
		return "", domain.ErrValidation("unsupported dialect %q", name)
	}
	return d, nil
}

// record inserts the translation into the history store. Recording is
// best-effort: failures are logged and never fail the translation itself.
func (s *TranslatorService) record(ctx context.Context, q *queryir.Query, name string, d sqlgen.Dialect, sqlText string) string {
	if s.repo == nil {
		return ""
	}
	payload, err := json.Marshal(q)
	if err != nil {
		s.logger.Warn("marshal query for history", "error", err)
		return ""
	}

	kind := q.Kind
	if kind == "" {
		kind = queryir.KindSelect
	}

	saved, err := s.repo.Insert(ctx, &domain.SavedQuery{
		Name:      name,
		CreatedBy: principalName(ctx),
		Dialect:   string(d),
		Kind:      string(kind),
		QueryJSON: string(payload),
		SQLText:   sqlText,
	})
	if err != nil {
		s.logger.Warn("record translation", "error", err)
		return ""
	}
	return saved.ID
}

// requireOwnership allows admins and the record's creator through. A
// missing principal means auth is disabled, so everything is allowed.
func requireOwnership(ctx context.Context, sq *domain.SavedQuery) error {
	p, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return nil
	}
	if p.IsAdmin || p.Subject == sq.CreatedBy {
		return nil
	}
	return domain.ErrAccessDenied("saved query %q belongs to another user", sq.ID)
}

func principalName(ctx context.Context) string {
	if p, ok := domain.PrincipalFromContext(ctx); ok {
		return p.Subject
	}
	return ""
}
