package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateProject inserts a new project and returns its id.
// Project names are unique; inserting a duplicate name returns an error.
func (s *Store) CreateProject(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO prospectus_projects (name, locked_final, created_at)
		VALUES (?, 0, ?)
	`, name, now())
	if err != nil {
		return 0, fmt.Errorf("create project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create project: %w", err)
	}
	return id, nil
}

// AddDocument inserts a document row, allocating the next version for the
// project's doc_type. The MAX(version)+1 read and the insert run in one
// transaction; with the single-writer pool this serializes concurrent
// allocations, so versions are gap-free per (project_id, doc_type).
func (s *Store) AddDocument(ctx context.Context, d Document) (Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Document{}, fmt.Errorf("add document: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version), 0) + 1
		FROM documents
		WHERE project_id = ? AND doc_type = ?
	`, d.ProjectID, d.DocType).Scan(&d.Version)
	if err != nil {
		return Document{}, fmt.Errorf("add document: next version: %w", err)
	}

	d.CreatedAt = now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents
		(project_id, doc_type, file_name, file_path, sha256, version, is_locked, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ProjectID, d.DocType, d.FileName, d.FilePath, d.SHA256, d.Version, d.IsLocked, d.CreatedAt)
	if err != nil {
		return Document{}, fmt.Errorf("add document: %w", err)
	}
	if d.ID, err = res.LastInsertId(); err != nil {
		return Document{}, fmt.Errorf("add document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Document{}, fmt.Errorf("add document: %w", err)
	}
	return d, nil
}

// SaveTemplate inserts a template row, allocating the next version for the
// template's name inside one transaction (same serialization contract as
// AddDocument).
func (s *Store) SaveTemplate(ctx context.Context, t Template) (Template, error) {
	if t.Status == "" {
		t.Status = "draft"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Template{}, fmt.Errorf("save template: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version), 0) + 1 FROM templates WHERE name = ?
	`, t.Name).Scan(&t.Version)
	if err != nil {
		return Template{}, fmt.Errorf("save template: next version: %w", err)
	}

	t.CreatedAt = now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO templates
		(name, status, sha256, file_path, version, report_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.Name, t.Status, t.SHA256, t.FilePath, t.Version, t.ReportJSON, t.CreatedAt)
	if err != nil {
		return Template{}, fmt.Errorf("save template: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return Template{}, fmt.Errorf("save template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Template{}, fmt.Errorf("save template: %w", err)
	}
	return t, nil
}

// SaveDealProfile inserts a new profile row. Profiles are append-only;
// readers take the latest by updated_at.
func (s *Store) SaveDealProfile(ctx context.Context, p DealProfile) (int64, error) {
	stamp := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO deal_profiles
		(project_id, template_id, schema_id, inputs_raw_json, inputs_normalized_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ProjectID, p.TemplateID, p.SchemaID, p.InputsRawJSON, p.InputsNormalizedJSON, stamp, stamp)
	if err != nil {
		return 0, fmt.Errorf("save deal profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save deal profile: %w", err)
	}
	return id, nil
}

// SaveAnalysis persists a classification result against its source document.
func (s *Store) SaveAnalysis(ctx context.Context, a Analysis) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO prospectus_analyses
		(project_id, source_document_id, analysis_json, created_at)
		VALUES (?, ?, ?, ?)
	`, a.ProjectID, a.SourceDocumentID, a.AnalysisJSON, now())
	if err != nil {
		return 0, fmt.Errorf("save analysis: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save analysis: %w", err)
	}
	return id, nil
}

// CreateRun inserts a pending generation run with a fresh UUIDv7 run token
// and returns the stored row.
func (s *Store) CreateRun(ctx context.Context, r GenerationRun) (GenerationRun, error) {
	token, err := uuid.NewV7()
	if err != nil {
		return GenerationRun{}, fmt.Errorf("create run: token: %w", err)
	}
	r.RunToken = token.String()
	r.Status = RunPending
	r.CreatedAt = now()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_runs
		(run_token, project_id, template_id, source_document_id, status, inputs_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.RunToken, r.ProjectID, r.TemplateID, r.SourceDocumentID, r.Status, r.InputsJSON, r.CreatedAt)
	if err != nil {
		return GenerationRun{}, fmt.Errorf("create run: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return GenerationRun{}, fmt.Errorf("create run: %w", err)
	}
	return r, nil
}

// CompleteRun marks a run completed and links its output document and path.
func (s *Store) CompleteRun(ctx context.Context, runID, outputDocumentID int64, outputPath string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE generation_runs
		SET status = ?, output_document_id = ?, output_path = ?
		WHERE id = ?
	`, RunCompleted, outputDocumentID, outputPath, runID)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

// FailRun marks a run failed, recording the failure in the audit log.
func (s *Store) FailRun(ctx context.Context, runID int64, reason string) error {
	if _, err := s.db.ExecContext(ctx, `
		UPDATE generation_runs SET status = ? WHERE id = ?
	`, RunFailed, runID); err != nil {
		return fmt.Errorf("fail run: %w", err)
	}
	return s.AppendAudit(ctx, AuditEntry{
		Action:     "generation_failed",
		EntityType: "generation_run",
		EntityID:   runID,
		Details:    reason,
	})
}

// AppendAudit writes one audit record.
func (s *Store) AppendAudit(ctx context.Context, e AuditEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (action, entity_type, entity_id, details, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.Action, e.EntityType, e.EntityID, e.Details, now())
	if err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}
