package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// GetProject returns the project with the given id.
func (s *Store) GetProject(ctx context.Context, id int64) (Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, locked_final, created_at
		FROM prospectus_projects WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.LockedFinal, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// ProjectByName returns the project with the given unique name.
func (s *Store) ProjectByName(ctx context.Context, name string) (Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, locked_final, created_at
		FROM prospectus_projects WHERE name = ?
	`, name).Scan(&p.ID, &p.Name, &p.LockedFinal, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, fmt.Errorf("project %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Project{}, fmt.Errorf("project by name: %w", err)
	}
	return p, nil
}

// GetDocument returns the document with the given id.
func (s *Store) GetDocument(ctx context.Context, id int64) (Document, error) {
	var d Document
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, doc_type, file_name, file_path, sha256, version, is_locked, created_at
		FROM documents WHERE id = ?
	`, id).Scan(&d.ID, &d.ProjectID, &d.DocType, &d.FileName, &d.FilePath,
		&d.SHA256, &d.Version, &d.IsLocked, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

// ListDocuments returns a project's documents of one doc_type, newest
// version first.
func (s *Store) ListDocuments(ctx context.Context, projectID int64, docType string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, doc_type, file_name, file_path, sha256, version, is_locked, created_at
		FROM documents
		WHERE project_id = ? AND doc_type = ?
		ORDER BY version DESC, id DESC
	`, projectID, docType)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.DocType, &d.FileName, &d.FilePath,
			&d.SHA256, &d.Version, &d.IsLocked, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// GetTemplate returns the template with the given id.
func (s *Store) GetTemplate(ctx context.Context, id int64) (Template, error) {
	var t Template
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, status, sha256, file_path, version, report_json, created_at
		FROM templates WHERE id = ?
	`, id).Scan(&t.ID, &t.Name, &t.Status, &t.SHA256, &t.FilePath, &t.Version, &t.ReportJSON, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, fmt.Errorf("template %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Template{}, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// LatestTemplate returns the highest version of the named template.
func (s *Store) LatestTemplate(ctx context.Context, name string) (Template, error) {
	var t Template
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, status, sha256, file_path, version, report_json, created_at
		FROM templates WHERE name = ?
		ORDER BY version DESC LIMIT 1
	`, name).Scan(&t.ID, &t.Name, &t.Status, &t.SHA256, &t.FilePath, &t.Version, &t.ReportJSON, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, fmt.Errorf("template %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Template{}, fmt.Errorf("latest template: %w", err)
	}
	return t, nil
}

// LatestDealProfile returns the most recent profile for a project and
// schema, optionally narrowed to one template.
func (s *Store) LatestDealProfile(ctx context.Context, projectID int64, schemaID string, templateID *int64) (DealProfile, error) {
	query := `
		SELECT id, project_id, template_id, schema_id, inputs_raw_json, inputs_normalized_json, created_at, updated_at
		FROM deal_profiles
		WHERE project_id = ? AND schema_id = ?`
	args := []any{projectID, schemaID}
	if templateID != nil {
		query += " AND template_id = ?"
		args = append(args, *templateID)
	}
	query += " ORDER BY updated_at DESC, id DESC LIMIT 1"

	var p DealProfile
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.ProjectID, &p.TemplateID, &p.SchemaID,
		&p.InputsRawJSON, &p.InputsNormalizedJSON, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return DealProfile{}, fmt.Errorf("deal profile for project %d: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return DealProfile{}, fmt.Errorf("latest deal profile: %w", err)
	}
	return p, nil
}

// GetRun returns the generation run with the given id.
func (s *Store) GetRun(ctx context.Context, id int64) (GenerationRun, error) {
	var r GenerationRun
	err := s.db.QueryRowContext(ctx, `
		SELECT id, run_token, project_id, template_id, source_document_id,
		       status, inputs_json, output_document_id, output_path, created_at
		FROM generation_runs WHERE id = ?
	`, id).Scan(&r.ID, &r.RunToken, &r.ProjectID, &r.TemplateID, &r.SourceDocumentID,
		&r.Status, &r.InputsJSON, &r.OutputDocumentID, &r.OutputPath, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GenerationRun{}, fmt.Errorf("generation run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return GenerationRun{}, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// ListAudit returns the audit trail for one entity, oldest first.
func (s *Store) ListAudit(ctx context.Context, entityType string, entityID int64) ([]AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, entity_type, entity_id, details, created_at
		FROM audit_logs
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY id ASC
	`, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("list audit: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	return entries, nil
}
