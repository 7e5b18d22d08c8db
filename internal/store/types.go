package store

// Project is one prospectus deal under work.
type Project struct {
	ID          int64
	Name        string
	LockedFinal bool
	CreatedAt   string
}

// Document is one versioned file belonging to a project. Version numbers
// count up per (project, doc_type) starting at 1.
type Document struct {
	ID        int64
	ProjectID int64
	DocType   string
	FileName  string
	FilePath  string
	SHA256    string
	Version   int
	IsLocked  bool
	CreatedAt string
}

// Document types recorded in the store.
const (
	DocTypeOriginal = "original"
	DocTypeDraft    = "draft"
)

// Template is one versioned placeholder-bearing template. ReportJSON holds
// the coverage report from the parameterization that produced it, stored as
// opaque JSON.
type Template struct {
	ID         int64
	Name       string
	Status     string
	SHA256     string
	FilePath   string
	Version    int
	ReportJSON string
	CreatedAt  string
}

// DealProfile is a saved raw/normalized input payload for a project.
type DealProfile struct {
	ID                   int64
	ProjectID            int64
	TemplateID           *int64
	SchemaID             string
	InputsRawJSON        string
	InputsNormalizedJSON string
	CreatedAt            string
	UpdatedAt            string
}

// Analysis is a persisted block-classification result, stored as opaque
// JSON produced by the classifier.
type Analysis struct {
	ID               int64
	ProjectID        int64
	SourceDocumentID int64
	AnalysisJSON     string
	CreatedAt        string
}

// GenerationRun is one draft-generation attempt.
type GenerationRun struct {
	ID               int64
	RunToken         string
	ProjectID        int64
	TemplateID       int64
	SourceDocumentID *int64
	Status           string
	InputsJSON       string
	OutputDocumentID *int64
	OutputPath       *string
	CreatedAt        string
}

// Generation run statuses.
const (
	RunPending   = "pending"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// AuditEntry is one append-only audit record.
type AuditEntry struct {
	ID         int64
	Action     string
	EntityType string
	EntityID   int64
	Details    string
	CreatedAt  string
}
