package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
  id              BIGSERIAL PRIMARY KEY,
  email           TEXT NOT NULL UNIQUE,
  username        TEXT NOT NULL UNIQUE,
  full_name       TEXT NOT NULL,
  hashed_password TEXT NOT NULL,
  is_active       BOOLEAN NOT NULL DEFAULT TRUE,
  is_admin        BOOLEAN NOT NULL DEFAULT FALSE,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS documents (
  id                BIGSERIAL PRIMARY KEY,
  filename          TEXT NOT NULL,
  original_filename TEXT NOT NULL,
  file_path         TEXT NOT NULL,
  file_size         BIGINT NOT NULL,
  mime_type         TEXT NOT NULL,
  language          TEXT NOT NULL DEFAULT 'de',
  status            TEXT NOT NULL DEFAULT 'uploaded',
  content           TEXT NOT NULL DEFAULT '',
  owner_id          BIGINT NOT NULL REFERENCES users(id),
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS checklists (
  id                BIGSERIAL PRIMARY KEY,
  name              TEXT NOT NULL,
  description       TEXT NOT NULL DEFAULT '',
  language          TEXT NOT NULL DEFAULT 'de',
  is_template       BOOLEAN NOT NULL DEFAULT FALSE,
  template_category TEXT NOT NULL DEFAULT '',
  owner_id          BIGINT NOT NULL REFERENCES users(id),
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS checklist_items (
  id           BIGSERIAL PRIMARY KEY,
  checklist_id BIGINT NOT NULL REFERENCES checklists(id) ON DELETE CASCADE,
  kind         TEXT NOT NULL,
  text         TEXT NOT NULL,
  is_required  BOOLEAN NOT NULL DEFAULT TRUE,
  position     INTEGER NOT NULL DEFAULT 0,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS analyses (
  id              BIGSERIAL PRIMARY KEY,
  name            TEXT NOT NULL,
  status          TEXT NOT NULL DEFAULT 'pending',
  ai_model        TEXT NOT NULL,
  progress        INTEGER NOT NULL DEFAULT 0,
  error_message   TEXT NOT NULL DEFAULT '',
  processing_time DOUBLE PRECISION NOT NULL DEFAULT 0,
  owner_id        BIGINT NOT NULL REFERENCES users(id),
  checklist_id    BIGINT NOT NULL REFERENCES checklists(id),
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  completed_at    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS analysis_documents (
  analysis_id BIGINT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
  document_id BIGINT NOT NULL REFERENCES documents(id),
  position    INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (analysis_id, document_id)
);

CREATE TABLE IF NOT EXISTS analysis_results (
  id                BIGSERIAL PRIMARY KEY,
  analysis_id       BIGINT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
  checklist_item_id BIGINT NOT NULL REFERENCES checklist_items(id),
  document_id       BIGINT NOT NULL REFERENCES documents(id),
  document_name     TEXT NOT NULL DEFAULT '',
  answer            TEXT NOT NULL DEFAULT '',
  condition_result  BOOLEAN,
  confidence_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
  evidence          TEXT NOT NULL DEFAULT '',
  page_references   JSONB NOT NULL DEFAULT '[]',
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents(owner_id);
CREATE INDEX IF NOT EXISTS idx_checklists_owner ON checklists(owner_id);
CREATE INDEX IF NOT EXISTS idx_checklist_items_checklist ON checklist_items(checklist_id);
CREATE INDEX IF NOT EXISTS idx_analyses_owner ON analyses(owner_id);
CREATE INDEX IF NOT EXISTS idx_analysis_results_analysis ON analysis_results(analysis_id);
`

// EnsureSchema creates all tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
