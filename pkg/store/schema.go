package store

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Research runs: one row per completed pipeline run
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    queries TEXT,                -- newline-joined query set
    report TEXT,                 -- assembled evidence report, may be empty
    report_hash TEXT,
    source_count INTEGER DEFAULT 0,
    prompt_tokens INTEGER DEFAULT 0,
    completion_tokens INTEGER DEFAULT 0,
    total_tokens INTEGER DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

-- Surviving source pages per run
CREATE TABLE IF NOT EXISTS run_pages (
    page_id INTEGER NOT NULL,    -- pipeline-assigned page identity
    run_id TEXT NOT NULL,
    url TEXT NOT NULL,
    title TEXT,
    publisher TEXT,
    publication_date TEXT,
    language TEXT,
    final_text TEXT,
    PRIMARY KEY (run_id, page_id),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_pages_run ON run_pages(run_id);
`
