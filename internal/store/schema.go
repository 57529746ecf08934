package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    file_path            TEXT PRIMARY KEY,
    session_id           TEXT NOT NULL,
    project              TEXT NOT NULL,
    is_subagent          INTEGER NOT NULL DEFAULT 0,
    parent_session       TEXT,
    summary              TEXT,
    first_ts             TEXT,
    last_ts              TEXT,
    user_messages        INTEGER,
    assistant_messages   INTEGER,
    size_bytes           INTEGER,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_last ON sessions(last_ts);
CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project);
`
