package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS subjects (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    schedule         TEXT NOT NULL,
    start_date       TEXT NOT NULL,
    end_date         TEXT NOT NULL,
    start_time       TEXT,
    initial_attended INTEGER NOT NULL DEFAULT 0,
    initial_total    INTEGER NOT NULL DEFAULT 0,
    created_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS attendance (
    id          TEXT PRIMARY KEY,
    subject_id  TEXT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
    date        TEXT NOT NULL,
    status      TEXT NOT NULL,
    marked_at   TEXT NOT NULL,
    UNIQUE (subject_id, date)
);

CREATE TABLE IF NOT EXISTS settings (
    id                    INTEGER PRIMARY KEY CHECK (id = 1),
    target_percentage     REAL NOT NULL,
    chaos_factor          REAL NOT NULL,
    notifications_enabled INTEGER NOT NULL DEFAULT 1,
    reminder_lead_minutes INTEGER NOT NULL DEFAULT 30
);

CREATE INDEX IF NOT EXISTS idx_attendance_subject ON attendance(subject_id);
CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date);
`
