package sqlite

// schema contains the database schema DDL.
const schema = `
-- Slots: one JSON document per named key
CREATE TABLE IF NOT EXISTS slots (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
