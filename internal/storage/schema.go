package storage

const schema = `
-- Accounts that own flashcards.
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

-- Flashcards with their spaced-repetition scheduling fields. The five
-- scheduling columns are always present once a card exists.
CREATE TABLE IF NOT EXISTS flashcards (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    interval INTEGER NOT NULL DEFAULT 0,
    ease_factor REAL NOT NULL DEFAULT 2.5,
    repetitions INTEGER NOT NULL DEFAULT 0,
    next_review_date DATETIME NOT NULL,
    last_reviewed_at DATETIME,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,

    FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
    UNIQUE(user_id, fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_flashcards_user_due
    ON flashcards(user_id, next_review_date);
`
