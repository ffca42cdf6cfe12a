package store

const schema = `
CREATE TABLE IF NOT EXISTS seen_links (
    link    TEXT PRIMARY KEY,
    seen_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_seen_links_seen_at ON seen_links(seen_at);
`
