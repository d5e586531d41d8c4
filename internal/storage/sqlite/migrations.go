package sqlite

import "database/sql"

// schema is applied on startup to ensure tables exist.
// Groups and participants must be created before expenses due to foreign key constraints.
// settlement_mode and lease_owner_id stay nullable: rows written before
// settlement modes existed carry NULL there.
const schema = `
CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    currency TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    title TEXT NOT NULL,
    amount INTEGER NOT NULL,
    split_mode TEXT NOT NULL,
    settlement_mode TEXT,
    paid_by TEXT NOT NULL,
    is_reimbursement INTEGER NOT NULL DEFAULT 0,
    expense_date INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    lease_owner_id TEXT,
    lease_item_name TEXT,
    lease_buyback_date INTEGER,
    lease_buyback_active INTEGER NOT NULL DEFAULT 0,
    lease_buyback_completed INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expense_paid_for (
    expense_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    shares INTEGER NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (expense_id, participant_id),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expense_sub_items (
    id TEXT PRIMARY KEY,
    expense_id TEXT NOT NULL,
    title TEXT NOT NULL,
    amount INTEGER NOT NULL,
    split_mode TEXT NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS sub_item_paid_for (
    sub_item_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    shares INTEGER NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (sub_item_id, participant_id),
    FOREIGN KEY (sub_item_id) REFERENCES expense_sub_items(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS lease_buyin_payments (
    expense_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    PRIMARY KEY (expense_id, participant_id),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_participants_group_id ON participants(group_id);
CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id);
CREATE INDEX IF NOT EXISTS idx_expense_paid_for_expense_id ON expense_paid_for(expense_id);
CREATE INDEX IF NOT EXISTS idx_expense_sub_items_expense_id ON expense_sub_items(expense_id);
CREATE INDEX IF NOT EXISTS idx_sub_item_paid_for_sub_item_id ON sub_item_paid_for(sub_item_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
