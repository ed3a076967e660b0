package sqlitestore

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transactions (
    txn_id        TEXT PRIMARY KEY,
    date          TEXT NOT NULL,
    type          TEXT NOT NULL CHECK (type IN ('income', 'expense')),
    amount        TEXT NOT NULL,
    category      TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    reference     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS goals (
    goal_id       TEXT PRIMARY KEY,
    category      TEXT NOT NULL,
    category_key  TEXT NOT NULL,
    monthly_limit TEXT NOT NULL,
    month         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS holdings (
    holding_id     TEXT PRIMARY KEY,
    symbol         TEXT NOT NULL,
    amount         TEXT NOT NULL,
    purchase_price TEXT NOT NULL,
    current_price  TEXT NOT NULL,
    change_24h     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plans (
    plan_id             TEXT PRIMARY KEY,
    monthly_amount      TEXT NOT NULL,
    expected_return_pct TEXT NOT NULL,
    tenure_years        INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS reminders (
    reminder_id   TEXT PRIMARY KEY,
    title         TEXT NOT NULL,
    due_date      TEXT NOT NULL,
    amount        TEXT NOT NULL,
    kind          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);
CREATE UNIQUE INDEX IF NOT EXISTS idx_goals_category_month ON goals(category_key, month);
`
