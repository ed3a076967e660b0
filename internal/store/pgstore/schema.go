package pgstore

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transactions (
    txn_id        TEXT PRIMARY KEY,
    date          DATE NOT NULL,
    type          TEXT NOT NULL CHECK (type IN ('income', 'expense')),
    amount        NUMERIC(18, 2) NOT NULL CHECK (amount >= 0),
    category      TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    reference     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS goals (
    goal_id       TEXT PRIMARY KEY,
    category      TEXT NOT NULL,
    monthly_limit NUMERIC(18, 2) NOT NULL,
    month         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS holdings (
    holding_id     TEXT PRIMARY KEY,
    symbol         TEXT NOT NULL,
    amount         NUMERIC NOT NULL,
    purchase_price NUMERIC NOT NULL,
    current_price  NUMERIC NOT NULL,
    change_24h     NUMERIC NOT NULL
);

CREATE TABLE IF NOT EXISTS plans (
    plan_id             TEXT PRIMARY KEY,
    monthly_amount      NUMERIC NOT NULL,
    expected_return_pct NUMERIC NOT NULL,
    tenure_years        INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS reminders (
    reminder_id   TEXT PRIMARY KEY,
    title         TEXT NOT NULL,
    due_date      DATE NOT NULL,
    amount        NUMERIC NOT NULL,
    kind          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE UNIQUE INDEX IF NOT EXISTS idx_goals_category_month ON goals(lower(category), month);
`
