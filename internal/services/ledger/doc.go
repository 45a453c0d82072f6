/*
Package ledger implements the double-entry ledger engine.

Every movement of funds is a Transaction with a set of signed LedgerEntry
rows that sum to exactly zero. Apply commits a transaction atomically:
the transaction, its entries, and every touched account balance become
visible together or not at all. A caller-supplied reference id makes
Apply idempotent; replaying a known reference id returns the original
transaction without touching any balance.

Balances are derived from entry amounts through BalanceDelta, the single
sign convention table. Liability accounts (user wallets) may never go
negative; the engine evaluates every prospective balance under row locks
acquired in ascending account id order before committing anything, so
concurrent transactions against the same account serialize and cannot
both pass the overdraft check on a stale read.
*/
package ledger
