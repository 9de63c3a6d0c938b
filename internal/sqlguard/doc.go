// Package sqlguard classifies SQL text as read-only or rejected before it is
// allowed anywhere near a database connection.
//
// The classifier is a textual gatekeeper, not a SQL parser: it anchors on the
// leading keyword (whitelist), scans the body for mutating keywords as whole
// words (blacklist), and rejects stacked statements. The whitelist check is
// what carries the safety guarantee; the keyword scan is a second layer that
// catches statements sneaking mutations behind an allowed prefix.
//
// Known limitation: keywords or semicolons inside quoted string literals and
// dialect comments are not special-cased, so a literal like 'DROP' in a WHERE
// clause is rejected even though it cannot mutate anything. The classifier
// prefers over-blocking to under-blocking; the database session itself is
// additionally pinned read-only, so a classifier gap alone cannot cause a
// mutation.
package sqlguard
