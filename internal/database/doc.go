// Package database implements the read-only PostgreSQL tool server.
//
// The trust boundary has two independent layers: every caller-supplied
// statement passes the sqlguard classifier first, and anything the classifier
// accepts is then executed on a connection whose session the backend itself
// pins read-only. A classifier gap alone is therefore never sufficient to
// mutate data.
//
// When no database is reachable at startup the provider runs in demo mode and
// answers accepted statements with fixed synthetic e-commerce data. Demo mode
// substitutes the execution backend only — classification is never bypassed.
package database
