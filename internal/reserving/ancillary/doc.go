// Package ancillary generates the tables that hang off the true ultimates:
// premiums, individual claims and per-cohort claim counts.
//
// Every generator reads the shared development.TrueUltimates table, never a
// recomputed value, so premiums, claims and development curves agree on the
// same ultimate for each (class, cohort).
package ancillary
