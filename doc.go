// Package holdings implements position and portfolio accounting on top of an
// append-oriented activity ledger.
//
// The ledger is the single source of truth: current positions, closed holding
// cycles, valuations and returns are always recomputed by replaying the
// activities in (date, id) order with a weighted-average cost basis. Stock
// splits rewrite earlier rows in place and log each rewrite in a reversible
// adjustment table, so editing or deleting a split restores the ledger
// exactly.
//
// The Store guards the ledger with staged-copy mutations: an operation either
// commits fully or leaves the state untouched. AccountingSystem combines a
// Store with a MarketData price database to answer the derived questions.
package holdings
