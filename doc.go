// Package riskfolio computes risk analytics for personal investment
// accounts. It is designed to be local-first and tolerant of the messy data
// real brokerages produce: the inputs are nothing more than daily balance
// observations and the transaction ledger.
//
// The core functionalities include:
//   - Balance Normalization: resampling sparse balance observations onto a
//     dense business-day series, discarding data artifacts.
//   - Cash-Flow Classification: separating external capital movements
//     (deposits, withdrawals, transfers) from internal investment events.
//   - Flow Alignment: attributing each capital flow to the balance change it
//     explains, tolerating the brokerage's delayed postings.
//   - Return Synthesis: deriving time-weighted daily returns so the metrics
//     describe the portfolio, not its owner's saving habits.
//   - Risk Metrics: annualized volatility, Sharpe ratio, maximum drawdown,
//     annualized return, historical 95% VaR, and beta with a
//     holdings-weighted fallback.
//   - Data Persistence: encoding and decoding the history to and from
//     human-readable, version-controllable JSONL files.
//
// This package serves as the foundational logic for the `rfo` command-line
// tool.
package riskfolio
