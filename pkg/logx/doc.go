// Package logx configures sentinel's structured logging.
//
// Components log through logx.Logger, a small value type on top of zerolog:
//   - Console output stays readable (short timestamp + short caller)
//   - File output is JSON-structured, one object per line
//   - Sinks can be swapped at runtime (Service.Apply) on config reload
//
// The zero Logger is a safe no-op, so components never need nil checks.
package logx
