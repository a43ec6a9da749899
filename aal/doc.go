// Package aal implements the AALang scripting engine, a direct-recursive
// source interpreter meant to be embedded in a host program. The language
// supports the following constructs:
//   - Statements terminated by `;`, with `// line comments`.
//   - Literals for numbers, double-quoted strings, and `{ ... }` blocks.
//   - Assignment via `name = expr;` and map entries via `name[key] = expr;`.
//   - Calls such as `print(x)`; a variable holding a block is callable too.
//   - Control flow through the `if`, `ifelse`, `while` and `foreach` functions,
//     which take blocks as arguments and run them on demand.
//
// All variables live in one flat namespace per Engine. Recoverable parse and
// runtime errors are reported to the diagnostic writer and execution carries
// on with the next statement; exit(), the recursion limit, the optional step
// quota and Interrupt stop it.
package aal
