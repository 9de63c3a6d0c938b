// Package formatting renders tabular tool output as plain text.
//
// Tool results are consumed by an LLM agent, so tables are rendered in a
// borderless fixed-width style rather than with box-drawing characters.
package formatting
