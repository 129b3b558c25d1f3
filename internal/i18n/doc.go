// Package i18n holds the per-language string tables: built-in reminder text
// keyed by localization key, plus the UI strings used by the command
// surfaces. Tables are embedded and may be overridden from a directory.
package i18n
