package types

// Version is the canonical project version, shared by the CLI and the TUI
// shell (lockstep versioning).
const Version = "0.2.0"
